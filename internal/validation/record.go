package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"curriculum-editor/internal/payload"
)

// Record validates a course in backend shape the way the admin API does and reports the
// failures with dotted backend paths ("modules.0.activities.2.title"), in validation order.
func Record(rec payload.CourseRecord) []payload.FieldError {
	err := validate.Struct(rec)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []payload.FieldError{{Path: "", Messages: []string{err.Error()}}}
	}

	var out []payload.FieldError
	index := map[string]int{}
	for _, e := range verrs {
		path := dottedPath(e.Namespace())
		msg := e.Translate(translator)
		if i, seen := index[path]; seen {
			out[i].Messages = append(out[i].Messages, msg)
			continue
		}
		index[path] = len(out)
		out = append(out, payload.FieldError{Path: path, Messages: []string{msg}})
	}
	return out
}

// RecordError wraps Record failures in the error repositories return for rejected saves.
func RecordError(rec payload.CourseRecord) error {
	fields := Record(rec)
	if len(fields) == 0 {
		return nil
	}
	return &payload.RemoteValidationError{Message: "The given data was invalid.", Fields: fields}
}

// dottedPath turns "CourseRecord.modules[0].activities[2].title" into "modules.0.activities.2.title".
func dottedPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	r := strings.NewReplacer("[", ".", "]", "")
	return r.Replace(ns)
}
