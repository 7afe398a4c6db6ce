package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"curriculum-editor/internal/curriculum"
)

// FieldError attaches messages to one field of the entity at Path.
type FieldError struct {
	Path     curriculum.Path `json:"path"`
	Field    string          `json:"field"`
	Messages []string        `json:"messages"`
}

// Key renders the UI location of the field, e.g. "modules[1].activities[0].title".
func (fe FieldError) Key() string { return fe.Path.FieldPath(fe.Field) }

// FieldErrors is returned when local validation blocks a save.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, e := range fe {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Key(), strings.Join(e.Messages, ", ")))
	}
	return "invalid fields: " + strings.Join(parts, "; ")
}

// Messages flattens every message in order.
func (fe FieldErrors) Messages() []string {
	var out []string
	for _, e := range fe {
		out = append(out, e.Messages...)
	}
	return out
}

// ByKey indexes the errors by their UI location.
func (fe FieldErrors) ByKey() map[string][]string {
	out := make(map[string][]string, len(fe))
	for _, e := range fe {
		out[e.Key()] = append(out[e.Key()], e.Messages...)
	}
	return out
}

// add merges messages into an existing entry for the same field, keeping first-seen order.
func (fe *FieldErrors) add(p curriculum.Path, field string, msgs ...string) {
	for i := range *fe {
		e := &(*fe)[i]
		if e.Field == field && e.Path.Equal(p) {
			e.Messages = append(e.Messages, msgs...)
			return
		}
	}
	*fe = append(*fe, FieldError{Path: p.Clone(), Field: field, Messages: msgs})
}

// translate turns validator errors into messages for the entity at p.
func (fe *FieldErrors) translate(p curriculum.Path, err error) {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		if err != nil {
			fe.add(p, "", err.Error())
		}
		return
	}
	for _, e := range verrs {
		fe.add(p, fieldName(e), e.Translate(translator))
	}
}

// fieldName drops the root struct from the namespace: "ActivityFields.quizConfig.passingScore" → "quizConfig.passingScore".
func fieldName(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}
