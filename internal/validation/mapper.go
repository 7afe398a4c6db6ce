package validation

import (
	"strconv"
	"strings"
	"time"

	"curriculum-editor/internal/curriculum"
	"curriculum-editor/internal/domain"
	"curriculum-editor/internal/payload"
)

// MaxNotificationMessages bounds how many messages the consolidated notification lists.
const MaxNotificationMessages = 3

// Result is what a rejected save turns into on the editor side.
type Result struct {
	Fields FieldErrors `json:"fields"`
	// Expand lists the module, activity and question paths to force open, in first-seen order.
	Expand       []curriculum.Path    `json:"expand"`
	Notification *domain.Notification `json:"notification,omitempty"`
}

// MapRemote translates backend field errors onto the tree. Segments it cannot translate are
// kept verbatim so no message is lost. t may be nil, in which case overloaded fields map as reading content.
func MapRemote(t *curriculum.Tree, fields []payload.FieldError) Result {
	var res Result
	seen := map[string]bool{}
	var msgs []string

	for _, fe := range fields {
		p, field := resolve(t, fe.Path)
		res.Fields.add(p, field, fe.Messages...)
		msgs = append(msgs, fe.Messages...)

		for depth := 1; depth <= len(p) && depth < int(curriculum.LevelOption); depth++ {
			prefix := p[:depth].Clone()
			if t != nil && !t.Exists(prefix) {
				break
			}
			if !seen[prefix.Key()] {
				seen[prefix.Key()] = true
				res.Expand = append(res.Expand, prefix)
			}
		}
	}

	if len(fields) > 0 {
		res.Notification = consolidate(msgs)
	}
	return res
}

func consolidate(msgs []string) *domain.Notification {
	n := &domain.Notification{
		Level:     domain.LevelError,
		Title:     "The course could not be saved",
		CreatedAt: time.Now(),
	}
	if len(msgs) > MaxNotificationMessages {
		n.More = len(msgs) - MaxNotificationMessages
		msgs = msgs[:MaxNotificationMessages]
	}
	n.Messages = msgs
	return n
}

// resolve walks "modules.1.activities.0.title" into the entity path {1,0} and the UI field "title".
func resolve(t *curriculum.Tree, backend string) (curriculum.Path, string) {
	segs := strings.Split(backend, ".")
	p := curriculum.Path{}
	i := 0
	for i+1 < len(segs) && p.Level() < curriculum.LevelOption {
		if segs[i] != payload.ListName(p.Level()+1) {
			break
		}
		idx, err := strconv.Atoi(segs[i+1])
		if err != nil || idx < 0 {
			break
		}
		p = append(p, idx)
		i += 2
	}
	return p, uiField(t, p, segs[i:])
}

func uiField(t *curriculum.Tree, p curriculum.Path, rest []string) string {
	if len(rest) == 0 {
		return ""
	}
	var typ domain.ActivityType
	if p.Level() == curriculum.LevelActivity && t != nil {
		if a, ok := t.Activity(p[0], p[1]); ok {
			typ = a.Type
		}
	}
	if ui, ok := payload.UIField(p.Level(), strings.Join(rest, "."), typ); ok {
		return ui
	}
	if ui, ok := payload.UIField(p.Level(), rest[0], typ); ok {
		rest = append([]string{ui}, rest[1:]...)
	}
	return strings.Join(rest, ".")
}
