package validation

import (
	"curriculum-editor/internal/curriculum"
	"curriculum-editor/internal/domain"
)

// Local checks the tree before it is sent: required fields, URLs for video and file
// activities, quiz prompts and option texts. It returns nil when the tree can be saved.
func Local(t *curriculum.Tree) FieldErrors {
	var errs FieldErrors
	errs.translate(curriculum.Path{}, validate.Struct(t.Course()))

	c := t.Snapshot()
	for i, m := range c.Modules {
		mp := curriculum.ModulePath(i)
		errs.translate(mp, validate.Struct(m.ModuleFields))
		for j, a := range m.Activities {
			ap := mp.Child(j)
			errs.translate(ap, validate.Struct(a.ActivityFields))
			if a.Type != domain.ActivityQuiz {
				continue
			}
			for k, q := range a.Questions {
				qp := ap.Child(k)
				errs.translate(qp, validate.Struct(q.QuestionFields))
				if q.QuestionType != domain.QuestionMultipleChoice {
					continue
				}
				for l, o := range q.Options {
					errs.translate(qp.Child(l), validate.Struct(o.OptionFields))
				}
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
