package payload

import (
	"curriculum-editor/internal/curriculum"
	"curriculum-editor/internal/domain"
)

// Normalize renders the tree in the backend shape. Only the fields relevant to each
// activity type are sent; bank references travel along so the backend links catalog entries.
func Normalize(t *curriculum.Tree, money Money) CourseRecord {
	c := t.Snapshot()
	rec := CourseRecord{
		ID:               c.ID,
		Name:             c.Name,
		Title:            c.Title,
		Slug:             c.Slug,
		Duration:         c.Duration,
		DurationUnit:     string(c.DurationUnit),
		Price:            money.Plain(c.Price),
		PromotionalPrice: money.Plain(c.PromotionalPrice),
		Installments:     clamp(c.Installments, domain.MinInstallments, domain.MaxInstallments),
		Modules:          make([]ModuleRecord, 0, len(c.Modules)),
	}
	if c.Cover != (curriculum.Cover{}) {
		rec.Cover = &CoverRecord{URL: c.Cover.URL, FileID: c.Cover.FileID, Title: c.Cover.Title}
	}
	for _, m := range c.Modules {
		rec.Modules = append(rec.Modules, NormalizeModule(m))
	}
	return rec
}

// NormalizeModule renders one module snapshot.
func NormalizeModule(m curriculum.Module) ModuleRecord {
	rec := ModuleRecord{
		BankRefID:    m.BankRefID,
		Title:        m.Title,
		Name:         fallback(m.Name, m.Title),
		DurationUnit: string(m.DurationUnit),
		Duration:     m.Duration,
		Description:  m.Description,
		Active:       m.Active,
		Activities:   make([]ActivityRecord, 0, len(m.Activities)),
	}
	for _, a := range m.Activities {
		rec.Activities = append(rec.Activities, NormalizeActivity(a))
	}
	return rec
}

// NormalizeActivity renders one activity snapshot, rebuilding content from the type's own field.
func NormalizeActivity(a curriculum.Activity) ActivityRecord {
	rec := ActivityRecord{
		BankRefID:    a.BankRefID,
		Title:        a.Title,
		Name:         fallback(a.Name, a.Title),
		DurationUnit: string(a.DurationUnit),
		Type:         string(a.Type),
		Duration:     a.Duration,
		Description:  a.Description,
		Active:       a.Active,
	}

	switch c := a.Content().(type) {
	case curriculum.VideoContent:
		rec.Content = c.URL
	case curriculum.FileContent:
		rec.Content = c.URL
	case curriculum.ReadingContent:
		rec.Content = c.Body
	case curriculum.TaskContent:
		rec.Content = c.Instructions
	case curriculum.QuizContent:
		// quiz data travels in the dedicated fields
		rec.QuizConfig = &QuizConfigRecord{
			PassingScore:     c.Config.PassingScore,
			MaxAttempts:      c.Config.MaxAttempts,
			TimeLimit:        c.Config.TimeLimit,
			ShuffleQuestions: c.Config.ShuffleQuestions,
		}
		for _, q := range c.Questions {
			rec.QuizQuestions = append(rec.QuizQuestions, normalizeQuestion(q))
		}
	}
	return rec
}

func normalizeQuestion(q curriculum.Question) QuizQuestionRecord {
	rec := QuizQuestionRecord{
		ID:           q.ID,
		QuestionType: string(q.QuestionType),
		Prompt:       q.Prompt,
		Points:       q.Points,
	}
	switch q.QuestionType {
	case domain.QuestionTrueFalse:
		answer := q.CorrectAnswer
		rec.CorrectAnswer = &answer
	default:
		for _, o := range q.Options {
			rec.Options = append(rec.Options, QuizOptionRecord{ID: o.ID, Text: o.Text, IsCorrect: o.IsCorrect})
		}
	}
	return rec
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
