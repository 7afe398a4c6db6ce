package payload

import (
	"curriculum-editor/internal/curriculum"
	"curriculum-editor/internal/domain"
)

// Denormalize builds the editor tree from a backend record. The stored course duration is
// ignored; the tree derives it from the curriculum. The returned tree is clean.
func Denormalize(rec CourseRecord, money Money) *curriculum.Tree {
	course := curriculum.CourseFields{
		ID:               rec.ID,
		Name:             rec.Name,
		Title:            rec.Title,
		Slug:             rec.Slug,
		DurationUnit:     domain.ParseDurationUnit(rec.DurationUnit),
		Price:            money.Display(rec.Price),
		PromotionalPrice: money.Display(rec.PromotionalPrice),
		Installments:     clamp(rec.Installments, domain.MinInstallments, domain.MaxInstallments),
	}
	if rec.Cover != nil {
		course.Cover = curriculum.Cover{URL: rec.Cover.URL, FileID: rec.Cover.FileID, Title: rec.Cover.Title}
	}

	t := curriculum.NewTree(course)
	for _, m := range rec.Modules {
		t.AppendModule(DenormalizeModule(m))
	}
	t.MarkClean()
	return t
}

// DenormalizeModule converts a module record, activities included.
func DenormalizeModule(rec ModuleRecord) curriculum.Module {
	m := curriculum.Module{
		ModuleFields: curriculum.ModuleFields{
			BankRefID:    rec.BankRefID,
			Title:        rec.Title,
			Name:         rec.Name,
			Duration:     nonNegative(rec.Duration),
			DurationUnit: domain.ParseDurationUnit(rec.DurationUnit),
			Description:  rec.Description,
			Active:       rec.Active,
		},
		Activities: make([]curriculum.Activity, 0, len(rec.Activities)),
	}
	for _, a := range rec.Activities {
		m.Activities = append(m.Activities, DenormalizeActivity(a))
	}
	return m
}

// DenormalizeActivity converts an activity record, routing the overloaded content by type.
func DenormalizeActivity(rec ActivityRecord) curriculum.Activity {
	typ := domain.ActivityType(rec.Type)
	if !typ.Valid() {
		typ = domain.ActivityReading
	}
	a := curriculum.Activity{ActivityFields: curriculum.ActivityFields{
		BankRefID:    rec.BankRefID,
		Title:        rec.Title,
		Name:         rec.Name,
		Type:         typ,
		Description:  rec.Description,
		Duration:     nonNegative(rec.Duration),
		DurationUnit: domain.ParseDurationUnit(rec.DurationUnit),
		Active:       rec.Active,
		VideoSource:  domain.VideoYouTube,
	}}

	switch ContentField(typ) {
	case curriculum.FieldVideoURL:
		a.VideoURL = rec.Content
		a.VideoSource = domain.InferVideoSource(rec.Content)
	case curriculum.FieldFileURL:
		a.FileURL = rec.Content
	default:
		if a.Description == "" {
			a.Description = rec.Content
		}
	}

	if rec.QuizConfig != nil {
		a.Quiz = curriculum.QuizConfig{
			PassingScore:     rec.QuizConfig.PassingScore,
			MaxAttempts:      rec.QuizConfig.MaxAttempts,
			TimeLimit:        rec.QuizConfig.TimeLimit,
			ShuffleQuestions: rec.QuizConfig.ShuffleQuestions,
		}
	}
	for _, q := range rec.QuizQuestions {
		a.Questions = append(a.Questions, denormalizeQuestion(q))
	}
	return a
}

func denormalizeQuestion(rec QuizQuestionRecord) curriculum.Question {
	qt := domain.QuestionType(rec.QuestionType)
	if !qt.Valid() {
		qt = domain.QuestionMultipleChoice
	}
	q := curriculum.Question{QuestionFields: curriculum.QuestionFields{
		ID:           rec.ID,
		QuestionType: qt,
		Prompt:       rec.Prompt,
		Points:       clamp(rec.Points, 0, rec.Points),
	}}
	if rec.CorrectAnswer != nil {
		q.CorrectAnswer = *rec.CorrectAnswer
	}
	for _, o := range rec.Options {
		q.Options = append(q.Options, curriculum.Option{
			OptionFields: curriculum.OptionFields{ID: o.ID, Text: o.Text},
			IsCorrect:    o.IsCorrect,
		})
	}
	return q
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func nonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}
