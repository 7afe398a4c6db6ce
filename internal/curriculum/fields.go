package curriculum

import (
	"strconv"
	"strings"

	"curriculum-editor/internal/domain"
)

// UI field names accepted by SetField and used in field-error paths.
const (
	FieldTitle            = "title"
	FieldName             = "name"
	FieldSlug             = "slug"
	FieldDescription      = "description"
	FieldDuration         = "duration"
	FieldDurationUnit     = "durationUnit"
	FieldActive           = "active"
	FieldType             = "type"
	FieldVideoSource      = "videoSource"
	FieldVideoURL         = "videoUrl"
	FieldFileURL          = "fileUrl"
	FieldPassingScore     = "passingScore"
	FieldMaxAttempts      = "maxAttempts"
	FieldTimeLimit        = "timeLimit"
	FieldShuffleQuestions = "shuffleQuestions"
	FieldPrompt           = "prompt"
	FieldPoints           = "points"
	FieldQuestionType     = "questionType"
	FieldCorrectAnswer    = "correctAnswer"
	FieldText             = "text"
	FieldIsCorrect        = "isCorrect"
	FieldPrice            = "price"
	FieldPromotionalPrice = "promotionalPrice"
	FieldInstallments     = "installments"
	FieldCoverURL         = "coverUrl"
	FieldCoverFileID      = "coverFileId"
	FieldCoverTitle       = "coverTitle"
)

// SetField writes a single UI field addressed by path. Values arrive as the strings
// an input control produces. Unknown fields, unparsable values and dangling paths are no-ops.
func (t *Tree) SetField(p Path, field, value string) bool {
	switch p.Level() {
	case LevelCourse:
		return t.setCourseField(field, value)
	case LevelModule:
		return t.setModuleField(p[0], field, value)
	case LevelActivity:
		return t.setActivityField(p[0], p[1], field, value)
	case LevelQuestion:
		return t.setQuestionField(p[0], p[1], p[2], field, value)
	case LevelOption:
		switch field {
		case FieldText:
			return t.UpdateOption(p[0], p[1], p[2], p[3], func(o *OptionFields) { o.Text = value })
		case FieldIsCorrect:
			on, ok := parseBool(value)
			if !ok || !on {
				return false
			}
			return t.SetOptionCorrect(p)
		}
	}
	return false
}

func (t *Tree) setCourseField(field, value string) bool {
	var apply func(*CourseFields)
	switch field {
	case FieldTitle:
		apply = func(c *CourseFields) { c.Title = value }
	case FieldName:
		apply = func(c *CourseFields) { c.Name = value }
	case FieldSlug:
		apply = func(c *CourseFields) { c.Slug = value }
	case FieldDurationUnit:
		u := domain.DurationUnit(value)
		if !u.Valid() {
			return false
		}
		apply = func(c *CourseFields) { c.DurationUnit = u }
	case FieldPrice:
		apply = func(c *CourseFields) { c.Price = value }
	case FieldPromotionalPrice:
		apply = func(c *CourseFields) { c.PromotionalPrice = value }
	case FieldInstallments:
		n, ok := parseCount(value)
		if !ok {
			return false
		}
		apply = func(c *CourseFields) { c.Installments = n }
	case FieldCoverURL:
		apply = func(c *CourseFields) { c.Cover.URL = value }
	case FieldCoverFileID:
		apply = func(c *CourseFields) { c.Cover.FileID = value }
	case FieldCoverTitle:
		apply = func(c *CourseFields) { c.Cover.Title = value }
	default:
		return false
	}
	t.UpdateCourse(apply)
	return true
}

func (t *Tree) setModuleField(i int, field, value string) bool {
	var apply func(*ModuleFields)
	switch field {
	case FieldTitle:
		apply = func(m *ModuleFields) { m.Title = value }
	case FieldName:
		apply = func(m *ModuleFields) { m.Name = value }
	case FieldDescription:
		apply = func(m *ModuleFields) { m.Description = value }
	case FieldDuration:
		n, ok := parseDuration(value)
		if !ok {
			return false
		}
		apply = func(m *ModuleFields) { m.Duration = n }
	case FieldDurationUnit:
		u := domain.DurationUnit(value)
		if !u.Valid() {
			return false
		}
		apply = func(m *ModuleFields) { m.DurationUnit = u }
	case FieldActive:
		on, ok := parseBool(value)
		if !ok {
			return false
		}
		apply = func(m *ModuleFields) { m.Active = on }
	default:
		return false
	}
	return t.UpdateModule(i, apply)
}

func (t *Tree) setActivityField(i, j int, field, value string) bool {
	var apply func(*ActivityFields)
	switch field {
	case FieldTitle:
		apply = func(a *ActivityFields) { a.Title = value }
	case FieldName:
		apply = func(a *ActivityFields) { a.Name = value }
	case FieldDescription:
		apply = func(a *ActivityFields) { a.Description = value }
	case FieldDuration:
		n, ok := parseDuration(value)
		if !ok {
			return false
		}
		apply = func(a *ActivityFields) { a.Duration = n }
	case FieldDurationUnit:
		u := domain.DurationUnit(value)
		if !u.Valid() {
			return false
		}
		apply = func(a *ActivityFields) { a.DurationUnit = u }
	case FieldActive:
		on, ok := parseBool(value)
		if !ok {
			return false
		}
		apply = func(a *ActivityFields) { a.Active = on }
	case FieldType:
		typ := domain.ActivityType(value)
		if !typ.Valid() {
			return false
		}
		apply = func(a *ActivityFields) { a.Type = typ }
	case FieldVideoSource:
		src := domain.VideoSource(value)
		if !src.Valid() {
			return false
		}
		apply = func(a *ActivityFields) { a.VideoSource = src }
	case FieldVideoURL:
		apply = func(a *ActivityFields) {
			a.VideoURL = value
			a.VideoSource = domain.InferVideoSource(value)
		}
	case FieldFileURL:
		apply = func(a *ActivityFields) { a.FileURL = value }
	case FieldPassingScore, FieldMaxAttempts, FieldTimeLimit:
		n, ok := parseCount(value)
		if !ok {
			return false
		}
		apply = func(a *ActivityFields) {
			switch field {
			case FieldPassingScore:
				a.Quiz.PassingScore = n
			case FieldMaxAttempts:
				a.Quiz.MaxAttempts = n
			default:
				a.Quiz.TimeLimit = n
			}
		}
	case FieldShuffleQuestions:
		on, ok := parseBool(value)
		if !ok {
			return false
		}
		apply = func(a *ActivityFields) { a.Quiz.ShuffleQuestions = on }
	default:
		return false
	}
	return t.UpdateActivity(i, j, apply)
}

func (t *Tree) setQuestionField(i, j, k int, field, value string) bool {
	var apply func(*QuestionFields)
	switch field {
	case FieldPrompt:
		apply = func(q *QuestionFields) { q.Prompt = value }
	case FieldPoints:
		n, ok := parseCount(value)
		if !ok {
			return false
		}
		apply = func(q *QuestionFields) { q.Points = n }
	case FieldQuestionType:
		qt := domain.QuestionType(value)
		if !qt.Valid() {
			return false
		}
		apply = func(q *QuestionFields) { q.QuestionType = qt }
	case FieldCorrectAnswer:
		on, ok := parseBool(value)
		if !ok {
			return false
		}
		apply = func(q *QuestionFields) { q.CorrectAnswer = on }
	default:
		return false
	}
	return t.UpdateQuestion(i, j, k, apply)
}

// parseDuration accepts a non-negative integer; an empty input clears the duration.
func parseDuration(raw string) (int64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, true
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func parseCount(raw string) (int, bool) {
	n, ok := parseDuration(raw)
	if !ok || n > int64(^uint32(0)>>1) {
		return 0, false
	}
	return int(n), true
}

func parseBool(raw string) (bool, bool) {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, false
	}
	return v, true
}
