package payload

import (
	"curriculum-editor/internal/curriculum"
	"curriculum-editor/internal/domain"
)

// Mapping pairs a backend field with its UI counterpart at one level of the tree.
// Types restricts an activity mapping to some activity types; empty means all.
// Alias entries only translate backend names to UI names; the primary entry is used the other way.
type Mapping struct {
	Level   curriculum.Level
	Backend string
	UI      string
	Types   []domain.ActivityType
	Alias   bool
}

// Backend names of the nested lists.
const (
	ListModules       = "modules"
	ListActivities    = "activities"
	ListQuizQuestions = "quiz_questions"
	ListOptions       = "options"
)

// Fields is the single remap table shared by Normalize, Denormalize and the validation error mapper.
var Fields = []Mapping{
	{Level: curriculum.LevelCourse, Backend: "name", UI: curriculum.FieldName},
	{Level: curriculum.LevelCourse, Backend: "title", UI: curriculum.FieldTitle},
	{Level: curriculum.LevelCourse, Backend: "slug", UI: curriculum.FieldSlug},
	{Level: curriculum.LevelCourse, Backend: "duration", UI: curriculum.FieldDuration},
	{Level: curriculum.LevelCourse, Backend: "type_duration", UI: curriculum.FieldDurationUnit},
	{Level: curriculum.LevelCourse, Backend: "price", UI: curriculum.FieldPrice},
	{Level: curriculum.LevelCourse, Backend: "promotional_price", UI: curriculum.FieldPromotionalPrice},
	{Level: curriculum.LevelCourse, Backend: "installments", UI: curriculum.FieldInstallments},
	{Level: curriculum.LevelCourse, Backend: "cover", UI: curriculum.FieldCoverURL},

	{Level: curriculum.LevelModule, Backend: "title", UI: curriculum.FieldTitle},
	{Level: curriculum.LevelModule, Backend: "name", UI: curriculum.FieldTitle, Alias: true},
	{Level: curriculum.LevelModule, Backend: "duration", UI: curriculum.FieldDuration},
	{Level: curriculum.LevelModule, Backend: "type_duration", UI: curriculum.FieldDurationUnit},
	{Level: curriculum.LevelModule, Backend: "description", UI: curriculum.FieldDescription},
	{Level: curriculum.LevelModule, Backend: "active", UI: curriculum.FieldActive},

	{Level: curriculum.LevelActivity, Backend: "title", UI: curriculum.FieldTitle},
	{Level: curriculum.LevelActivity, Backend: "name", UI: curriculum.FieldTitle, Alias: true},
	{Level: curriculum.LevelActivity, Backend: "type_activities", UI: curriculum.FieldType},
	{Level: curriculum.LevelActivity, Backend: "type_duration", UI: curriculum.FieldDurationUnit},
	{Level: curriculum.LevelActivity, Backend: "duration", UI: curriculum.FieldDuration},
	{Level: curriculum.LevelActivity, Backend: "content", UI: curriculum.FieldVideoURL, Types: []domain.ActivityType{domain.ActivityVideo}},
	{Level: curriculum.LevelActivity, Backend: "content", UI: curriculum.FieldFileURL, Types: []domain.ActivityType{domain.ActivityFile}},
	{Level: curriculum.LevelActivity, Backend: "content", UI: curriculum.FieldDescription},
	{Level: curriculum.LevelActivity, Backend: "description", UI: curriculum.FieldDescription},
	{Level: curriculum.LevelActivity, Backend: "active", UI: curriculum.FieldActive},
	{Level: curriculum.LevelActivity, Backend: "quiz_config", UI: "quizConfig"},
	{Level: curriculum.LevelActivity, Backend: "quiz_config.passing_score", UI: "quizConfig." + curriculum.FieldPassingScore},
	{Level: curriculum.LevelActivity, Backend: "quiz_config.max_attempts", UI: "quizConfig." + curriculum.FieldMaxAttempts},
	{Level: curriculum.LevelActivity, Backend: "quiz_config.time_limit", UI: "quizConfig." + curriculum.FieldTimeLimit},
	{Level: curriculum.LevelActivity, Backend: "quiz_config.shuffle_questions", UI: "quizConfig." + curriculum.FieldShuffleQuestions},

	{Level: curriculum.LevelQuestion, Backend: "question_type", UI: curriculum.FieldQuestionType},
	{Level: curriculum.LevelQuestion, Backend: "prompt", UI: curriculum.FieldPrompt},
	{Level: curriculum.LevelQuestion, Backend: "points", UI: curriculum.FieldPoints},
	{Level: curriculum.LevelQuestion, Backend: "correct_answer", UI: curriculum.FieldCorrectAnswer},

	{Level: curriculum.LevelOption, Backend: "text", UI: curriculum.FieldText},
	{Level: curriculum.LevelOption, Backend: "is_correct", UI: curriculum.FieldIsCorrect},
}

// listNames maps the backend list name that introduces each level.
var listNames = map[curriculum.Level]string{
	curriculum.LevelModule:   ListModules,
	curriculum.LevelActivity: ListActivities,
	curriculum.LevelQuestion: ListQuizQuestions,
	curriculum.LevelOption:   ListOptions,
}

// ListName returns the backend name of the list holding entities of level l.
func ListName(l curriculum.Level) string { return listNames[l] }

func (m Mapping) applies(level curriculum.Level, typ domain.ActivityType) bool {
	if m.Level != level {
		return false
	}
	if len(m.Types) == 0 {
		return true
	}
	for _, t := range m.Types {
		if t == typ {
			return true
		}
	}
	return false
}

// UIField translates a backend field name. The activity type only matters for overloaded fields.
func UIField(level curriculum.Level, backend string, typ domain.ActivityType) (string, bool) {
	for _, m := range Fields {
		if m.Backend == backend && m.applies(level, typ) {
			return m.UI, true
		}
	}
	return "", false
}

// BackendField translates a UI field name back to the backend, ignoring aliases.
func BackendField(level curriculum.Level, ui string, typ domain.ActivityType) (string, bool) {
	for _, m := range Fields {
		if m.Alias || m.UI != ui || !m.applies(level, typ) {
			continue
		}
		// description feeds content only for types without a dedicated content field
		if m.Backend == "content" && ui == curriculum.FieldDescription {
			continue
		}
		return m.Backend, true
	}
	return "", false
}

// ContentField names the UI field that carries the overloaded backend content for an activity type.
func ContentField(typ domain.ActivityType) string {
	ui, _ := UIField(curriculum.LevelActivity, "content", typ)
	return ui
}

// Visible lists the UI fields an activity of the given type shows and submits.
func Visible(typ domain.ActivityType) []string {
	common := []string{curriculum.FieldTitle, curriculum.FieldType, curriculum.FieldDuration, curriculum.FieldDurationUnit, curriculum.FieldActive}
	switch typ {
	case domain.ActivityVideo:
		return append(common, curriculum.FieldVideoSource, curriculum.FieldVideoURL, curriculum.FieldDescription)
	case domain.ActivityFile:
		return append(common, curriculum.FieldFileURL, curriculum.FieldDescription)
	case domain.ActivityQuiz:
		return append(common, curriculum.FieldDescription, "quizConfig", "questions")
	case domain.ActivityReading, domain.ActivityTask:
		return append(common, curriculum.FieldDescription)
	}
	return common
}
