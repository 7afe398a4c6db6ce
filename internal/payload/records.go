package payload

// CourseRecord is the course as the backend stores and returns it.
type CourseRecord struct {
	ID               string         `json:"id,omitempty"`
	Name             string         `json:"name" validate:"required"`
	Title            string         `json:"title" validate:"required"`
	Slug             string         `json:"slug"`
	Duration         int64          `json:"duration" validate:"min=0"`
	DurationUnit     string         `json:"type_duration" validate:"oneof=seg min hrs"`
	Price            string         `json:"price" validate:"omitempty,numeric"`
	PromotionalPrice string         `json:"promotional_price" validate:"omitempty,numeric"`
	Installments     int            `json:"installments" validate:"min=1,max=12"`
	Cover            *CoverRecord   `json:"cover,omitempty"`
	Modules          []ModuleRecord `json:"modules" validate:"dive"`
}

type CoverRecord struct {
	URL    string `json:"url" validate:"omitempty,url"`
	FileID string `json:"file_id"`
	Title  string `json:"title"`
}

// ModuleRecord is a course module. ID is only set on catalog (bank) entries.
type ModuleRecord struct {
	ID           string           `json:"id,omitempty"`
	BankRefID    string           `json:"bank_ref_id,omitempty"`
	Title        string           `json:"title" validate:"required"`
	Name         string           `json:"name"`
	DurationUnit string           `json:"type_duration" validate:"oneof=seg min hrs"`
	Duration     int64            `json:"duration" validate:"min=0"`
	Description  string           `json:"description"`
	Active       bool             `json:"active"`
	Activities   []ActivityRecord `json:"activities" validate:"dive"`
}

// ActivityRecord is an activity. Content is overloaded: its meaning depends on Type.
type ActivityRecord struct {
	ID            string               `json:"id,omitempty"`
	BankRefID     string               `json:"bank_ref_id,omitempty"`
	Title         string               `json:"title" validate:"required"`
	Name          string               `json:"name"`
	DurationUnit  string               `json:"type_duration" validate:"oneof=seg min hrs"`
	Type          string               `json:"type_activities" validate:"oneof=video reading quiz file task"`
	Duration      int64                `json:"duration" validate:"min=0"`
	Content       string               `json:"content"`
	Description   string               `json:"description"`
	Active        bool                 `json:"active"`
	QuizQuestions []QuizQuestionRecord `json:"quiz_questions,omitempty" validate:"dive"`
	QuizConfig    *QuizConfigRecord    `json:"quiz_config,omitempty"`
}

type QuizQuestionRecord struct {
	ID            string             `json:"id"`
	QuestionType  string             `json:"question_type" validate:"oneof=multiple_choice true_false"`
	Prompt        string             `json:"prompt" validate:"required"`
	Points        int                `json:"points" validate:"min=0"`
	Options       []QuizOptionRecord `json:"options,omitempty" validate:"dive"`
	CorrectAnswer *bool              `json:"correct_answer,omitempty"`
}

type QuizOptionRecord struct {
	ID        string `json:"id"`
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type QuizConfigRecord struct {
	PassingScore     int  `json:"passing_score"`
	MaxAttempts      int  `json:"max_attempts"`
	TimeLimit        int  `json:"time_limit"`
	ShuffleQuestions bool `json:"shuffle_questions"`
}
