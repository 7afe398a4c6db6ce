package curriculum

import "curriculum-editor/internal/domain"

// NodeID identifies an entity in the tree registry independently of its position.
type NodeID string

// Cover is the course cover image picked from the media library.
type Cover struct {
	URL    string `json:"url"`
	FileID string `json:"fileId"`
	Title  string `json:"title"`
}

// CourseFields holds the editable course attributes. Duration is derived from the curriculum.
type CourseFields struct {
	ID               string              `json:"id"`
	Name             string              `json:"name" validate:"notblank"`
	Title            string              `json:"title" validate:"notblank"`
	Slug             string              `json:"slug"`
	Duration         int64               `json:"duration"`
	DurationUnit     domain.DurationUnit `json:"durationUnit"`
	Price            string              `json:"price" validate:"omitempty,money"`
	PromotionalPrice string              `json:"promotionalPrice" validate:"omitempty,money"`
	Installments     int                 `json:"installments" validate:"min=1,max=12"`
	Cover            Cover               `json:"cover"`
}

type ModuleFields struct {
	BankRefID    string              `json:"bankRefId,omitempty"`
	Title        string              `json:"title" validate:"notblank"`
	Name         string              `json:"name"`
	Duration     int64               `json:"duration" validate:"min=0"`
	DurationUnit domain.DurationUnit `json:"durationUnit" validate:"oneof=seg min hrs"`
	Description  string              `json:"description"`
	Active       bool                `json:"active"`
}

// QuizConfig carries the quiz-wide settings of a quiz activity.
type QuizConfig struct {
	PassingScore     int  `json:"passingScore" validate:"min=0,max=100"`
	MaxAttempts      int  `json:"maxAttempts"`
	TimeLimit        int  `json:"timeLimit"`
	ShuffleQuestions bool `json:"shuffleQuestions"`
}

// ActivityFields keeps the payload of every activity type so switching types back and forth is lossless.
type ActivityFields struct {
	BankRefID    string              `json:"bankRefId,omitempty"`
	Title        string              `json:"title" validate:"notblank"`
	Name         string              `json:"name"`
	Type         domain.ActivityType `json:"type" validate:"oneof=video reading quiz file task"`
	Description  string              `json:"description"`
	Duration     int64               `json:"duration" validate:"min=0"`
	DurationUnit domain.DurationUnit `json:"durationUnit" validate:"oneof=seg min hrs"`
	Active       bool                `json:"active"`
	VideoSource  domain.VideoSource  `json:"videoSource"`
	VideoURL     string              `json:"videoUrl"`
	FileURL      string              `json:"fileUrl"`
	Quiz         QuizConfig          `json:"quizConfig"`
}

type QuestionFields struct {
	ID            string              `json:"id"`
	QuestionType  domain.QuestionType `json:"questionType"`
	Prompt        string              `json:"prompt" validate:"notblank"`
	Points        int                 `json:"points" validate:"min=0"`
	CorrectAnswer bool                `json:"correctAnswer"`
}

type OptionFields struct {
	ID   string `json:"id"`
	Text string `json:"text" validate:"notblank"`
}

// Option is a snapshot of a quiz option.
type Option struct {
	Node NodeID `json:"node,omitempty"`
	OptionFields
	IsCorrect bool `json:"isCorrect"`
}

// Question is a snapshot of a quiz question and its options.
type Question struct {
	Node NodeID `json:"node,omitempty"`
	QuestionFields
	Options []Option `json:"options"`
}

// Activity is a snapshot of an activity and, for quizzes, its questions.
type Activity struct {
	Node NodeID `json:"node,omitempty"`
	ActivityFields
	Questions []Question `json:"questions"`
}

// Module is a snapshot of a module. TotalSeconds is filled from the aggregator.
type Module struct {
	Node NodeID `json:"node,omitempty"`
	ModuleFields
	TotalSeconds int64      `json:"totalSeconds"`
	Activities   []Activity `json:"activities"`
}

// Course is a full snapshot of the tree in UI shape.
type Course struct {
	CourseFields
	TotalSeconds int64    `json:"totalSeconds"`
	Modules      []Module `json:"modules"`
}

// Content is the type-specific payload of an activity. Exactly one variant exists per activity type.
type Content interface {
	ActivityType() domain.ActivityType
	isContent()
}

type VideoContent struct {
	Source domain.VideoSource
	URL    string
}

type ReadingContent struct {
	Body string
}

type QuizContent struct {
	Config    QuizConfig
	Questions []Question
}

type FileContent struct {
	URL string
}

type TaskContent struct {
	Instructions string
}

func (VideoContent) ActivityType() domain.ActivityType { return domain.ActivityVideo }
func (ReadingContent) ActivityType() domain.ActivityType { return domain.ActivityReading }
func (QuizContent) ActivityType() domain.ActivityType { return domain.ActivityQuiz }
func (FileContent) ActivityType() domain.ActivityType { return domain.ActivityFile }
func (TaskContent) ActivityType() domain.ActivityType { return domain.ActivityTask }

func (VideoContent) isContent() {}
func (ReadingContent) isContent() {}
func (QuizContent) isContent() {}
func (FileContent) isContent() {}
func (TaskContent) isContent() {}

// Content returns the variant selected by the activity type. Unknown types read as reading material.
func (a Activity) Content() Content {
	switch a.Type {
	case domain.ActivityVideo:
		return VideoContent{Source: a.VideoSource, URL: a.VideoURL}
	case domain.ActivityQuiz:
		return QuizContent{Config: a.Quiz, Questions: a.Questions}
	case domain.ActivityFile:
		return FileContent{URL: a.FileURL}
	case domain.ActivityTask:
		return TaskContent{Instructions: a.Description}
	default:
		return ReadingContent{Body: a.Description}
	}
}

// CorrectOption returns the index of the correct option, or -1.
func (q Question) CorrectOption() int {
	for i, opt := range q.Options {
		if opt.IsCorrect {
			return i
		}
	}
	return -1
}
