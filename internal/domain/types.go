package domain

import "strings"

// ActivityType discriminates the payload an activity carries.
type ActivityType string

const (
	ActivityVideo   ActivityType = "video"
	ActivityReading ActivityType = "reading"
	ActivityQuiz    ActivityType = "quiz"
	ActivityFile    ActivityType = "file"
	ActivityTask    ActivityType = "task"
)

// ActivityTypes is the canonical list of activity types.
var ActivityTypes = []ActivityType{ActivityVideo, ActivityReading, ActivityQuiz, ActivityFile, ActivityTask}

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityVideo, ActivityReading, ActivityQuiz, ActivityFile, ActivityTask:
		return true
	}
	return false
}

// QuestionType discriminates quiz questions.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
)

func (t QuestionType) Valid() bool {
	return t == QuestionMultipleChoice || t == QuestionTrueFalse
}

// VideoSource names the host of a video activity.
type VideoSource string

const (
	VideoYouTube VideoSource = "youtube"
	VideoVimeo   VideoSource = "vimeo"
)

// Valid reports whether s is a supported video host.
func (s VideoSource) Valid() bool {
	return s == VideoYouTube || s == VideoVimeo
}

// InferVideoSource guesses the host from the URL, defaulting to YouTube.
func InferVideoSource(url string) VideoSource {
	s := strings.ToLower(url)
	switch {
	case strings.Contains(s, "vimeo"):
		return VideoVimeo
	case strings.Contains(s, "youtu"):
		return VideoYouTube
	}
	return VideoYouTube
}

const (
	// MinOptions and MaxOptions bound the options of a multiple-choice question.
	MinOptions = 2
	MaxOptions = 6

	// MinInstallments and MaxInstallments bound the installment count of a course price.
	MinInstallments = 1
	MaxInstallments = 12
)
