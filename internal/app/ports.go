package app

import (
	"context"
	"io"

	"curriculum-editor/internal/payload"
)

// SessionRepository abstracts where open editor sessions live (in-memory, Redis-marked, etc).
type SessionRepository interface {
	Get(sessionID string) (*Session, bool)
	Put(session *Session)
	Delete(sessionID string)
}

// CourseRepository loads and stores courses in backend shape.
// SaveCourse returns *payload.RemoteValidationError when the course is rejected.
type CourseRepository interface {
	GetCourse(ctx context.Context, courseID string) (payload.CourseRecord, error)
	SaveCourse(ctx context.Context, course payload.CourseRecord) (payload.CourseRecord, error)
}

// BankRepository is the read-only catalog of reusable modules and activities.
type BankRepository interface {
	ListModules(ctx context.Context) ([]payload.ModuleRecord, error)
	GetModule(ctx context.Context, id string) (payload.ModuleRecord, error)
	ListActivities(ctx context.Context) ([]payload.ActivityRecord, error)
	GetActivity(ctx context.Context, id string) (payload.ActivityRecord, error)
}

// CollapseRepository persists collapse state per scope between sessions.
type CollapseRepository interface {
	LoadCollapse(ctx context.Context, scope string) (map[string]bool, bool, error)
	SaveCollapse(ctx context.Context, scope string, state map[string]bool) error
}

// DurationLookup resolves the length of a hosted video in seconds.
type DurationLookup interface {
	VideoDuration(ctx context.Context, url string) (int64, error)
}

// Uploaded is what an upload service hands back; it has the shape of a media picker result.
type Uploaded struct {
	URL    string `json:"url"`
	FileID string `json:"fileId"`
	Title  string `json:"title"`
}

// Uploader stores a binary and returns where it can be fetched.
type Uploader interface {
	Upload(ctx context.Context, name string, body io.Reader) (Uploaded, error)
}
