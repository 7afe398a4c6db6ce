package domain

import "errors"

var (
	// ErrCourseNotFound is returned when a course record does not exist in the backing store.
	ErrCourseNotFound = errors.New("course not found")
	// ErrBankEntryNotFound indicates a module or activity id is not present in the catalog.
	ErrBankEntryNotFound = errors.New("bank entry not found")
	// ErrSessionNotFound is returned when an editor session has not been opened.
	ErrSessionNotFound = errors.New("editor session not found")
	// ErrVideoUnsupported is returned for URLs no duration provider recognizes.
	ErrVideoUnsupported = errors.New("unsupported video url")
	// ErrVideoUnavailable covers private, removed or unembeddable videos.
	ErrVideoUnavailable = errors.New("video unavailable")
	// ErrStaleResult marks an async result whose target was removed or changed meanwhile.
	ErrStaleResult = errors.New("target changed before result arrived")
	// ErrInvalidInput indicates local validation blocked an operation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotConfigured is returned when an optional collaborator (uploads, video lookup) is absent.
	ErrNotConfigured = errors.New("not configured")
)
