package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"curriculum-editor/internal/domain"
	"curriculum-editor/internal/payload"
	"curriculum-editor/internal/validation"
)

// CourseRepository keeps courses in memory and validates saves the way the admin API does.
type CourseRepository struct {
	mu      sync.RWMutex
	courses map[string]payload.CourseRecord
	newID   func() string
}

func NewCourseRepository(seed ...payload.CourseRecord) *CourseRepository {
	r := &CourseRepository{courses: make(map[string]payload.CourseRecord), newID: uuid.NewString}
	for _, c := range seed {
		r.courses[c.ID] = c
	}
	return r
}

func (r *CourseRepository) GetCourse(_ context.Context, courseID string) (payload.CourseRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.courses[courseID]
	if !ok {
		return payload.CourseRecord{}, domain.ErrCourseNotFound
	}
	return c, nil
}

// SaveCourse stores the course, assigning an id to new ones. Invalid records are rejected
// with a *payload.RemoteValidationError.
func (r *CourseRepository) SaveCourse(_ context.Context, course payload.CourseRecord) (payload.CourseRecord, error) {
	if err := validation.RecordError(course); err != nil {
		return payload.CourseRecord{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if course.ID == "" {
		course.ID = r.newID()
	} else if _, ok := r.courses[course.ID]; !ok {
		return payload.CourseRecord{}, domain.ErrCourseNotFound
	}
	r.courses[course.ID] = course
	return course, nil
}
