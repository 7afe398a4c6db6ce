package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/pkg/errors"

	"curriculum-editor/internal/domain"
	"curriculum-editor/internal/payload"
	"curriculum-editor/internal/validation"
)

// CourseStore keeps course records as JSONB documents.
type CourseStore struct {
	pool *pgxpool.Pool
}

func NewCourseStore(pool *pgxpool.Pool) *CourseStore {
	return &CourseStore{pool: pool}
}

func (s *CourseStore) GetCourse(ctx context.Context, courseID string) (payload.CourseRecord, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM courses WHERE id=$1`, courseID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return payload.CourseRecord{}, domain.ErrCourseNotFound
	}
	if err != nil {
		return payload.CourseRecord{}, errors.Wrap(err, "load course")
	}
	var course payload.CourseRecord
	if err := json.Unmarshal(raw, &course); err != nil {
		return payload.CourseRecord{}, errors.Wrap(err, "unmarshal course")
	}
	course.ID = courseID
	return course, nil
}

// SaveCourse validates the record the way the backend would, then inserts (no id) or updates it.
func (s *CourseStore) SaveCourse(ctx context.Context, course payload.CourseRecord) (payload.CourseRecord, error) {
	if verr := validation.RecordError(course); verr != nil {
		return payload.CourseRecord{}, verr
	}

	if course.ID == "" {
		course.ID = uuid.NewString()
		raw, err := json.Marshal(course)
		if err != nil {
			return payload.CourseRecord{}, errors.Wrap(err, "marshal course")
		}
		if _, err := s.pool.Exec(ctx, `INSERT INTO courses (id, data) VALUES ($1, $2)`, course.ID, raw); err != nil {
			return payload.CourseRecord{}, errors.Wrap(err, "insert course")
		}
		return course, nil
	}

	raw, err := json.Marshal(course)
	if err != nil {
		return payload.CourseRecord{}, errors.Wrap(err, "marshal course")
	}
	tag, err := s.pool.Exec(ctx, `UPDATE courses SET data=$2, updated_at=now() WHERE id=$1`, course.ID, raw)
	if err != nil {
		return payload.CourseRecord{}, errors.Wrap(err, "update course")
	}
	if tag.RowsAffected() == 0 {
		return payload.CourseRecord{}, domain.ErrCourseNotFound
	}
	return course, nil
}
