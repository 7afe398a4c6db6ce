package app

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"curriculum-editor/internal/curriculum"
	"curriculum-editor/internal/domain"
	"curriculum-editor/internal/payload"
	"curriculum-editor/internal/validation"
)

// Save validates the tree locally, sends it to the course repository and maps a rejection
// back onto the tree. User input is never discarded: on any failure the tree stays as it was.
func (s *EditorService) Save(ctx context.Context, sessionID string) (View, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return View{}, domain.ErrSessionNotFound
	}

	session.mu.Lock()
	if errs := validation.Local(session.tree); errs != nil {
		session.errors = errs
		session.broadcastLocked(Update{Kind: UpdateFieldErrors, Fields: errs})
		session.notifyLocked(domain.LevelError, "Fix the highlighted fields before saving", errs.Messages()...)
		v := session.viewLocked()
		session.mu.Unlock()
		return v, fmt.Errorf("%w: %v", domain.ErrInvalidInput, errs)
	}
	rec := payload.Normalize(session.tree, s.money)
	session.mu.Unlock()

	saved, err := s.courses.SaveCourse(ctx, rec)

	session.mu.Lock()
	defer session.mu.Unlock()

	var remote *payload.RemoteValidationError
	if errors.As(err, &remote) {
		res := validation.MapRemote(session.tree, remote.Fields)
		session.errors = res.Fields
		session.collapse.Expand(res.Expand...)
		session.broadcastLocked(Update{Kind: UpdateFieldErrors, Fields: res.Fields})
		if res.Notification != nil {
			session.broadcastLocked(Update{Kind: UpdateNotification, Notification: res.Notification})
		}
		return session.publishLocked(), err
	}
	if err != nil {
		s.log.Error("save course", err, map[string]interface{}{"course": rec.ID})
		session.notifyLocked(domain.LevelError, "The course could not be saved", err.Error())
		return session.viewLocked(), fmt.Errorf("save course: %w", err)
	}

	// edits made while the request was in flight keep the tree dirty
	unchanged := reflect.DeepEqual(payload.Normalize(session.tree, s.money), rec)
	if session.tree.Course().ID == "" && saved.ID != "" {
		session.tree.UpdateCourse(func(c *curriculum.CourseFields) { c.ID = saved.ID })
		session.collapse.Rescope(saved.ID)
	}
	if unchanged {
		session.tree.MarkClean()
	}
	session.errors = nil
	s.persistCollapse(ctx, session)
	session.notifyLocked(domain.LevelInfo, "Course saved")
	s.log.Info("course saved", map[string]interface{}{"course": saved.ID, "session": session.id})
	return session.publishLocked(), nil
}
