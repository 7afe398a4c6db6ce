package app

import (
	"context"

	"curriculum-editor/internal/curriculum"
	"curriculum-editor/internal/domain"
)

// SetField writes one UI field. Writes to missing entities or with invalid values are absorbed.
func (s *EditorService) SetField(_ context.Context, sessionID string, p curriculum.Path, field, value string) (View, error) {
	return s.mutate(sessionID, func(sess *Session) bool {
		if !sess.tree.SetField(p, field, value) {
			return false
		}
		sess.clearFieldError(p, field)
		return true
	})
}

// Add appends a blank child under parent: a module under the course, an activity under a module,
// a question of type qt under an activity, or an option under a question.
func (s *EditorService) Add(_ context.Context, sessionID string, parent curriculum.Path, qt domain.QuestionType) (View, error) {
	return s.mutate(sessionID, func(sess *Session) bool {
		t := sess.tree
		switch parent.Level() {
		case curriculum.LevelCourse:
			t.AddModule()
			return true
		case curriculum.LevelModule:
			_, ok := t.AddActivity(parent[0])
			return ok
		case curriculum.LevelActivity:
			_, ok := t.AddQuestion(parent[0], parent[1], qt)
			return ok
		case curriculum.LevelQuestion:
			_, ok := t.AddOption(parent[0], parent[1], parent[2])
			return ok
		}
		return false
	})
}

// Remove deletes the entity at p with its descendants.
func (s *EditorService) Remove(_ context.Context, sessionID string, p curriculum.Path) (View, error) {
	return s.mutate(sessionID, func(sess *Session) bool { return sess.tree.Remove(p) })
}

// Move reorders the entity at p to index to within its parent list.
func (s *EditorService) Move(_ context.Context, sessionID string, p curriculum.Path, to int) (View, error) {
	return s.mutate(sessionID, func(sess *Session) bool { return sess.tree.Move(p, to) })
}

// BeginDrag records the drag source for its level.
func (s *EditorService) BeginDrag(_ context.Context, sessionID string, p curriculum.Path) (View, error) {
	return s.mutate(sessionID, func(sess *Session) bool {
		sess.tree.BeginDrag(p)
		return false
	})
}

// Drop completes a drag onto target.
func (s *EditorService) Drop(_ context.Context, sessionID string, target curriculum.Path) (View, error) {
	return s.mutate(sessionID, func(sess *Session) bool { return sess.tree.Drop(target) })
}

// CancelDrag abandons a drag in progress.
func (s *EditorService) CancelDrag(_ context.Context, sessionID string) (View, error) {
	return s.mutate(sessionID, func(sess *Session) bool {
		sess.tree.CancelDrag()
		return false
	})
}

// SetCorrect marks the option at p as the correct answer of its question.
func (s *EditorService) SetCorrect(_ context.Context, sessionID string, p curriculum.Path) (View, error) {
	return s.mutate(sessionID, func(sess *Session) bool { return sess.tree.SetOptionCorrect(p) })
}

// Toggle flips the collapse state of the module, activity or question at p.
func (s *EditorService) Toggle(_ context.Context, sessionID string, p curriculum.Path) (View, error) {
	return s.mutate(sessionID, func(sess *Session) bool {
		if p.Level() < curriculum.LevelModule || p.Level() > curriculum.LevelQuestion || !sess.tree.Exists(p) {
			return false
		}
		sess.collapse.Toggle(p)
		return true
	})
}

// CollapseAll collapses every module, activity and question currently in the tree.
func (s *EditorService) CollapseAll(_ context.Context, sessionID string) (View, error) {
	return s.mutate(sessionID, func(sess *Session) bool {
		sess.collapse.CollapseAll(collapsible(sess.tree))
		return true
	})
}

// ExpandAll expands every module, activity and question currently in the tree.
func (s *EditorService) ExpandAll(_ context.Context, sessionID string) (View, error) {
	return s.mutate(sessionID, func(sess *Session) bool {
		sess.collapse.ExpandAll(collapsible(sess.tree))
		return true
	})
}

func collapsible(t *curriculum.Tree) []curriculum.Path {
	var out []curriculum.Path
	for l := curriculum.LevelModule; l <= curriculum.LevelQuestion; l++ {
		out = append(out, t.Paths(l)...)
	}
	return out
}
