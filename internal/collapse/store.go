// Package collapse keeps the expand/collapse state of the curriculum editor for one session.
package collapse

import (
	"sort"
	"sync"

	"curriculum-editor/internal/curriculum"
)

// NewCourseScope is the scope used before a course has been saved and received an id.
const NewCourseScope = "new"

// Scope returns the scope for a course id, falling back to NewCourseScope.
func Scope(courseID string) string {
	if courseID == "" {
		return NewCourseScope
	}
	return courseID
}

// Store maps structural keys ("1", "1:0", "1:0:2") to a collapsed flag within one scope.
// Keys that no longer address a live entity are tolerated everywhere.
type Store struct {
	mu     sync.RWMutex
	scope  string
	seeded bool
	state  map[string]bool
}

func NewStore(scope string) *Store {
	return &Store{scope: Scope(scope), state: make(map[string]bool)}
}

// Scope returns the scope the store belongs to.
func (s *Store) Scope() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scope
}

// Rescope moves the state to another scope, used once a new course gets its id.
func (s *Store) Rescope(scope string) {
	s.mu.Lock()
	s.scope = Scope(scope)
	s.mu.Unlock()
}

// IsCollapsed reports the state of p; unknown keys are expanded.
func (s *Store) IsCollapsed(p curriculum.Path) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state[p.Key()]
}

// Set stores the flag for p. Setting the same value twice has no further effect.
func (s *Store) Set(p curriculum.Path, collapsed bool) {
	s.mu.Lock()
	s.state[p.Key()] = collapsed
	s.mu.Unlock()
}

// Toggle flips the flag for p and returns the new value.
func (s *Store) Toggle(p curriculum.Path) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := p.Key()
	s.state[key] = !s.state[key]
	return s.state[key]
}

// Seed collapses every given path the first time it is called on a fresh store.
// Entities added later in the session start expanded.
func (s *Store) Seed(paths []curriculum.Path) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seeded {
		return false
	}
	s.seeded = true
	for _, p := range paths {
		s.state[p.Key()] = true
	}
	return true
}

// Seeded reports whether the default state was already applied.
func (s *Store) Seeded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seeded
}

// CollapseAll collapses the given live paths.
func (s *Store) CollapseAll(paths []curriculum.Path) { s.setAll(paths, true) }

// ExpandAll expands the given live paths.
func (s *Store) ExpandAll(paths []curriculum.Path) { s.setAll(paths, false) }

// Expand forces the given paths open, for example where validation errors live.
func (s *Store) Expand(paths ...curriculum.Path) { s.setAll(paths, false) }

func (s *Store) setAll(paths []curriculum.Path, collapsed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range paths {
		s.state[p.Key()] = collapsed
	}
}

// Remove drops the state of p and its descendants and shifts later siblings down by one.
func (s *Store) Remove(p curriculum.Path) {
	if len(p) == 0 {
		return
	}
	s.remap(func(key curriculum.Path) (curriculum.Path, bool) {
		if !key.HasPrefix(p.Parent()) || len(key) < len(p) {
			return key, true
		}
		depth := len(p) - 1
		switch idx := key[depth]; {
		case idx == p.Last():
			return nil, false
		case idx > p.Last():
			moved := key.Clone()
			moved[depth]--
			return moved, true
		}
		return key, true
	})
}

// Move follows a reorder of the sibling at p to index to, carrying descendants along.
func (s *Store) Move(p curriculum.Path, to int) {
	if len(p) == 0 {
		return
	}
	from := p.Last()
	depth := len(p) - 1
	s.remap(func(key curriculum.Path) (curriculum.Path, bool) {
		if !key.HasPrefix(p.Parent()) || len(key) < len(p) {
			return key, true
		}
		idx := key[depth]
		next := idx
		switch {
		case idx == from:
			next = to
		case from < to && idx > from && idx <= to:
			next = idx - 1
		case to < from && idx >= to && idx < from:
			next = idx + 1
		}
		if next == idx {
			return key, true
		}
		moved := key.Clone()
		moved[depth] = next
		return moved, true
	})
}

// Insert opens a gap for a new sibling at p; nothing moves when p is appended at the end.
func (s *Store) Insert(p curriculum.Path) {
	if len(p) == 0 {
		return
	}
	depth := len(p) - 1
	s.remap(func(key curriculum.Path) (curriculum.Path, bool) {
		if !key.HasPrefix(p.Parent()) || len(key) < len(p) || key[depth] < p.Last() {
			return key, true
		}
		moved := key.Clone()
		moved[depth]++
		return moved, true
	})
}

func (s *Store) remap(fn func(curriculum.Path) (curriculum.Path, bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make(map[string]bool, len(s.state))
	for key, v := range s.state {
		p, ok := curriculum.ParseKey(key)
		if !ok {
			// Keys we cannot parse are kept as they are.
			next[key] = v
			continue
		}
		if np, keep := fn(p); keep {
			next[np.Key()] = v
		}
	}
	s.state = next
}

// Snapshot copies the state, for persistence.
func (s *Store) Snapshot() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bool, len(s.state))
	for k, v := range s.state {
		out[k] = v
	}
	return out
}

// Restore replaces the state with a persisted snapshot and marks the store seeded.
func (s *Store) Restore(state map[string]bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = make(map[string]bool, len(state))
	for k, v := range state {
		s.state[k] = v
	}
	s.seeded = true
}

// Collapsed lists the collapsed keys in sorted order.
func (s *Store) Collapsed() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k, v := range s.state {
		if v {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
