package memory

import (
	"context"
	"sync"
)

// CollapseRepository keeps collapse state per scope for the lifetime of the process.
type CollapseRepository struct {
	mu     sync.RWMutex
	states map[string]map[string]bool
}

func NewCollapseRepository() *CollapseRepository {
	return &CollapseRepository{states: make(map[string]map[string]bool)}
}

func (r *CollapseRepository) LoadCollapse(_ context.Context, scope string) (map[string]bool, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	state, ok := r.states[scope]
	if !ok {
		return nil, false, nil
	}
	return copyState(state), true, nil
}

func (r *CollapseRepository) SaveCollapse(_ context.Context, scope string, state map[string]bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[scope] = copyState(state)
	return nil
}

func copyState(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
