package curriculum

// Reorder moves list[from] to position to, shifting the elements in between by one.
// It is a no-op (false) when from == to or either index is out of range.
func Reorder[T any](list []T, from, to int) bool {
	n := len(list)
	if from == to || from < 0 || to < 0 || from >= n || to >= n {
		return false
	}
	item := list[from]
	if from < to {
		copy(list[from:to], list[from+1:to+1])
	} else {
		copy(list[to+1:from+1], list[to:from])
	}
	list[to] = item
	return true
}

// Move repositions the entity at p to index to within the same parent list.
func (t *Tree) Move(p Path, to int) bool {
	if len(p) == 0 {
		return false
	}
	list, ok := t.children(p.Parent())
	if !ok || !Reorder(*list, p.Last(), to) {
		return false
	}
	var rev *uint64
	if parent, ok := t.NodeAt(p.Parent()); ok {
		rev = t.revisionPtr(parent)
	}
	t.changed(rev, p.Level() == LevelModule)
	t.emit(Event{Kind: EventMoved, Path: p.Clone(), To: to})
	return true
}

func (t *Tree) revisionPtr(id NodeID) *uint64 {
	if m, ok := t.moduleByID[id]; ok {
		return &m.rev
	}
	if a, ok := t.actByID[id]; ok {
		return &a.rev
	}
	if q, ok := t.questionBy[id]; ok {
		return &q.rev
	}
	return nil
}

// BeginDrag records p as the drag source for its level, replacing any earlier source.
func (t *Tree) BeginDrag(p Path) bool {
	if p.Level() < LevelModule || p.Level() > LevelOption || !t.Exists(p) {
		return false
	}
	t.CancelDrag()
	t.drag[p.Level()] = p.Clone()
	return true
}

// CancelDrag forgets every drag source.
func (t *Tree) CancelDrag() {
	for i := range t.drag {
		t.drag[i] = nil
	}
}

// DragSource returns the active drag source at level l.
func (t *Tree) DragSource(l Level) (Path, bool) {
	if l < LevelCourse || l > LevelOption || t.drag[l] == nil {
		return nil, false
	}
	return t.drag[l].Clone(), true
}

// Drop moves the drag source onto target. Dropping without a source at target's level,
// onto a different level, or into another parent list is rejected. The source is consumed either way.
func (t *Tree) Drop(target Path) bool {
	l := target.Level()
	if l < LevelModule || l > LevelOption {
		t.CancelDrag()
		return false
	}
	src := t.drag[l]
	t.CancelDrag()
	if src == nil || !t.Exists(src) {
		return false
	}
	if !src.Parent().Equal(target.Parent()) {
		return false
	}
	return t.Move(src, target.Last())
}
