package curriculum

import (
	"curriculum-editor/internal/domain"
	"github.com/google/uuid"
)

// EventKind describes a structural change of the tree.
type EventKind int

const (
	EventAdded EventKind = iota
	EventRemoved
	EventMoved
)

// Event is emitted after a list at some level changed shape.
// For EventMoved, Path is the source position and To the destination index within the same parent.
type Event struct {
	Kind EventKind
	Path Path
	To   int
}

type moduleNode struct {
	ModuleFields
	rev        uint64
	activities []NodeID
}

type activityNode struct {
	ActivityFields
	rev       uint64
	parent    NodeID
	questions []NodeID
}

type questionNode struct {
	QuestionFields
	rev     uint64
	parent  NodeID
	options []NodeID
}

type optionNode struct {
	OptionFields
	rev     uint64
	parent  NodeID
	correct bool
}

// Tree is the canonical in-memory curriculum of one course.
// Entities live in flat registries keyed by NodeID; lists only hold ids, so
// reordering, adding and removing never copy subtrees.
//
// Tree is not safe for concurrent use; callers serialize access.
type Tree struct {
	course     CourseFields
	courseRev  uint64
	modules    []NodeID
	moduleByID map[NodeID]*moduleNode
	actByID    map[NodeID]*activityNode
	questionBy map[NodeID]*questionNode
	optionByID map[NodeID]*optionNode

	totals   totals
	dirty    bool
	drag     [LevelOption + 1]Path
	observer func(Event)
	newID    func() NodeID
}

// NewTree returns an empty tree for the given course attributes.
func NewTree(course CourseFields) *Tree {
	t := &Tree{
		moduleByID: make(map[NodeID]*moduleNode),
		actByID:    make(map[NodeID]*activityNode),
		questionBy: make(map[NodeID]*questionNode),
		optionByID: make(map[NodeID]*optionNode),
		newID:      func() NodeID { return NodeID(uuid.NewString()) },
	}
	t.course = sanitizeCourse(course, CourseFields{DurationUnit: domain.UnitHours, Installments: domain.MinInstallments})
	t.recompute()
	return t
}

// Observe registers fn to receive structural events. Only one observer is kept.
func (t *Tree) Observe(fn func(Event)) {
	t.observer = fn
}

// Dirty reports whether the tree changed since the last MarkClean.
func (t *Tree) Dirty() bool { return t.dirty }

// MarkClean resets the dirty flag, typically after a successful save.
func (t *Tree) MarkClean() { t.dirty = false }

func (t *Tree) emit(ev Event) {
	if t.observer != nil {
		t.observer(ev)
	}
}

// changed records a mutation. Aggregates are recomputed when durations may have moved.
func (t *Tree) changed(rev *uint64, durations bool) {
	if rev != nil {
		*rev++
	}
	t.dirty = true
	if durations {
		t.recompute()
	}
}

// ---- lookup ----

func (t *Tree) moduleAt(i int) (*moduleNode, NodeID, bool) {
	if i < 0 || i >= len(t.modules) {
		return nil, "", false
	}
	id := t.modules[i]
	return t.moduleByID[id], id, true
}

func (t *Tree) activityAt(i, j int) (*activityNode, NodeID, bool) {
	m, _, ok := t.moduleAt(i)
	if !ok || j < 0 || j >= len(m.activities) {
		return nil, "", false
	}
	id := m.activities[j]
	return t.actByID[id], id, true
}

func (t *Tree) questionAt(i, j, k int) (*questionNode, NodeID, bool) {
	a, _, ok := t.activityAt(i, j)
	if !ok || k < 0 || k >= len(a.questions) {
		return nil, "", false
	}
	id := a.questions[k]
	return t.questionBy[id], id, true
}

func (t *Tree) optionAt(i, j, k, l int) (*optionNode, NodeID, bool) {
	q, _, ok := t.questionAt(i, j, k)
	if !ok || l < 0 || l >= len(q.options) {
		return nil, "", false
	}
	id := q.options[l]
	return t.optionByID[id], id, true
}

// children returns the list holding the children of the entity at parent.
func (t *Tree) children(parent Path) (*[]NodeID, bool) {
	switch len(parent) {
	case 0:
		return &t.modules, true
	case 1:
		if m, _, ok := t.moduleAt(parent[0]); ok {
			return &m.activities, true
		}
	case 2:
		if a, _, ok := t.activityAt(parent[0], parent[1]); ok {
			return &a.questions, true
		}
	case 3:
		if q, _, ok := t.questionAt(parent[0], parent[1], parent[2]); ok {
			return &q.options, true
		}
	}
	return nil, false
}

// Exists reports whether p addresses an entity currently in the tree.
func (t *Tree) Exists(p Path) bool {
	if len(p) == 0 {
		return true
	}
	list, ok := t.children(p.Parent())
	return ok && p.Last() >= 0 && p.Last() < len(*list)
}

// Len returns the number of children of the entity at parent, or -1 when parent does not exist.
func (t *Tree) Len(parent Path) int {
	list, ok := t.children(parent)
	if !ok {
		return -1
	}
	return len(*list)
}

// NodeAt returns the registry id of the entity at p.
func (t *Tree) NodeAt(p Path) (NodeID, bool) {
	if len(p) == 0 || !t.Exists(p) {
		return "", false
	}
	list, _ := t.children(p.Parent())
	return (*list)[p.Last()], true
}

// Locate resolves a registry id back to its current position.
func (t *Tree) Locate(id NodeID) (Path, bool) {
	var chain []NodeID
	cur := id
	for {
		chain = append(chain, cur)
		if a, ok := t.actByID[cur]; ok {
			cur = a.parent
			continue
		}
		if q, ok := t.questionBy[cur]; ok {
			cur = q.parent
			continue
		}
		if o, ok := t.optionByID[cur]; ok {
			cur = o.parent
			continue
		}
		if _, ok := t.moduleByID[cur]; ok {
			break
		}
		return nil, false
	}

	p := make(Path, 0, len(chain))
	list := t.modules
	for i := len(chain) - 1; i >= 0; i-- {
		idx := indexOf(list, chain[i])
		if idx < 0 {
			return nil, false
		}
		p = append(p, idx)
		switch len(p) {
		case 1:
			list = t.moduleByID[chain[i]].activities
		case 2:
			list = t.actByID[chain[i]].questions
		case 3:
			list = t.questionBy[chain[i]].options
		}
	}
	return p, true
}

// Revision returns the mutation counter of an entity; the course uses the empty id.
func (t *Tree) Revision(id NodeID) (uint64, bool) {
	if id == "" {
		return t.courseRev, true
	}
	if m, ok := t.moduleByID[id]; ok {
		return m.rev, true
	}
	if a, ok := t.actByID[id]; ok {
		return a.rev, true
	}
	if q, ok := t.questionBy[id]; ok {
		return q.rev, true
	}
	if o, ok := t.optionByID[id]; ok {
		return o.rev, true
	}
	return 0, false
}

// Paths lists the current positions of every entity at the given level, in tree order.
func (t *Tree) Paths(level Level) []Path {
	var out []Path
	var walk func(parent Path)
	walk = func(parent Path) {
		list, ok := t.children(parent)
		if !ok {
			return
		}
		for idx := range *list {
			p := parent.Child(idx)
			if p.Level() == level {
				out = append(out, p)
				continue
			}
			walk(p)
		}
	}
	if level > LevelCourse && level <= LevelOption {
		walk(Path{})
	}
	return out
}

func indexOf(list []NodeID, id NodeID) int {
	for i, v := range list {
		if v == id {
			return i
		}
	}
	return -1
}

// ---- snapshots ----

// Course returns the course attributes including the aggregated duration.
func (t *Tree) Course() CourseFields { return t.course }

// Snapshot copies the whole tree into the nested UI shape.
func (t *Tree) Snapshot() Course {
	c := Course{CourseFields: t.course, TotalSeconds: t.totals.course, Modules: make([]Module, 0, len(t.modules))}
	for i := range t.modules {
		m, _ := t.Module(i)
		c.Modules = append(c.Modules, m)
	}
	return c
}

func (t *Tree) Module(i int) (Module, bool) {
	m, id, ok := t.moduleAt(i)
	if !ok {
		return Module{}, false
	}
	out := Module{Node: id, ModuleFields: m.ModuleFields, TotalSeconds: t.ModuleSeconds(i), Activities: make([]Activity, 0, len(m.activities))}
	for j := range m.activities {
		a, _ := t.Activity(i, j)
		out.Activities = append(out.Activities, a)
	}
	return out, true
}

func (t *Tree) Activity(i, j int) (Activity, bool) {
	a, id, ok := t.activityAt(i, j)
	if !ok {
		return Activity{}, false
	}
	out := Activity{Node: id, ActivityFields: a.ActivityFields, Questions: make([]Question, 0, len(a.questions))}
	for k := range a.questions {
		q, _ := t.Question(i, j, k)
		out.Questions = append(out.Questions, q)
	}
	return out, true
}

func (t *Tree) Question(i, j, k int) (Question, bool) {
	q, id, ok := t.questionAt(i, j, k)
	if !ok {
		return Question{}, false
	}
	out := Question{Node: id, QuestionFields: q.QuestionFields, Options: make([]Option, 0, len(q.options))}
	for _, oid := range q.options {
		o := t.optionByID[oid]
		out.Options = append(out.Options, Option{Node: oid, OptionFields: o.OptionFields, IsCorrect: o.correct})
	}
	return out, true
}

func (t *Tree) Option(i, j, k, l int) (Option, bool) {
	o, id, ok := t.optionAt(i, j, k, l)
	if !ok {
		return Option{}, false
	}
	return Option{Node: id, OptionFields: o.OptionFields, IsCorrect: o.correct}, true
}

// ---- field updates ----

// UpdateCourse applies fn to the course attributes. The derived duration cannot be written.
func (t *Tree) UpdateCourse(fn func(*CourseFields)) {
	before := t.course
	next := before
	fn(&next)
	next.Duration = before.Duration
	t.course = sanitizeCourse(next, before)
	t.changed(&t.courseRev, t.course.DurationUnit != before.DurationUnit)
}

func (t *Tree) UpdateModule(i int, fn func(*ModuleFields)) bool {
	m, _, ok := t.moduleAt(i)
	if !ok {
		return false
	}
	before := m.ModuleFields
	fn(&m.ModuleFields)
	m.ModuleFields = sanitizeModule(m.ModuleFields, before)
	t.changed(&m.rev, m.Duration != before.Duration || m.DurationUnit != before.DurationUnit)
	return true
}

func (t *Tree) UpdateActivity(i, j int, fn func(*ActivityFields)) bool {
	a, _, ok := t.activityAt(i, j)
	if !ok {
		return false
	}
	before := a.ActivityFields
	fn(&a.ActivityFields)
	a.ActivityFields = sanitizeActivity(a.ActivityFields, before)
	t.changed(&a.rev, a.Duration != before.Duration || a.DurationUnit != before.DurationUnit)
	return true
}

// UpdateQuestion applies fn to the question. Switching to multiple choice tops the options up to the minimum.
func (t *Tree) UpdateQuestion(i, j, k int, fn func(*QuestionFields)) bool {
	q, id, ok := t.questionAt(i, j, k)
	if !ok {
		return false
	}
	before := q.QuestionFields
	fn(&q.QuestionFields)
	q.QuestionFields = sanitizeQuestion(q.QuestionFields, before)
	t.changed(&q.rev, false)
	if q.QuestionType == domain.QuestionMultipleChoice {
		p := QuestionPath(i, j, k)
		for len(q.options) < domain.MinOptions {
			t.appendOption(id, q, OptionFields{}, false)
			t.emit(Event{Kind: EventAdded, Path: p.Child(len(q.options) - 1)})
		}
		t.ensureSingleCorrect(q)
	}
	return true
}

func (t *Tree) UpdateOption(i, j, k, l int, fn func(*OptionFields)) bool {
	o, _, ok := t.optionAt(i, j, k, l)
	if !ok {
		return false
	}
	fn(&o.OptionFields)
	t.changed(&o.rev, false)
	return true
}

// SetOptionCorrect marks the option at p as the single correct answer of its question.
func (t *Tree) SetOptionCorrect(p Path) bool {
	if p.Level() != LevelOption {
		return false
	}
	q, _, ok := t.questionAt(p[0], p[1], p[2])
	if !ok || p[3] < 0 || p[3] >= len(q.options) {
		return false
	}
	for _, oid := range q.options {
		t.optionByID[oid].correct = false
	}
	target := t.optionByID[q.options[p[3]]]
	target.correct = true
	t.changed(&target.rev, false)
	q.rev++
	return true
}

func sanitizeCourse(next, before CourseFields) CourseFields {
	if !next.DurationUnit.Valid() {
		next.DurationUnit = before.DurationUnit
	}
	next.Installments = clampInstallments(next.Installments)
	return next
}

func sanitizeModule(next, before ModuleFields) ModuleFields {
	if next.Duration < 0 {
		next.Duration = before.Duration
	}
	if !next.DurationUnit.Valid() {
		next.DurationUnit = before.DurationUnit
	}
	return next
}

func sanitizeActivity(next, before ActivityFields) ActivityFields {
	if next.Duration < 0 {
		next.Duration = before.Duration
	}
	if !next.DurationUnit.Valid() {
		next.DurationUnit = before.DurationUnit
	}
	if !next.Type.Valid() {
		next.Type = before.Type
	}
	if next.VideoSource != "" && !next.VideoSource.Valid() {
		next.VideoSource = before.VideoSource
	}
	return next
}

func sanitizeQuestion(next, before QuestionFields) QuestionFields {
	if !next.QuestionType.Valid() {
		next.QuestionType = before.QuestionType
	}
	if next.Points < 0 {
		next.Points = before.Points
	}
	return next
}

func clampInstallments(n int) int {
	if n < domain.MinInstallments {
		return domain.MinInstallments
	}
	if n > domain.MaxInstallments {
		return domain.MaxInstallments
	}
	return n
}
