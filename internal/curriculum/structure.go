package curriculum

import (
	"curriculum-editor/internal/domain"
	"github.com/google/uuid"
)

// defaultUnit is used for blank modules and activities.
const defaultUnit = domain.UnitMinutes

// AddModule appends a blank, active module and returns its path.
func (t *Tree) AddModule() Path {
	return t.AppendModule(Module{ModuleFields: ModuleFields{DurationUnit: defaultUnit, Active: true}})
}

// AppendModule inserts a copy of m (activities included) at the end of the course.
func (t *Tree) AppendModule(m Module) Path {
	id := t.newID()
	fields := sanitizeModule(m.ModuleFields, ModuleFields{DurationUnit: defaultUnit})
	node := &moduleNode{ModuleFields: fields}
	t.moduleByID[id] = node
	t.modules = append(t.modules, id)
	for _, a := range m.Activities {
		t.insertActivity(id, node, a)
	}
	p := ModulePath(len(t.modules) - 1)
	t.changed(nil, true)
	t.emit(Event{Kind: EventAdded, Path: p})
	return p
}

// ImportModule copies a catalog module into the course and stamps its bank reference.
func (t *Tree) ImportModule(bankRefID string, m Module) Path {
	m.BankRefID = bankRefID
	return t.AppendModule(m)
}

// AddActivity appends a blank reading activity to module i.
func (t *Tree) AddActivity(i int) (Path, bool) {
	return t.AppendActivity(i, Activity{ActivityFields: ActivityFields{
		Type:         domain.ActivityReading,
		DurationUnit: defaultUnit,
		Active:       true,
		VideoSource:  domain.VideoYouTube,
	}})
}

// AppendActivity inserts a copy of a (questions included) at the end of module i.
func (t *Tree) AppendActivity(i int, a Activity) (Path, bool) {
	m, id, ok := t.moduleAt(i)
	if !ok {
		return nil, false
	}
	t.insertActivity(id, m, a)
	p := ActivityPath(i, len(m.activities)-1)
	t.changed(&m.rev, true)
	t.emit(Event{Kind: EventAdded, Path: p})
	return p, true
}

// ImportActivity copies a catalog activity into module i and stamps its bank reference.
func (t *Tree) ImportActivity(i int, bankRefID string, a Activity) (Path, bool) {
	a.BankRefID = bankRefID
	return t.AppendActivity(i, a)
}

func (t *Tree) insertActivity(parent NodeID, m *moduleNode, a Activity) {
	id := t.newID()
	fields := sanitizeActivity(a.ActivityFields, ActivityFields{Type: domain.ActivityReading, DurationUnit: defaultUnit})
	if fields.VideoSource == "" {
		fields.VideoSource = domain.InferVideoSource(fields.VideoURL)
	}
	node := &activityNode{ActivityFields: fields, parent: parent}
	t.actByID[id] = node
	m.activities = append(m.activities, id)
	for _, q := range a.Questions {
		t.insertQuestion(id, node, q)
	}
}

// AddQuestion appends a question of type qt to the quiz at (i, j), seeded with two options, the first correct.
func (t *Tree) AddQuestion(i, j int, qt domain.QuestionType) (Path, bool) {
	if !qt.Valid() {
		qt = domain.QuestionMultipleChoice
	}
	return t.AppendQuestion(i, j, Question{
		QuestionFields: QuestionFields{QuestionType: qt, Points: 1, CorrectAnswer: true},
		Options:        []Option{{IsCorrect: true}, {}},
	})
}

// AppendQuestion inserts a copy of q at the end of the activity at (i, j).
func (t *Tree) AppendQuestion(i, j int, q Question) (Path, bool) {
	a, id, ok := t.activityAt(i, j)
	if !ok {
		return nil, false
	}
	t.insertQuestion(id, a, q)
	p := QuestionPath(i, j, len(a.questions)-1)
	t.changed(&a.rev, false)
	t.emit(Event{Kind: EventAdded, Path: p})
	return p, true
}

func (t *Tree) insertQuestion(parent NodeID, a *activityNode, q Question) {
	id := t.newID()
	fields := sanitizeQuestion(q.QuestionFields, QuestionFields{QuestionType: domain.QuestionMultipleChoice, Points: 1})
	if fields.ID == "" {
		fields.ID = uuid.NewString()
	}
	node := &questionNode{QuestionFields: fields, parent: parent}
	t.questionBy[id] = node
	a.questions = append(a.questions, id)

	opts := q.Options
	if len(opts) > domain.MaxOptions {
		opts = opts[:domain.MaxOptions]
	}
	for _, o := range opts {
		t.appendOption(id, node, o.OptionFields, o.IsCorrect)
	}
	if fields.QuestionType == domain.QuestionMultipleChoice {
		for len(node.options) < domain.MinOptions {
			t.appendOption(id, node, OptionFields{}, false)
		}
	}
	t.ensureSingleCorrect(node)
}

// AddOption appends a blank, incorrect option. It is a no-op once the question has the maximum number of options.
func (t *Tree) AddOption(i, j, k int) (Path, bool) {
	q, id, ok := t.questionAt(i, j, k)
	if !ok || len(q.options) >= domain.MaxOptions {
		return nil, false
	}
	t.appendOption(id, q, OptionFields{}, false)
	t.ensureSingleCorrect(q)
	p := OptionPath(i, j, k, len(q.options)-1)
	t.changed(&q.rev, false)
	t.emit(Event{Kind: EventAdded, Path: p})
	return p, true
}

func (t *Tree) appendOption(parent NodeID, q *questionNode, fields OptionFields, correct bool) {
	id := t.newID()
	if fields.ID == "" {
		fields.ID = uuid.NewString()
	}
	t.optionByID[id] = &optionNode{OptionFields: fields, parent: parent, correct: correct}
	q.options = append(q.options, id)
}

// ensureSingleCorrect keeps the first correct option and clears the rest; with none, the first option wins.
func (t *Tree) ensureSingleCorrect(q *questionNode) {
	if len(q.options) == 0 {
		return
	}
	found := false
	for _, oid := range q.options {
		o := t.optionByID[oid]
		if o.correct && !found {
			found = true
			continue
		}
		o.correct = false
	}
	if !found {
		t.optionByID[q.options[0]].correct = true
	}
}

// Remove deletes the entity at p with all its descendants and compacts the containing list.
// Options cannot drop below the minimum; a removed correct option hands the flag to the first remaining one.
func (t *Tree) Remove(p Path) bool {
	if len(p) == 0 || !t.Exists(p) {
		return false
	}
	list, _ := t.children(p.Parent())
	idx := p.Last()
	id := (*list)[idx]

	var parentRev *uint64
	switch p.Level() {
	case LevelModule:
		t.dropModule(id)
	case LevelActivity:
		m, _, _ := t.moduleAt(p[0])
		parentRev = &m.rev
		t.dropActivity(id)
	case LevelQuestion:
		a, _, _ := t.activityAt(p[0], p[1])
		parentRev = &a.rev
		t.dropQuestion(id)
	case LevelOption:
		q, _, _ := t.questionAt(p[0], p[1], p[2])
		if len(q.options) <= domain.MinOptions {
			return false
		}
		parentRev = &q.rev
		delete(t.optionByID, id)
	default:
		return false
	}

	*list = append((*list)[:idx], (*list)[idx+1:]...)
	if p.Level() == LevelOption {
		q, _, _ := t.questionAt(p[0], p[1], p[2])
		t.ensureSingleCorrect(q)
	}
	t.changed(parentRev, p.Level() <= LevelActivity)
	t.emit(Event{Kind: EventRemoved, Path: p.Clone()})
	return true
}

func (t *Tree) RemoveModule(i int) bool { return t.Remove(ModulePath(i)) }
func (t *Tree) RemoveActivity(i, j int) bool { return t.Remove(ActivityPath(i, j)) }
func (t *Tree) RemoveQuestion(i, j, k int) bool { return t.Remove(QuestionPath(i, j, k)) }
func (t *Tree) RemoveOption(i, j, k, l int) bool {
	return t.Remove(OptionPath(i, j, k, l))
}

func (t *Tree) dropModule(id NodeID) {
	for _, aid := range t.moduleByID[id].activities {
		t.dropActivity(aid)
	}
	delete(t.moduleByID, id)
}

func (t *Tree) dropActivity(id NodeID) {
	for _, qid := range t.actByID[id].questions {
		t.dropQuestion(qid)
	}
	delete(t.actByID, id)
}

func (t *Tree) dropQuestion(id NodeID) {
	for _, oid := range t.questionBy[id].options {
		delete(t.optionByID, oid)
	}
	delete(t.questionBy, id)
}
