package curriculum

import (
	"strconv"
	"strings"
)

// Level is the depth of an entity in the curriculum tree.
type Level int

const (
	LevelCourse Level = iota
	LevelModule
	LevelActivity
	LevelQuestion
	LevelOption
)

func (l Level) String() string {
	switch l {
	case LevelCourse:
		return "course"
	case LevelModule:
		return "module"
	case LevelActivity:
		return "activity"
	case LevelQuestion:
		return "question"
	case LevelOption:
		return "option"
	}
	return "level(" + strconv.Itoa(int(l)) + ")"
}

// listName is the UI name of the child list that holds entities of level l.
func (l Level) listName() string {
	switch l {
	case LevelModule:
		return "modules"
	case LevelActivity:
		return "activities"
	case LevelQuestion:
		return "questions"
	case LevelOption:
		return "options"
	}
	return ""
}

// Path addresses an entity by position: module, activity, question, option.
// The empty path addresses the course itself.
type Path []int

func ModulePath(i int) Path { return Path{i} }
func ActivityPath(i, j int) Path { return Path{i, j} }
func QuestionPath(i, j, k int) Path { return Path{i, j, k} }
func OptionPath(i, j, k, l int) Path { return Path{i, j, k, l} }
func (p Path) Level() Level { return Level(len(p)) }
func (p Path) Child(idx int) Path { return append(p.Clone(), idx) }
func (p Path) Clone() Path { return append(Path(nil), p...) }

// Parent returns the path of the containing entity.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1].Clone()
}

// Last returns the index of p within its parent list, or -1 for the course.
func (p Path) Last() int {
	if len(p) == 0 {
		return -1
	}
	return p[len(p)-1]
}

func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether q addresses p or one of its ancestors.
func (p Path) HasPrefix(q Path) bool {
	if len(q) > len(p) {
		return false
	}
	return p[:len(q)].Equal(q)
}

// Key renders the structural key used by the collapse store: "1", "1:0", "1:0:2".
func (p Path) Key() string {
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ":")
}

// ParseKey is the inverse of Key. Malformed keys report false.
func ParseKey(key string) (Path, bool) {
	if key == "" {
		return Path{}, true
	}
	parts := strings.Split(key, ":")
	p := make(Path, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, false
		}
		p[i] = n
	}
	return p, true
}

// String renders the UI location, e.g. "modules[1].activities[0]".
func (p Path) String() string {
	var b strings.Builder
	for i, idx := range p {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(Level(i + 1).listName())
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(idx))
		b.WriteByte(']')
	}
	return b.String()
}

// FieldPath renders the UI location of a field on the entity at p.
func (p Path) FieldPath(field string) string {
	if len(p) == 0 {
		return field
	}
	if field == "" {
		return p.String()
	}
	return p.String() + "." + field
}
