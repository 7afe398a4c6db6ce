package curriculum

import (
	"math"

	"curriculum-editor/internal/domain"
)

type totals struct {
	modules []int64
	course  int64
}

// recompute rolls every activity duration up into module and course totals.
// The course duration is written back in the course unit.
func (t *Tree) recompute() {
	mods := make([]int64, len(t.modules))
	var sum int64
	for i, id := range t.modules {
		mods[i] = t.moduleSeconds(t.moduleByID[id])
		sum = domain.AddSeconds(sum, mods[i])
	}
	t.totals = totals{modules: mods, course: sum}
	t.course.Duration = FromSeconds(sum, t.course.DurationUnit)
}

func (t *Tree) moduleSeconds(m *moduleNode) int64 {
	if len(m.activities) == 0 {
		return domain.ToSeconds(m.Duration, m.DurationUnit)
	}
	var sum int64
	for _, aid := range m.activities {
		a := t.actByID[aid]
		sum = domain.AddSeconds(sum, domain.ToSeconds(a.Duration, a.DurationUnit))
	}
	return sum
}

// ModuleSeconds returns the aggregated duration of module i in seconds, 0 for unknown modules.
func (t *Tree) ModuleSeconds(i int) int64 {
	if i < 0 || i >= len(t.totals.modules) {
		return 0
	}
	return t.totals.modules[i]
}

// TotalSeconds returns the aggregated course duration in seconds.
func (t *Tree) TotalSeconds() int64 { return t.totals.course }

// TotalIn returns the aggregated course duration expressed in unit u.
func (t *Tree) TotalIn(u domain.DurationUnit) int64 {
	return FromSeconds(t.totals.course, u)
}

// FromSeconds converts seconds to unit u, rounding half away from zero (210s is 4 min).
// Non-positive or non-finite results are 0.
func FromSeconds(seconds int64, u domain.DurationUnit) int64 {
	if seconds <= 0 {
		return 0
	}
	v := math.Round(float64(seconds) / float64(u.Seconds()))
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return int64(v)
}
