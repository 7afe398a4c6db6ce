package curriculum

import (
	"math"
	"testing"

	"curriculum-editor/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestMixedUnitAggregation(t *testing.T) {
	tree := NewTree(CourseFields{DurationUnit: domain.UnitMinutes})
	tree.AddModule()
	tree.AddActivity(0)
	tree.AddActivity(0)
	require.True(t, tree.SetField(ActivityPath(0, 0), FieldDuration, "90"))
	require.True(t, tree.SetField(ActivityPath(0, 0), FieldDurationUnit, "seg"))
	require.True(t, tree.SetField(ActivityPath(0, 1), FieldDuration, "2"))
	require.True(t, tree.SetField(ActivityPath(0, 1), FieldDurationUnit, "min"))

	require.Equal(t, int64(210), tree.TotalSeconds())
	require.Equal(t, int64(210), tree.ModuleSeconds(0))
	// 3.5 min rounds half away from zero.
	require.Equal(t, int64(4), tree.Course().Duration)
}

func TestAggregationMatchesSecondsSum(t *testing.T) {
	tree := NewTree(CourseFields{DurationUnit: domain.UnitHours})
	tree.AddModule()
	tree.AddModule()
	durations := []struct {
		module int
		amount string
		unit   domain.DurationUnit
	}{
		{0, "45", domain.UnitMinutes},
		{0, "1", domain.UnitHours},
		{1, "1800", domain.UnitSeconds},
		{1, "50", domain.UnitMinutes},
	}
	var want int64
	for _, d := range durations {
		p, ok := tree.AddActivity(d.module)
		require.True(t, ok)
		tree.SetField(p, FieldDuration, d.amount)
		tree.SetField(p, FieldDurationUnit, string(d.unit))
		n, _ := parseDuration(d.amount)
		want += n * d.unit.Seconds()
	}
	require.Equal(t, want, tree.TotalSeconds())
	require.Equal(t, FromSeconds(want, domain.UnitHours), tree.Course().Duration)
	require.Equal(t, int64(3), tree.Course().Duration) // 11100s is about 3.08h
}

func TestEmptyModuleFallsBackToDeclaredDuration(t *testing.T) {
	tree := NewTree(CourseFields{DurationUnit: domain.UnitMinutes})
	p := tree.AddModule()
	tree.SetField(p, FieldDuration, "2")
	tree.SetField(p, FieldDurationUnit, "hrs")
	require.Equal(t, int64(7200), tree.ModuleSeconds(0))
	require.Equal(t, int64(120), tree.Course().Duration)

	// Once it has activities the declared value no longer counts.
	a, _ := tree.AddActivity(0)
	tree.SetField(a, FieldDuration, "10")
	require.Equal(t, int64(600), tree.ModuleSeconds(0))
	require.Equal(t, int64(10), tree.Course().Duration)
}

func TestNoModulesIsZeroInEveryUnit(t *testing.T) {
	for _, u := range domain.DurationUnits {
		tree := NewTree(CourseFields{DurationUnit: u})
		require.Zero(t, tree.Course().Duration)
		require.Zero(t, tree.TotalIn(u))
	}
}

func TestUnitChangeRecomputes(t *testing.T) {
	tree := NewTree(CourseFields{DurationUnit: domain.UnitHours})
	tree.AddModule()
	a, _ := tree.AddActivity(0)
	tree.SetField(a, FieldDuration, "150")
	tree.SetField(a, FieldDurationUnit, "min")
	require.Equal(t, int64(3), tree.Course().Duration) // 2.5h

	require.True(t, tree.SetField(Path{}, FieldDurationUnit, "min"))
	require.Equal(t, int64(150), tree.Course().Duration)

	require.False(t, tree.SetField(Path{}, FieldDurationUnit, "days"))
	require.Equal(t, domain.UnitMinutes, tree.Course().DurationUnit)
}

func TestRemovingActivityRecomputes(t *testing.T) {
	tree := NewTree(CourseFields{DurationUnit: domain.UnitSeconds})
	tree.AddModule()
	a, _ := tree.AddActivity(0)
	tree.SetField(a, FieldDuration, "30")
	require.Equal(t, int64(1800), tree.Course().Duration)

	require.True(t, tree.RemoveActivity(0, 0))
	require.Zero(t, tree.Course().Duration)
}

func TestFromSeconds(t *testing.T) {
	require.Zero(t, FromSeconds(0, domain.UnitHours))
	require.Zero(t, FromSeconds(-5, domain.UnitMinutes))
	require.Equal(t, int64(1), FromSeconds(30, domain.UnitMinutes))
	require.Equal(t, int64(0), FromSeconds(29, domain.UnitMinutes))
	require.Equal(t, int64(1), FromSeconds(1800, domain.UnitHours))
}

func TestHugeDurationsSaturate(t *testing.T) {
	tree := NewTree(CourseFields{DurationUnit: domain.UnitHours})
	tree.AddModule()
	tree.AddActivity(0)
	tree.AddActivity(0)
	require.True(t, tree.SetField(ActivityPath(0, 0), FieldDurationUnit, "hrs"))
	require.True(t, tree.SetField(ActivityPath(0, 0), FieldDuration, "9223372036854775807"))
	require.Equal(t, int64(math.MaxInt64), tree.ModuleSeconds(0))
	require.Equal(t, int64(math.MaxInt64), tree.TotalSeconds())

	require.True(t, tree.SetField(ActivityPath(0, 0), FieldDuration, "2562047788015215"))
	require.True(t, tree.SetField(ActivityPath(0, 1), FieldDurationUnit, "hrs"))
	require.True(t, tree.SetField(ActivityPath(0, 1), FieldDuration, "2562047788015216"))
	require.Equal(t, int64(math.MaxInt64), tree.TotalSeconds())
	require.Positive(t, tree.Course().Duration)

	tree.AddModule()
	require.True(t, tree.SetField(ModulePath(1), FieldDuration, "5"))
	require.Equal(t, int64(math.MaxInt64), tree.TotalSeconds())
}
