package collapse

import (
	"testing"

	"curriculum-editor/internal/curriculum"
	"github.com/stretchr/testify/require"
)

func TestSeedCollapsesOnlyOnce(t *testing.T) {
	s := NewStore("")
	require.Equal(t, NewCourseScope, s.Scope())

	require.True(t, s.Seed([]curriculum.Path{curriculum.ModulePath(0), curriculum.ActivityPath(0, 0)}))
	require.True(t, s.IsCollapsed(curriculum.ModulePath(0)))
	require.True(t, s.IsCollapsed(curriculum.ActivityPath(0, 0)))

	require.False(t, s.Seed([]curriculum.Path{curriculum.ModulePath(1)}))
	require.False(t, s.IsCollapsed(curriculum.ModulePath(1)))
}

func TestToggleAndSet(t *testing.T) {
	s := NewStore("c1")
	p := curriculum.ActivityPath(2, 1)
	require.True(t, s.Toggle(p))
	require.False(t, s.Toggle(p))

	s.Set(p, true)
	s.Set(p, true)
	require.True(t, s.IsCollapsed(p))
}

func TestBulkOperationsTolerateStaleKeys(t *testing.T) {
	s := NewStore("c1")
	s.Set(curriculum.ModulePath(9), true)

	live := []curriculum.Path{curriculum.ModulePath(0), curriculum.ModulePath(1)}
	s.CollapseAll(live)
	require.Equal(t, []string{"0", "1", "9"}, s.Collapsed())

	s.ExpandAll(live)
	require.Equal(t, []string{"9"}, s.Collapsed())
}

func TestRemoveCascadesAndShifts(t *testing.T) {
	s := NewStore("c1")
	for _, key := range []string{"0", "1", "1:0", "1:0:1", "2", "2:3"} {
		p, _ := curriculum.ParseKey(key)
		s.Set(p, true)
	}

	s.Remove(curriculum.ModulePath(1))
	require.Equal(t, []string{"0", "1", "1:3"}, s.Collapsed())
}

func TestRemoveActivityShiftsSiblingsOnly(t *testing.T) {
	s := NewStore("c1")
	for _, key := range []string{"0:0", "0:2", "1:2"} {
		p, _ := curriculum.ParseKey(key)
		s.Set(p, true)
	}
	s.Remove(curriculum.ActivityPath(0, 1))
	require.Equal(t, []string{"0:0", "0:1", "1:2"}, s.Collapsed())
}

func TestMoveCarriesState(t *testing.T) {
	s := NewStore("c1")
	s.Set(curriculum.ModulePath(0), true)
	s.Set(curriculum.ActivityPath(0, 1), true)
	s.Set(curriculum.ModulePath(2), true)

	s.Move(curriculum.ModulePath(0), 2)
	require.Equal(t, []string{"1", "2", "2:1"}, s.Collapsed())

	s.Move(curriculum.ModulePath(2), 0)
	require.Equal(t, []string{"0", "0:1", "2"}, s.Collapsed())
}

func TestInsertOpensGap(t *testing.T) {
	s := NewStore("c1")
	s.Set(curriculum.ModulePath(1), true)
	s.Insert(curriculum.ModulePath(1))
	require.False(t, s.IsCollapsed(curriculum.ModulePath(1)))
	require.True(t, s.IsCollapsed(curriculum.ModulePath(2)))
}

func TestSnapshotRestore(t *testing.T) {
	s := NewStore("new")
	s.Set(curriculum.ModulePath(0), true)
	snap := s.Snapshot()

	other := NewStore("new")
	other.Restore(snap)
	require.True(t, other.Seeded())
	require.True(t, other.IsCollapsed(curriculum.ModulePath(0)))

	other.Rescope("42")
	require.Equal(t, "42", other.Scope())
}
