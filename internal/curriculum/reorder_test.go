package curriculum

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReorderPreservesElements(t *testing.T) {
	base := []string{"a", "b", "c", "d", "e"}
	for from := range base {
		for to := range base {
			list := append([]string(nil), base...)
			moved := Reorder(list, from, to)
			require.Len(t, list, len(base))
			require.Equal(t, from != to, moved)
			require.Equal(t, base[from], list[to])

			sorted := append([]string(nil), list...)
			sort.Strings(sorted)
			require.Equal(t, base, sorted)
		}
	}
}

func TestReorderKeepsRelativeOrder(t *testing.T) {
	list := []int{0, 1, 2, 3, 4}
	require.True(t, Reorder(list, 1, 3))
	require.Equal(t, []int{0, 2, 3, 1, 4}, list)

	require.True(t, Reorder(list, 3, 0))
	require.Equal(t, []int{1, 0, 2, 3, 4}, list)
}

func TestReorderOutOfRangeIsNoop(t *testing.T) {
	list := []int{1, 2, 3}
	require.False(t, Reorder(list, -1, 1))
	require.False(t, Reorder(list, 0, 3))
	require.False(t, Reorder(list, 2, 2))
	require.Equal(t, []int{1, 2, 3}, list)
}

func TestMoveModuleKeepsIdentity(t *testing.T) {
	tree := NewTree(CourseFields{})
	for _, title := range []string{"intro", "core", "outro"} {
		p := tree.AddModule()
		require.True(t, tree.SetField(p, FieldTitle, title))
	}
	first, _ := tree.NodeAt(ModulePath(0))

	require.True(t, tree.Move(ModulePath(0), 2))

	m, ok := tree.Module(2)
	require.True(t, ok)
	require.Equal(t, "intro", m.Title)
	require.Equal(t, first, m.Node)
	p, ok := tree.Locate(first)
	require.True(t, ok)
	require.Equal(t, ModulePath(2), p)
}

func TestDragAndDrop(t *testing.T) {
	tree := NewTree(CourseFields{})
	tree.AddModule()
	tree.AddModule()
	tree.AddActivity(0)
	tree.AddActivity(0)
	tree.SetField(ActivityPath(0, 0), FieldTitle, "first")

	// no source
	require.False(t, tree.Drop(ActivityPath(0, 1)))

	// level mismatch
	require.True(t, tree.BeginDrag(ModulePath(1)))
	require.False(t, tree.Drop(ActivityPath(0, 1)))
	_, active := tree.DragSource(LevelModule)
	require.False(t, active)

	// other parent
	require.True(t, tree.BeginDrag(ActivityPath(0, 0)))
	require.False(t, tree.Drop(ActivityPath(1, 0)))

	require.True(t, tree.BeginDrag(ActivityPath(0, 0)))
	require.True(t, tree.Drop(ActivityPath(0, 1)))
	a, _ := tree.Activity(0, 1)
	require.Equal(t, "first", a.Title)
}

func TestMoveEmitsEvent(t *testing.T) {
	tree := NewTree(CourseFields{})
	tree.AddModule()
	tree.AddModule()

	var events []Event
	tree.Observe(func(ev Event) { events = append(events, ev) })
	require.True(t, tree.Move(ModulePath(1), 0))
	require.Equal(t, []Event{{Kind: EventMoved, Path: ModulePath(1), To: 0}}, events)
}
