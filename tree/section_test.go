package tree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.branchpoint.dev/confupdate/route"
	"go.branchpoint.dev/confupdate/tree"
)

func TestSetThenGetRoundTrips(t *testing.T) {
	s := tree.NewSection(route.ModeString)

	r := route.FromSingleKey("greeting")
	s.Set(r, "hi")

	v, ok := s.Get(r)
	require.True(t, ok)
	assert.Equal(t, "hi", v)
}

func TestSetThenRemoveThenContains(t *testing.T) {
	s := tree.NewSection(route.ModeString)
	r := route.FromString("a.b", ".")

	s.Set(r, 1)
	require.True(t, s.Contains(r))

	removed := s.Remove(r)
	assert.True(t, removed)
	assert.False(t, s.Contains(r))
}

func TestRemoveAbsentReturnsFalse(t *testing.T) {
	s := tree.NewSection(route.ModeString)
	assert.False(t, s.Remove(route.FromSingleKey("nope")))
}

func TestSetCreatesIntermediateSections(t *testing.T) {
	s := tree.NewSection(route.ModeString)
	s.Set(route.FromString("a.b.c", "."), "leaf")

	mid, ok := s.GetBlock("a")
	require.True(t, ok)
	assert.True(t, mid.IsSection())
}

func TestCreateSectionReturnsExistingSection(t *testing.T) {
	s := tree.NewSection(route.ModeString)
	r := route.FromSingleKey("a")

	first := s.CreateSection(r)
	first.Set(route.FromSingleKey("x"), 1)

	second := s.CreateSection(r)
	assert.Same(t, first, second)

	v, ok := second.Get(route.FromSingleKey("x"))
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestCreateSectionMigratesComments(t *testing.T) {
	s := tree.NewSection(route.ModeString)
	r := route.FromSingleKey("a")

	s.Set(r, "scalar")
	block, _ := s.GetBlock("a")
	block.Comments().Head = "a comment"

	sec := s.CreateSection(r)
	assert.Equal(t, "a comment", sec.Comments().Head)
}

func TestDeepCloneSharesNoState(t *testing.T) {
	s := tree.NewSection(route.ModeString)
	s.Set(route.FromString("a.b", "."), []any{"x", "y"})

	clone := s.Clone()

	list, ok := clone.GetList(route.FromString("a.b", "."))
	require.True(t, ok)
	list[0] = "mutated"

	orig, ok := s.GetList(route.FromString("a.b", "."))
	require.True(t, ok)
	assert.Equal(t, "x", orig[0])
}

func TestCloneSectionParentPointersIndependent(t *testing.T) {
	s := tree.NewSection(route.ModeString)
	s.CreateSection(route.FromSingleKey("a")).Set(route.FromSingleKey("b"), 1)

	clone := s.Clone()
	childBlock, _ := clone.GetBlock("a")
	childSec := childBlock.(*tree.Section)

	assert.Same(t, clone, childSec.Parent())
	assert.NotSame(t, s, childSec.Parent())
}

func TestReparentingDetachesFromOldParent(t *testing.T) {
	root := tree.NewSection(route.ModeString)
	a := root.CreateSection(route.FromSingleKey("a"))
	a.Set(route.FromSingleKey("leaf"), 1)

	b := root.CreateSection(route.FromSingleKey("b"))
	b.SetChild("moved", a)

	_, stillUnderA := root.GetBlock("a")
	assert.False(t, stillUnderA, "a should be detached from root once attached under b")

	moved, ok := b.GetBlock("moved")
	require.True(t, ok)
	assert.Same(t, a, moved)
	assert.Same(t, b, a.Parent())
}

func TestRoutesDeepVisitsAllLeaves(t *testing.T) {
	s := tree.NewSection(route.ModeString)
	s.Set(route.FromString("a.b", "."), 1)
	s.Set(route.FromString("a.c", "."), 2)
	s.Set(route.FromString("d", "."), 3)

	routes := s.Routes(true)

	var joined []string
	for _, r := range routes {
		j, err := r.Join(".")
		require.NoError(t, err)
		joined = append(joined, j)
	}

	assert.Contains(t, joined, "a")
	assert.Contains(t, joined, "a.b")
	assert.Contains(t, joined, "a.c")
	assert.Contains(t, joined, "d")
}

func TestStringKeyedRoutesFailsInObjectMode(t *testing.T) {
	s := tree.NewSection(route.ModeObject)
	s.Set(route.New("a"), 1)

	_, err := s.StringKeyedRoutes(true, ".")
	assert.ErrorIs(t, err, tree.ErrKeyModeMismatch)
}

func TestObjectModeKeysStoredVerbatim(t *testing.T) {
	s := tree.NewSection(route.ModeObject)
	s.Set(route.New(42), "answer")

	v, ok := s.Get(route.New(42))
	require.True(t, ok)
	assert.Equal(t, "answer", v)
}

func TestStringModeCoercesKeys(t *testing.T) {
	s := tree.NewSection(route.ModeString)
	s.SetChild(7, tree.NewEntry("seven"))

	keys := s.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, "7", keys[0])
}

func TestStoredValueEntryAndSection(t *testing.T) {
	e := tree.NewEntry(5)
	assert.Equal(t, 5, e.StoredValue())

	s := tree.NewSection(route.ModeString)
	s.Set(route.FromSingleKey("a"), 1)

	m, ok := s.StoredValue().(map[any]tree.Block)
	require.True(t, ok)
	require.Len(t, m, 1)

	// The returned map is a copy; deleting from it leaves s intact.
	delete(m, "a")
	assert.True(t, s.Contains(route.FromSingleKey("a")))
}

func TestSetZeroLengthRouteIsNoOp(t *testing.T) {
	s := tree.NewSection(route.ModeString)
	s.Set(route.Route{}, "ignored")

	assert.Zero(t, s.Len())
}

func TestRemoveZeroLengthRouteReturnsFalse(t *testing.T) {
	s := tree.NewSection(route.ModeString)
	s.Set(route.FromSingleKey("a"), 1)

	assert.False(t, s.Remove(route.Route{}))
	assert.Equal(t, 1, s.Len())
}

func TestStringRouteMappedValues(t *testing.T) {
	s := tree.NewSection(route.ModeString)
	s.Set(route.FromString("a.b", "."), 1)
	s.Set(route.FromSingleKey("c"), 2)

	values, err := s.StringRouteMappedValues(true, ".")
	require.NoError(t, err)

	assert.Equal(t, 1, values["a.b"])
	assert.Equal(t, 2, values["c"])

	blocks, err := s.StringRouteMappedBlocks(true, ".")
	require.NoError(t, err)
	assert.True(t, blocks["a"].IsSection())
	assert.False(t, blocks["a.b"].IsSection())
}

func TestStringRouteMappedValuesFailsInObjectMode(t *testing.T) {
	s := tree.NewSection(route.ModeObject)
	s.Set(route.New(1), "x")

	_, err := s.StringRouteMappedValues(true, ".")
	assert.ErrorIs(t, err, tree.ErrKeyModeMismatch)

	_, err = s.StringRouteMappedBlocks(true, ".")
	assert.ErrorIs(t, err, tree.ErrKeyModeMismatch)
}
