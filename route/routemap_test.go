package route_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.branchpoint.dev/confupdate/route"
)

func TestMapEmptyMergeIsEmpty(t *testing.T) {
	var m route.Map[string, string]

	out := m.Merge(".", func(s string) any { return s }, func(s string) any { return s })
	assert.Empty(t, out)
}

func TestMapRouteOverridesString(t *testing.T) {
	var m route.Map[string, string]

	m.SetString("a.b", "from-string")
	m.SetRoute(route.New("a", "b"), "from-route")

	out := m.Merge(".", func(s string) any { return s }, func(s string) any { return s })
	require.Len(t, out, 1)

	for _, e := range out {
		assert.Equal(t, "from-route", e.Value)
	}
}

func TestSetContains(t *testing.T) {
	var s route.Set
	s.AddString("a.b")

	assert.True(t, s.Contains(route.New("a", "b"), "."))
	assert.False(t, s.Contains(route.New("a", "c"), "."))
}

func TestMapCloneSharesNoStorage(t *testing.T) {
	var m route.Map[string, string]
	m.SetRoute(route.FromSingleKey("a"), "one")
	m.SetString("b", "two")

	cp := m.Clone()
	cp.SetRoute(route.FromSingleKey("c"), "three")
	cp.SetString("d", "four")

	assert.Equal(t, 1, m.RouteLen())
	assert.Equal(t, 1, m.StringLen())
	assert.Equal(t, 2, cp.RouteLen())
	assert.Equal(t, 2, cp.StringLen())
}

func TestSetCloneSharesNoStorage(t *testing.T) {
	var s route.Set
	s.AddRoute(route.FromSingleKey("a"))

	cp := s.Clone()
	cp.AddRoute(route.FromSingleKey("b"))

	assert.False(t, s.Contains(route.FromSingleKey("b"), "."))
	assert.True(t, cp.Contains(route.FromSingleKey("a"), "."))
	assert.True(t, cp.Contains(route.FromSingleKey("b"), "."))
}
