package version_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.branchpoint.dev/confupdate/route"
	"go.branchpoint.dev/confupdate/tree"
	"go.branchpoint.dev/confupdate/version"
)

func twoPartPattern() *version.Pattern {
	return version.NewPattern(".", []string{"1", "2"}, []string{"0", "1", "2", "3"})
}

func TestParseRoundTripsString(t *testing.T) {
	p := twoPartPattern()

	v, err := p.Parse("1.2")
	require.NoError(t, err)
	assert.Equal(t, "1.2", v.String())
}

func TestParseFailsOnArityMismatch(t *testing.T) {
	p := twoPartPattern()

	_, err := p.Parse("1.2.3")
	assert.ErrorIs(t, err, version.ErrMalformed)
}

func TestParseFailsOnUnknownSegmentValue(t *testing.T) {
	p := twoPartPattern()

	_, err := p.Parse("9.0")
	assert.ErrorIs(t, err, version.ErrMalformed)
}

func TestNextCarriesIntoLeftSegment(t *testing.T) {
	p := twoPartPattern()

	v, err := p.Parse("1.3")
	require.NoError(t, err)

	next := v.Next()
	assert.Equal(t, "2.0", next.String())
}

func TestNextSaturatesPastLastVersion(t *testing.T) {
	p := twoPartPattern()

	v, err := p.Parse("2.3")
	require.NoError(t, err)

	beyond := v.Next()
	assert.Equal(t, "<beyond>", beyond.String())

	cmp, err := beyond.Compare(v)
	require.NoError(t, err)
	assert.Positive(t, cmp)
}

func TestCompareOrdersBySegment(t *testing.T) {
	p := twoPartPattern()

	a, _ := p.Parse("1.3")
	b, _ := p.Parse("2.0")

	cmp, err := a.Compare(b)
	require.NoError(t, err)
	assert.Negative(t, cmp)
}

func TestCompareFailsAcrossPatterns(t *testing.T) {
	p1 := twoPartPattern()
	p2 := version.NewPattern(".", []string{"1"})

	a := p1.First()
	b := p2.First()

	_, err := a.Compare(b)
	assert.ErrorIs(t, err, version.ErrIncomparable)
}

func TestFirstIsMinimumOfEachSegment(t *testing.T) {
	p := twoPartPattern()
	assert.Equal(t, "1.0", p.First().String())
}

func TestManualProviderReturnsConfiguredVersions(t *testing.T) {
	p := twoPartPattern()
	m := version.NewManual(p, "1.2", "2.3")

	defV, err := m.DefaultsVersion(nil)
	require.NoError(t, err)
	assert.Equal(t, "2.3", defV.String())

	docV, ok, err := m.DocumentVersion(nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1.2", docV.String())
}

func TestManualProviderDocumentVersionAbsent(t *testing.T) {
	p := twoPartPattern()
	m := version.NewManual(p, "", "2.3")

	_, ok, err := m.DocumentVersion(nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAutomaticProviderReadsFromDocument(t *testing.T) {
	p := twoPartPattern()
	r := route.FromSingleKey("schemaVersion")
	a := version.NewAutomatic(p, r)

	doc := tree.NewSection(route.ModeString)
	doc.Set(r, "1.3")

	v, ok, err := a.DocumentVersion(doc)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1.3", v.String())
}

func TestAutomaticProviderMissingDefaultsVersionFails(t *testing.T) {
	p := twoPartPattern()
	r := route.FromSingleKey("schemaVersion")
	a := version.NewAutomatic(p, r)

	defaults := tree.NewSection(route.ModeString)

	_, err := a.DefaultsVersion(defaults)
	assert.ErrorIs(t, err, version.ErrMissingDefaultsVersion)
}

func TestAutomaticProviderDocumentVersionAbsentIsNotError(t *testing.T) {
	p := twoPartPattern()
	r := route.FromSingleKey("schemaVersion")
	a := version.NewAutomatic(p, r)

	doc := tree.NewSection(route.ModeString)

	_, ok, err := a.DocumentVersion(doc)
	require.NoError(t, err)
	assert.False(t, ok)
}
