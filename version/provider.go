package version

import (
	"errors"
	"fmt"

	"go.branchpoint.dev/confupdate/route"
	"go.branchpoint.dev/confupdate/tree"
)

// ErrMissingDefaultsVersion is returned by [Provider.DefaultsVersion] when
// the defaults document carries no version identifier, or one the pattern
// cannot parse. Defaults must always carry a version; a document missing
// one is a configuration error, not a versionless document.
var ErrMissingDefaultsVersion = errors.New("version: defaults document has no valid version")

// Provider resolves version identifiers out of a document pair. It is the
// one piece of the update pipeline a caller must supply, since how a
// version is recorded in a document is entirely caller-defined.
type Provider interface {
	// DefaultsVersion returns the version recorded in defaults, failing
	// with [ErrMissingDefaultsVersion] if absent or malformed.
	DefaultsVersion(defaults *tree.Section) (Version, error)
	// DocumentVersion returns the version recorded in doc, or ok=false if
	// doc carries none; the orchestrator substitutes the pattern's first
	// version in that case.
	DocumentVersion(doc *tree.Section) (v Version, ok bool, err error)
}

// Manual is a Provider holding explicit, fixed version identifiers for both
// the document and the defaults, read once at construction rather than
// looked up in the trees at update time.
type Manual struct {
	pattern    *Pattern
	defVersion Version
	docVersion Version
	docKnown   bool
}

// NewManual builds a Manual provider. defID must parse against pattern;
// NewManual panics if it does not, since a Manual provider's whole point is
// to supply a version known valid ahead of time. docID may be empty, in
// which case DocumentVersion reports ok=false.
func NewManual(pattern *Pattern, docID, defID string) *Manual {
	defV, err := pattern.Parse(defID)
	if err != nil {
		panic(fmt.Sprintf("version: NewManual: defaults version %q: %v", defID, err))
	}

	m := &Manual{pattern: pattern, defVersion: defV}

	if docID != "" {
		docV, err := pattern.Parse(docID)
		if err == nil {
			m.docVersion = docV
			m.docKnown = true
		}
	}

	return m
}

// DefaultsVersion returns the version id supplied at construction.
func (m *Manual) DefaultsVersion(_ *tree.Section) (Version, error) {
	return m.defVersion, nil
}

// DocumentVersion returns the document version id supplied at
// construction, if any.
func (m *Manual) DocumentVersion(_ *tree.Section) (Version, bool, error) {
	return m.docVersion, m.docKnown, nil
}

// Automatic is a Provider that reads the version identifier out of a
// fixed route within whichever document it is asked about.
type Automatic struct {
	pattern *Pattern
	route   route.Route
}

// NewAutomatic builds an Automatic provider that resolves version
// identifiers by reading a string value at r from whichever document it is
// given.
func NewAutomatic(pattern *Pattern, r route.Route) *Automatic {
	return &Automatic{pattern: pattern, route: r}
}

// DefaultsVersion reads the version string at the configured route from
// defaults, failing with [ErrMissingDefaultsVersion] if absent or
// unparseable.
func (a *Automatic) DefaultsVersion(defaults *tree.Section) (Version, error) {
	raw, ok := defaults.GetString(a.route)
	if !ok {
		return Version{}, ErrMissingDefaultsVersion
	}

	v, err := a.pattern.Parse(raw)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %w", ErrMissingDefaultsVersion, err)
	}

	return v, nil
}

// DocumentVersion reads the version string at the configured route from
// doc. It reports ok=false (never an error) when the route is absent or
// the value fails to parse, leaving the orchestrator to substitute the
// pattern's first version.
func (a *Automatic) DocumentVersion(doc *tree.Section) (Version, bool, error) {
	raw, ok := doc.GetString(a.route)
	if !ok {
		return Version{}, false, nil
	}

	v, err := a.pattern.Parse(raw)
	if err != nil {
		return Version{}, false, nil
	}

	return v, true, nil
}
