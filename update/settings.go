package update

import (
	"go.branchpoint.dev/confupdate/route"
	"go.branchpoint.dev/confupdate/tree"
	"go.branchpoint.dev/confupdate/version"
)

// MergeRule names the classification of a (user, defaults) key pair the
// merger consults when the two sides are not both sections. True means
// preserve the user's block; false means replace it with a deep clone of
// the defaults block.
type MergeRule int

const (
	// RuleMappings applies when neither side is a section.
	RuleMappings MergeRule = iota
	// RuleMappingAtSection applies when the user's block is a plain value
	// but the defaults' block at the same key is a section.
	RuleMappingAtSection
	// RuleSectionAtMapping applies when the user's block is a section but
	// the defaults' block at the same key is a plain value.
	RuleSectionAtMapping
)

// Sorting selects how the merger orders the user document's keys once
// merging completes.
type Sorting int

const (
	// SortByDefaults reorders keys present in defaults to defaults-order,
	// followed by any retained leftover keys in their original order.
	SortByDefaults Sorting = iota
	// SortNone leaves key order exactly as the merge produced it.
	SortNone
)

// Settings is an immutable snapshot of update pipeline configuration,
// built with [NewSettingsBuilder]. The zero Settings is not valid; always
// obtain one through the builder so defaults are applied consistently.
type Settings struct {
	autoSave        bool
	enableDowngrade bool
	keepAll         bool
	sorting         Sorting
	mergeRules      map[MergeRule]bool
	versioning      version.Provider
	ignored         map[string]route.Set
	relocations     map[string]*route.Map[route.Route, route.Route]
	mappers         map[string]*route.Map[ValueMapper, ValueMapper]
	mutators        map[string][]Mutator
}

// Mutator arbitrarily restructures a document during a version step. It
// runs last within that step, after relocations and value mappers.
type Mutator func(doc *tree.Section) error

// AutoSave reports whether the orchestrator's caller should persist the
// document after a successful run.
func (s *Settings) AutoSave() bool { return s.autoSave }

// DowngradeAllowed reports whether a document whose version is newer than
// the defaults' version should be merged anyway rather than rejected.
func (s *Settings) DowngradeAllowed() bool { return s.enableDowngrade }

// KeepAll reports whether keys present only in the user document (and not
// force-kept individually) are retained rather than pruned.
func (s *Settings) KeepAll() bool { return s.keepAll }

// Sorting reports the key-ordering policy applied after merge.
func (s *Settings) Sorting() Sorting { return s.sorting }

// MergeRule reports the configured rule for the given classification.
func (s *Settings) MergeRule(rule MergeRule) bool {
	return s.mergeRules[rule]
}

// Versioning returns the configured version provider, or nil if the
// pipeline should skip the versioned steps entirely.
func (s *Settings) Versioning() version.Provider { return s.versioning }

// IgnoredRoutes returns the ignore-set view merged for the given document
// version id.
func (s *Settings) IgnoredRoutes(versionID string) route.Set {
	set, ok := s.ignored[versionID]
	if !ok {
		return route.Set{}
	}

	return set
}

// Relocations returns the from-to relocation view for the given version id.
func (s *Settings) Relocations(versionID string) *route.Map[route.Route, route.Route] {
	return s.relocations[versionID]
}

// Mappers returns the route-to-mapper view for the given version id.
func (s *Settings) Mappers(versionID string) *route.Map[ValueMapper, ValueMapper] {
	return s.mappers[versionID]
}

// Mutators returns the mutators registered for the given version id, in
// insertion order.
func (s *Settings) Mutators(versionID string) []Mutator {
	return s.mutators[versionID]
}

// SettingsBuilder assembles a [Settings] snapshot with chained calls. Each
// Add* call is cumulative: calling it twice for the same version id
// accumulates entries rather than replacing the previous call's.
type SettingsBuilder struct {
	s *Settings
}

// NewSettingsBuilder returns a builder seeded with the spec's defaults:
// auto-save enabled, downgrading allowed, keep-all disabled, sort-by-
// defaults, and the standard merge rule table (MAPPINGS preserves the
// user, the two mixed classifications replace with defaults).
func NewSettingsBuilder() *SettingsBuilder {
	return &SettingsBuilder{s: &Settings{
		autoSave:        true,
		enableDowngrade: true,
		sorting:         SortByDefaults,
		mergeRules: map[MergeRule]bool{
			RuleMappings:         true,
			RuleMappingAtSection: false,
			RuleSectionAtMapping: false,
		},
	}}
}

// WithAutoSave sets the auto-save flag.
func (b *SettingsBuilder) WithAutoSave(v bool) *SettingsBuilder {
	b.s.autoSave = v

	return b
}

// WithDowngrading sets whether a document newer than the defaults is
// merged anyway instead of rejected.
func (b *SettingsBuilder) WithDowngrading(v bool) *SettingsBuilder {
	b.s.enableDowngrade = v

	return b
}

// WithKeepAll sets whether user-only keys are retained unconditionally.
func (b *SettingsBuilder) WithKeepAll(v bool) *SettingsBuilder {
	b.s.keepAll = v

	return b
}

// WithSorting sets the post-merge key ordering policy.
func (b *SettingsBuilder) WithSorting(v Sorting) *SettingsBuilder {
	b.s.sorting = v

	return b
}

// WithMergeRule overrides the rule for one classification.
func (b *SettingsBuilder) WithMergeRule(rule MergeRule, preserveUser bool) *SettingsBuilder {
	b.s.mergeRules[rule] = preserveUser

	return b
}

// WithVersioning sets the version provider driving the relocate/map/mutate
// steps. A nil provider (the default) skips those steps entirely.
func (b *SettingsBuilder) WithVersioning(p version.Provider) *SettingsBuilder {
	b.s.versioning = p

	return b
}

// AddIgnoredRoute adds r to the ignore set for versionID: a route whose
// subtree the merger leaves untouched, neither replaced nor pruned.
func (b *SettingsBuilder) AddIgnoredRoute(versionID string, r route.Route) *SettingsBuilder {
	if b.s.ignored == nil {
		b.s.ignored = make(map[string]route.Set)
	}

	set := b.s.ignored[versionID]
	set.AddRoute(r)
	b.s.ignored[versionID] = set

	return b
}

// AddRelocation registers a from-to relocation for versionID.
func (b *SettingsBuilder) AddRelocation(versionID string, from, to route.Route) *SettingsBuilder {
	if b.s.relocations == nil {
		b.s.relocations = make(map[string]*route.Map[route.Route, route.Route])
	}

	m, ok := b.s.relocations[versionID]
	if !ok {
		m = &route.Map[route.Route, route.Route]{}
		b.s.relocations[versionID] = m
	}

	m.SetRoute(from, to)

	return b
}

// AddMapper registers a value mapper at route r for versionID.
func (b *SettingsBuilder) AddMapper(versionID string, r route.Route, mapper ValueMapper) *SettingsBuilder {
	if b.s.mappers == nil {
		b.s.mappers = make(map[string]*route.Map[ValueMapper, ValueMapper])
	}

	m, ok := b.s.mappers[versionID]
	if !ok {
		m = &route.Map[ValueMapper, ValueMapper]{}
		b.s.mappers[versionID] = m
	}

	m.SetRoute(r, mapper)

	return b
}

// AddMutator appends a custom mutator for versionID, to run after all
// relocations and value mappers for that version.
func (b *SettingsBuilder) AddMutator(versionID string, m Mutator) *SettingsBuilder {
	if b.s.mutators == nil {
		b.s.mutators = make(map[string][]Mutator)
	}

	b.s.mutators[versionID] = append(b.s.mutators[versionID], m)

	return b
}

// Build returns the immutable [Settings] snapshot assembled so far. The
// builder may continue to be used after Build; later calls do not mutate
// snapshots already handed out, since Build deep-clones the accumulated
// per-version containers along with the outer maps.
func (b *SettingsBuilder) Build() *Settings {
	cp := *b.s
	cp.mergeRules = cloneMap(b.s.mergeRules)
	cp.ignored = cloneSetMap(b.s.ignored)
	cp.relocations = cloneRouteMapMap(b.s.relocations)
	cp.mappers = cloneRouteMapMap(b.s.mappers)
	cp.mutators = cloneSliceMap(b.s.mutators)

	return &cp
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}

	cp := make(map[K]V, len(m))
	for k, v := range m {
		cp[k] = v
	}

	return cp
}

// cloneSetMap deep-clones each route.Set: the Set values hold inner maps
// that [route.Set.AddRoute] and [route.Set.AddString] mutate through the
// builder, so a shallow copy of the outer map would leave issued snapshots
// sharing storage with the builder.
func cloneSetMap(m map[string]route.Set) map[string]route.Set {
	if m == nil {
		return nil
	}

	cp := make(map[string]route.Set, len(m))
	for k, v := range m {
		cp[k] = v.Clone()
	}

	return cp
}

// cloneRouteMapMap deep-clones each *route.Map, for the same reason as
// cloneSetMap: copying the pointers verbatim would let later Add* calls on
// the builder mutate snapshots already handed out.
func cloneRouteMapMap[R any, S any](m map[string]*route.Map[R, S]) map[string]*route.Map[R, S] {
	if m == nil {
		return nil
	}

	cp := make(map[string]*route.Map[R, S], len(m))
	for k, v := range m {
		cp[k] = v.Clone()
	}

	return cp
}

func cloneSliceMap[K comparable, V any](m map[K][]V) map[K][]V {
	if m == nil {
		return nil
	}

	cp := make(map[K][]V, len(m))
	for k, v := range m {
		cp[k] = append([]V(nil), v...)
	}

	return cp
}
