package route

// Map holds two lazily-allocated views over the same logical key space: a
// Route-keyed view (value type R) and a string-keyed view (value type S),
// materialized into one Route-keyed result on demand via [Map.Merge].
//
// Constructing a Map performs no allocation; the inner maps are created on
// first write. This mirrors the spec's "lazy dual containers" design note
// and the teacher's lazy-subscriber-list style in log.Publisher.
type Map[R any, S any] struct {
	byRoute  map[string]routeEntry[R]
	byString map[string]S
}

type routeEntry[R any] struct {
	route Route
	value R
}

// SetRoute stores v under the Route-keyed view at r.
func (m *Map[R, S]) SetRoute(r Route, v R) {
	if m.byRoute == nil {
		m.byRoute = make(map[string]routeEntry[R])
	}

	m.byRoute[r.hashKey()] = routeEntry[R]{route: r, value: v}
}

// SetString stores v under the string-keyed view at s.
func (m *Map[R, S]) SetString(s string, v S) {
	if m.byString == nil {
		m.byString = make(map[string]S)
	}

	m.byString[s] = v
}

// RouteLen reports how many entries are in the Route-keyed view.
func (m *Map[R, S]) RouteLen() int {
	return len(m.byRoute)
}

// StringLen reports how many entries are in the string-keyed view.
func (m *Map[R, S]) StringLen() int {
	return len(m.byString)
}

// Merge materializes a single result keyed by route hash: string entries
// are parsed with sep and converted with stringVal first, then Route
// entries (converted with routeVal) overwrite any equal key they produce.
// If both inner views are empty, Merge returns an empty, non-nil map.
func (m *Map[R, S]) Merge(sep string, routeVal func(R) any, stringVal func(S) any) map[string]MergedEntry {
	out := make(map[string]MergedEntry, len(m.byRoute)+len(m.byString))

	for s, v := range m.byString {
		r := FromString(s, sep)
		out[r.hashKey()] = MergedEntry{Route: r, Value: stringVal(v)}
	}

	for _, e := range m.byRoute {
		out[e.route.hashKey()] = MergedEntry{Route: e.route, Value: routeVal(e.value)}
	}

	return out
}

// Clone returns a copy of m whose inner views share no storage with m.
// Values are copied shallowly; the Routes themselves are immutable.
func (m *Map[R, S]) Clone() *Map[R, S] {
	cp := &Map[R, S]{}

	if m.byRoute != nil {
		cp.byRoute = make(map[string]routeEntry[R], len(m.byRoute))
		for k, v := range m.byRoute {
			cp.byRoute[k] = v
		}
	}

	if m.byString != nil {
		cp.byString = make(map[string]S, len(m.byString))
		for k, v := range m.byString {
			cp.byString[k] = v
		}
	}

	return cp
}

// MergedEntry is one entry of a [Map.Merge] result.
type MergedEntry struct {
	Route Route
	Value any
}

// Set is the route.Set described in the spec: a dual-view container of
// Routes only, with no associated value beyond membership.
type Set struct {
	m Map[struct{}, struct{}]
}

// AddRoute marks r as a member via the Route-keyed view.
func (s *Set) AddRoute(r Route) {
	s.m.SetRoute(r, struct{}{})
}

// AddString marks str as a member via the string-keyed view.
func (s *Set) AddString(str string) {
	s.m.SetString(str, struct{}{})
}

// Clone returns a copy of s whose inner views share no storage with s.
func (s *Set) Clone() Set {
	return Set{m: *s.m.Clone()}
}

// Merge materializes a single set of Routes, string entries parsed with sep.
// Route-keyed membership and string-keyed membership are indistinguishable
// once merged, since Set carries no value — only presence matters.
func (s *Set) Merge(sep string) map[string]Route {
	merged := s.m.Merge(sep, func(struct{}) any { return nil }, func(struct{}) any { return nil })

	out := make(map[string]Route, len(merged))
	for k, e := range merged {
		out[k] = e.Route
	}

	return out
}

// Contains reports whether r is present in the merged set using sep to
// parse string-keyed entries.
func (s *Set) Contains(r Route, sep string) bool {
	_, ok := s.Merge(sep)[r.hashKey()]

	return ok
}
