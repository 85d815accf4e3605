package tree

import "go.branchpoint.dev/confupdate/route"

// ContainsString is [Section.Contains] for a separator-delimited string
// route, equivalent to parsing s into a Route with sep and calling
// [Section.Contains] with it.
func (s *Section) ContainsString(str, sep string) bool {
	return s.Contains(route.FromString(str, sep))
}

// GetByString is [Section.Get] for a separator-delimited string route.
func (s *Section) GetByString(str, sep string) (any, bool) {
	return s.Get(route.FromString(str, sep))
}

// SetByString is [Section.Set] for a separator-delimited string route.
func (s *Section) SetByString(str, sep string, value any) {
	s.Set(route.FromString(str, sep), value)
}

// RemoveByString is [Section.Remove] for a separator-delimited string route.
func (s *Section) RemoveByString(str, sep string) bool {
	return s.Remove(route.FromString(str, sep))
}

// RouteMappedBlocks returns a map from route to Block (spec.md's
// Section.getBlock semantics) for every block reachable from s.
func (s *Section) RouteMappedBlocks(deep bool) map[string]Block {
	out := make(map[string]Block)

	s.walk(route.Route{}, deep, func(r route.Route, b Block) {
		out[r.String()] = b
	})

	return out
}

// StringRouteMappedValues returns [Section.RouteMappedValues] keyed by the
// sep-joined string form of each route, for Sections in string key mode. It
// fails with [ErrKeyModeMismatch] otherwise.
func (s *Section) StringRouteMappedValues(deep bool, sep string) (map[string]any, error) {
	if !s.StringKeyed() {
		return nil, ErrKeyModeMismatch
	}

	out := make(map[string]any)

	var walkErr error

	s.walk(route.Route{}, deep, func(r route.Route, _ Block) {
		joined, err := r.Join(sep)
		if err != nil {
			walkErr = err

			return
		}

		v, _ := s.Get(r)
		out[joined] = v
	})

	if walkErr != nil {
		return nil, walkErr
	}

	return out, nil
}

// StringRouteMappedBlocks returns [Section.RouteMappedBlocks] keyed by the
// sep-joined string form of each route, for Sections in string key mode. It
// fails with [ErrKeyModeMismatch] otherwise.
func (s *Section) StringRouteMappedBlocks(deep bool, sep string) (map[string]Block, error) {
	if !s.StringKeyed() {
		return nil, ErrKeyModeMismatch
	}

	out := make(map[string]Block)

	var walkErr error

	s.walk(route.Route{}, deep, func(r route.Route, b Block) {
		joined, err := r.Join(sep)
		if err != nil {
			walkErr = err

			return
		}

		out[joined] = b
	})

	if walkErr != nil {
		return nil, walkErr
	}

	return out, nil
}

// StringKeyedRoutes returns [Section.Routes] rendered with [route.Route.Join]
// using sep, for Sections in string key mode. It fails with
// [ErrKeyModeMismatch] otherwise.
func (s *Section) StringKeyedRoutes(deep bool, sep string) ([]string, error) {
	if !s.StringKeyed() {
		return nil, ErrKeyModeMismatch
	}

	routes := s.Routes(deep)
	out := make([]string, len(routes))

	for i, r := range routes {
		joined, err := r.Join(sep)
		if err != nil {
			return nil, err
		}

		out[i] = joined
	}

	return out, nil
}
