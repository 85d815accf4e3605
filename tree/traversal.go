package tree

import "go.branchpoint.dev/confupdate/route"

// Contains reports whether r resolves to a Block starting from s.
func (s *Section) Contains(r route.Route) bool {
	_, ok := s.GetBlockAt(r)

	return ok
}

// GetBlockAt resolves r against s and returns the Block found, if any.
func (s *Section) GetBlockAt(r route.Route) (Block, bool) {
	cur := s

	for i := 0; i < r.Length(); i++ {
		b, ok := cur.GetBlock(r.Get(i))
		if !ok {
			return nil, false
		}

		if i == r.Length()-1 {
			return b, true
		}

		sec, ok := b.(*Section)
		if !ok {
			return nil, false
		}

		cur = sec
	}

	return nil, false
}

// Get resolves r against s and returns the raw value at that route: the
// stored value for an Entry, or the *Section itself for a Section.
func (s *Section) Get(r route.Route) (any, bool) {
	b, ok := s.GetBlockAt(r)
	if !ok {
		return nil, false
	}

	if e, ok := b.(*Entry); ok {
		return e.Value, true
	}

	return b, true
}

// GetParentSection resolves the Section that would directly hold the
// Block at r, without requiring that Block to exist.
func (s *Section) GetParentSection(r route.Route) (*Section, bool) {
	if r.Length() <= 1 {
		return s, true
	}

	parentRoute, err := r.Parent()
	if err != nil {
		return s, true
	}

	b, ok := s.GetBlockAt(parentRoute)
	if !ok {
		return nil, false
	}

	sec, ok := b.(*Section)

	return sec, ok
}

// Set stores value at route r, creating intermediate sections as needed
// (inheriting comments from any block being overwritten at that segment).
// If value is a *Section, it is reattached (detached from its old parent,
// then attached here). If value is a map[string]any, it is converted to a
// Section in place. Otherwise value is wrapped in an *Entry, preserving any
// comments already present at r.
func (s *Section) Set(r route.Route, value any) {
	if r.Length() == 0 {
		return
	}

	cur := s

	for i := 0; i < r.Length()-1; i++ {
		key := r.Get(i)

		existing, ok := cur.GetBlock(key)
		if sec, isSec := existing.(*Section); ok && isSec {
			cur = sec

			continue
		}

		next := NewSection(cur.mode)
		if ok {
			*next.Comments() = *existing.Comments()
		}

		cur.SetChild(key, next)
		cur = next
	}

	lastKey := r.Get(r.Length() - 1)

	existing, _ := cur.GetBlock(lastKey)

	switch v := value.(type) {
	case *Section:
		cur.SetChild(lastKey, v)
	case map[string]any:
		sec := mapToSection(v, cur.mode)
		cur.SetChild(lastKey, sec)
	default:
		entry := NewEntry(value)
		if existing != nil {
			*entry.Comments() = *existing.Comments()
		}

		cur.SetChild(lastKey, entry)
	}
}

func mapToSection(m map[string]any, mode route.Mode) *Section {
	sec := NewSection(mode)

	for k, v := range m {
		switch vv := v.(type) {
		case map[string]any:
			sec.SetChild(k, mapToSection(vv, mode))
		default:
			sec.SetChild(k, NewEntry(vv))
		}
	}

	return sec
}

// Remove deletes the Block at r and reports whether one was present.
func (s *Section) Remove(r route.Route) bool {
	if r.Length() == 0 {
		return false
	}

	parent, ok := s.GetParentSection(r)
	if !ok {
		return false
	}

	return parent.RemoveChild(r.Last())
}

// CreateSection returns the Section already present at r, or creates empty
// Sections along the path and returns the terminal one. A pre-existing
// non-Section block along the path is replaced, with its comments migrated
// to the new Section at that position.
func (s *Section) CreateSection(r route.Route) *Section {
	cur := s

	for i := 0; i < r.Length(); i++ {
		key := r.Get(i)

		existing, ok := cur.GetBlock(key)
		if sec, isSec := existing.(*Section); ok && isSec {
			cur = sec

			continue
		}

		next := NewSection(cur.mode)
		if ok {
			*next.Comments() = *existing.Comments()
		}

		cur.SetChild(key, next)
		cur = next
	}

	return cur
}

// Routes returns the routes of every entry reachable from s. When deep is
// false, only direct children are returned (as length-1 routes relative to
// s); when true, traversal descends depth-first in insertion order and
// every leaf and every section's own route is included.
func (s *Section) Routes(deep bool) []route.Route {
	var out []route.Route

	s.walk(route.Route{}, deep, func(r route.Route, _ Block) {
		out = append(out, r)
	})

	return out
}

// RouteMappedValues returns a map from route to raw value (spec.md's
// Section.get semantics) for every block reachable from s.
func (s *Section) RouteMappedValues(deep bool) map[string]RouteValue {
	out := make(map[string]RouteValue)

	s.walk(route.Route{}, deep, func(r route.Route, b Block) {
		v, _ := s.Get(r)
		out[r.String()] = RouteValue{Route: r, Value: v, Block: b}
	})

	return out
}

// RouteValue pairs a route with the value (and underlying Block) found
// there, returned by [Section.RouteMappedValues].
type RouteValue struct {
	Route route.Route
	Value any
	Block Block
}

// StringKeyed reports whether s is safe for the *StringKeyed family of
// traversal helpers.
func (s *Section) StringKeyed() bool {
	return s.mode == route.ModeString
}

func (s *Section) walk(prefix route.Route, deep bool, visit func(route.Route, Block)) {
	for _, k := range s.order {
		b := s.children[k]

		r := prefix.Add(k)

		visit(r, b)

		if deep {
			if sec, ok := b.(*Section); ok {
				sec.walk(r, deep, visit)
			}
		}
	}
}
