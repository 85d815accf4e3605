// Package route implements the addressing scheme used to locate entries
// inside a [go.branchpoint.dev/confupdate/tree] Section tree.
//
// A [Route] is an ordered, immutable sequence of keys. In object-key mode a
// key may be any comparable value; in string-key mode every key is a string,
// and routes can be built from a separator-delimited string via
// [FromString] or a [Factory]. A Route holds a slice and so cannot be a Go
// map key itself; [Map] and [Set] index routes by a structural string key
// instead.
package route

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors returned by Route operations.
var (
	// ErrTooShort is returned by [Route.Parent] when the route has length 1
	// or less. Section operations given a zero-length route report absence
	// instead of returning it.
	ErrTooShort = errors.New("route: too short")
	// ErrNonStringKey is returned by [Route.Join] when the route contains a
	// key that is not a string.
	ErrNonStringKey = errors.New("route: non-string key")
)

// Mode tags whether a [Route]'s keys are arbitrary values or strings.
type Mode int

const (
	// ModeObject routes store arbitrary comparable keys.
	ModeObject Mode = iota
	// ModeString routes store only string keys.
	ModeString
)

// Route is an ordered, non-empty, immutable sequence of keys addressing a
// node in a Section tree. Two routes are equal iff they have the same
// length and pairwise-equal keys.
type Route struct {
	keys []any
	mode Mode
}

// New builds an object-mode Route from one or more keys.
func New(keys ...any) Route {
	if len(keys) == 0 {
		return Route{}
	}

	cp := make([]any, len(keys))
	copy(cp, keys)

	return Route{keys: cp, mode: ModeObject}
}

// FromSingleKey builds a one-element object-mode Route.
func FromSingleKey(k any) Route {
	return Route{keys: []any{k}, mode: ModeObject}
}

// FromString splits s on sep and builds a string-mode Route.
//
// An empty s yields a single-key route [""], not a zero-length route. A
// separator immediately following another separator yields an empty-string
// key between them. There is no escape mechanism here: callers who need a
// literal separator character in a key must build the Route with [New]
// instead.
func FromString(s string, sep string) Route {
	parts := strings.Split(s, sep)
	keys := make([]any, len(parts))

	for i, p := range parts {
		keys[i] = p
	}

	return Route{keys: keys, mode: ModeString}
}

// Length returns the number of keys in r.
func (r Route) Length() int {
	return len(r.keys)
}

// Mode reports whether r stores object keys or string keys.
func (r Route) Mode() Mode {
	return r.mode
}

// Get returns the key at position i.
func (r Route) Get(i int) any {
	return r.keys[i]
}

// Keys returns a copy of the route's key sequence.
func (r Route) Keys() []any {
	cp := make([]any, len(r.keys))
	copy(cp, r.keys)

	return cp
}

// Last returns the final key in the route.
func (r Route) Last() any {
	return r.keys[len(r.keys)-1]
}

// Parent returns the route without its last element. It fails with
// [ErrTooShort] when r has length 1 or less.
func (r Route) Parent() (Route, error) {
	if len(r.keys) <= 1 {
		return Route{}, ErrTooShort
	}

	cp := make([]any, len(r.keys)-1)
	copy(cp, r.keys[:len(r.keys)-1])

	return Route{keys: cp, mode: r.mode}, nil
}

// Add returns a new route extending r by one key.
func (r Route) Add(k any) Route {
	cp := make([]any, len(r.keys)+1)
	copy(cp, r.keys)
	cp[len(cp)-1] = k

	return Route{keys: cp, mode: r.mode}
}

// Join renders the route as a sep-delimited string. It fails with
// [ErrNonStringKey] if any key is not a string.
func (r Route) Join(sep string) (string, error) {
	parts := make([]string, len(r.keys))

	for i, k := range r.keys {
		s, ok := k.(string)
		if !ok {
			return "", ErrNonStringKey
		}

		parts[i] = s
	}

	return strings.Join(parts, sep), nil
}

// Equal reports whether r and other address the same node: same length,
// pairwise-equal keys.
func (r Route) Equal(other Route) bool {
	if len(r.keys) != len(other.keys) {
		return false
	}

	for i := range r.keys {
		if r.keys[i] != other.keys[i] {
			return false
		}
	}

	return true
}

// String returns a debug representation of the route, not suitable for
// round-tripping through [FromString] when keys contain the separator.
func (r Route) String() string {
	var b strings.Builder

	b.WriteByte('[')

	for i, k := range r.keys {
		if i > 0 {
			b.WriteByte(',')
		}

		if s, ok := k.(string); ok {
			b.WriteString(strconv.Quote(s))
		} else {
			fmt.Fprintf(&b, "%v", k)
		}
	}

	b.WriteByte(']')

	return b.String()
}

// hashKey is the structural key used by [Map] and [Set] to index routes in
// a plain Go map without requiring Route's fields to be map-key-safe on
// their own (a slice field is not comparable). Each key is tagged with its
// dynamic type so that, e.g., the string "1" and the int 1 never collide.
func (r Route) hashKey() string {
	var b strings.Builder

	for _, k := range r.keys {
		fmt.Fprintf(&b, "%T\x00%v\x01", k, k)
	}

	return b.String()
}
