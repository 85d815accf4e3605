// Package version implements ordered, pattern-defined version identifiers
// for confupdate documents: a Pattern describes the alphabet available at
// each segment position, and a Version is a cursor of segment indices into
// that pattern, comparable and steppable within it.
package version

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is returned by [Pattern.Parse] when an identifier does not
// split cleanly into segments each present in the pattern's alphabet at
// that position.
var ErrMalformed = errors.New("version: identifier does not match pattern")

// ErrIncomparable is returned by [Version.Compare] when the two versions
// were not produced by the same Pattern.
var ErrIncomparable = errors.New("version: versions belong to different patterns")

// Pattern describes a version identifier format as an ordered list of
// segments, each a small alphabet of allowed values at that position (for
// example [][]string{{"1","2"}, {"0","1","2","3"}} for two-part "major.minor"
// identifiers where major is "1" or "2").
type Pattern struct {
	Segments [][]string
	Sep      string
}

// NewPattern builds a Pattern from its ordered segment alphabets, joined
// with sep when rendering or parsing identifiers.
func NewPattern(sep string, segments ...[]string) *Pattern {
	cp := make([][]string, len(segments))
	for i, seg := range segments {
		cp[i] = append([]string(nil), seg...)
	}

	return &Pattern{Segments: cp, Sep: sep}
}

// First returns the Version at the first element of every segment's
// alphabet: the pattern's minimum.
func (p *Pattern) First() Version {
	return Version{pattern: p, indices: make([]int, len(p.Segments))}
}

// Parse splits id on the pattern's separator and resolves each piece
// against the corresponding segment alphabet, failing with [ErrMalformed]
// on arity mismatch or an unrecognized piece.
func (p *Pattern) Parse(id string) (Version, error) {
	parts := strings.Split(id, p.Sep)
	if len(parts) != len(p.Segments) {
		return Version{}, fmt.Errorf("%w: %q has %d segments, pattern wants %d", ErrMalformed, id, len(parts), len(p.Segments))
	}

	indices := make([]int, len(parts))

	for i, part := range parts {
		idx := indexOf(p.Segments[i], part)
		if idx < 0 {
			return Version{}, fmt.Errorf("%w: segment %d value %q not in pattern alphabet", ErrMalformed, i, part)
		}

		indices[i] = idx
	}

	return Version{pattern: p, indices: indices}, nil
}

func indexOf(alphabet []string, v string) int {
	for i, a := range alphabet {
		if a == v {
			return i
		}
	}

	return -1
}

// Version is a cursor of segment indices into the Pattern that produced
// it. The zero Version is not valid on its own; obtain one from
// [Pattern.First] or [Pattern.Parse].
type Version struct {
	pattern   *Pattern
	indices   []int
	saturated bool
}

// Pattern returns the Pattern v was created from.
func (v Version) Pattern() *Pattern { return v.pattern }

// String renders v by joining its segment values with the pattern's
// separator. A saturated (beyond-last) version renders as "<beyond>".
func (v Version) String() string {
	if v.saturated {
		return "<beyond>"
	}

	parts := make([]string, len(v.indices))
	for i, idx := range v.indices {
		parts[i] = v.pattern.Segments[i][idx]
	}

	return strings.Join(parts, v.pattern.Sep)
}

// Next advances v by one step: the rightmost segment advances within its
// alphabet; when it would run past the alphabet's end, it wraps to index 0
// and the carry propagates left. If the carry overflows past the leftmost
// segment, Next returns a saturated version that compares greater than any
// valid version of the same pattern.
func (v Version) Next() Version {
	if v.saturated {
		return v
	}

	next := append([]int(nil), v.indices...)

	carry := true
	for i := len(next) - 1; i >= 0 && carry; i-- {
		next[i]++

		if next[i] >= len(v.pattern.Segments[i]) {
			next[i] = 0

			continue
		}

		carry = false
	}

	if carry {
		return Version{pattern: v.pattern, saturated: true}
	}

	return Version{pattern: v.pattern, indices: next}
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater than
// other, comparing segment indices left to right. It fails with
// [ErrIncomparable] if v and other were not produced by the same Pattern. A
// saturated version compares greater than any non-saturated version of the
// same pattern, and equal to another saturated version.
func (v Version) Compare(other Version) (int, error) {
	if v.pattern != other.pattern {
		return 0, ErrIncomparable
	}

	if v.saturated || other.saturated {
		switch {
		case v.saturated && other.saturated:
			return 0, nil
		case v.saturated:
			return 1, nil
		default:
			return -1, nil
		}
	}

	for i := range v.indices {
		if v.indices[i] != other.indices[i] {
			if v.indices[i] < other.indices[i] {
				return -1, nil
			}

			return 1, nil
		}
	}

	return 0, nil
}
