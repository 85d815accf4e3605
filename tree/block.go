// Package tree implements the Block/Section data model a confupdate
// document is built from: a tagged variant of Section (an ordered map of
// Blocks) and Entry (a single raw value), each carrying optional comment
// metadata that migrates with the block when it is moved.
//
// Sections keep back-references to their parent and root, fixed up
// whenever a block is attached or re-parented, so callers can resolve the
// absolute route of any block reachable from a root they hold.
package tree

import "errors"

// Sentinel errors returned by tree operations.
var (
	// ErrKeyModeMismatch is returned by string-keyed traversal methods when
	// the section is in object key mode.
	ErrKeyModeMismatch = errors.New("tree: string-keyed operation on object-mode section")
)

// Comments holds the comment metadata attached to a key: head comments
// (lines preceding the key), an inline comment on the same line, and a
// trailing foot comment. This triad mirrors the head/line/foot comment
// groups goccy/go-yaml's ast package attaches to nodes, so yamldoc can move
// them across without a lossy intermediate representation.
type Comments struct {
	Head string
	Line string
	Foot string
}

// IsEmpty reports whether c carries no comment text at all.
func (c Comments) IsEmpty() bool {
	return c.Head == "" && c.Line == "" && c.Foot == ""
}

// Block is the tagged variant every node in a Section tree satisfies:
// either a *Section (an ordered map of further Blocks) or an *Entry (a
// single raw value). Dispatch is by type assertion, not by a method that
// distinguishes the cases, matching the "sum types over inheritance"
// design the rest of this module follows.
type Block interface {
	// IsSection reports whether this block is a *Section.
	IsSection() bool
	// StoredValue returns the block's payload: the raw value for an *Entry,
	// a copy of the child map for a *Section.
	StoredValue() any
	// Comments returns the comment metadata attached to this block's key.
	Comments() *Comments
	// clone returns a deep copy of the block sharing no mutable state with
	// the receiver. A cloned Section is a detached root (no parent, its own
	// root); the caller attaches the clone at its destination.
	clone() Block
}

// Entry is a leaf Block: a single raw value of arbitrary dynamic type.
// Legal dynamic value types are nil, bool, any of Go's numeric types,
// *big.Int, string, []any, and map[string]any (callers holding raw maps
// should instead use [NewSection] so the map becomes a real Section).
type Entry struct {
	Value any
	// ForceKeep marks this entry to survive a merge's keep/delete pass even
	// when the settings' keep-all flag is false. See the Merger's step 3.
	ForceKeep bool

	comments Comments
}

// NewEntry wraps value in an Entry with no comments.
func NewEntry(value any) *Entry {
	return &Entry{Value: value}
}

// IsSection always returns false for an Entry.
func (e *Entry) IsSection() bool { return false }

// StoredValue returns the entry's raw value.
func (e *Entry) StoredValue() any { return e.Value }

// Comments returns the comment metadata attached to e.
func (e *Entry) Comments() *Comments { return &e.comments }

func (e *Entry) clone() Block {
	return e.Clone()
}

// Clone returns a deep copy of e sharing no mutable state with the
// original.
func (e *Entry) Clone() *Entry {
	return &Entry{Value: cloneValue(e.Value), ForceKeep: e.ForceKeep, comments: e.comments}
}

// cloneValue deep-copies a raw Entry value so no slice/map backing array is
// shared between the original and the clone.
func cloneValue(v any) any {
	switch x := v.(type) {
	case []any:
		cp := make([]any, len(x))
		for i, e := range x {
			cp[i] = cloneValue(e)
		}

		return cp
	case map[string]any:
		cp := make(map[string]any, len(x))
		for k, e := range x {
			cp[k] = cloneValue(e)
		}

		return cp
	default:
		return x
	}
}
