package tree

import (
	"fmt"

	"go.branchpoint.dev/confupdate/route"
)

// Section is a Block whose payload is an ordered mapping from key to Block.
// Keys are stored in insertion order; re-inserting an existing key does not
// move it. In string key mode every key is coerced to a string at
// insertion; in object key mode the key is stored verbatim and must be a
// comparable Go value.
type Section struct {
	mode     route.Mode
	order    []any
	children map[any]Block

	// name is this section's key within its parent, or nil for the root.
	name any
	// parent is this section's enclosing Section, or nil for the root.
	parent *Section
	// root is the top-most Section reachable by following parent links, or
	// the section itself if it is the root.
	root *Section

	comments Comments

	// ForceKeep marks this section to survive a merge's keep/delete pass
	// even when the settings' keep-all flag is false, mirroring
	// [Entry.ForceKeep]. See the Merger's step 3.
	ForceKeep bool
}

// NewSection creates an empty, root Section in the given key mode.
func NewSection(mode route.Mode) *Section {
	s := &Section{mode: mode, children: make(map[any]Block)}
	s.root = s

	return s
}

// IsSection always returns true for a Section.
func (s *Section) IsSection() bool { return true }

// StoredValue returns a copy of the section's child map. Mutating the
// returned map does not affect s; the Blocks inside it are the live ones.
func (s *Section) StoredValue() any {
	cp := make(map[any]Block, len(s.children))
	for k, b := range s.children {
		cp[k] = b
	}

	return cp
}

// Comments returns the comment metadata attached to s's key in its parent.
func (s *Section) Comments() *Comments { return &s.comments }

// Mode reports whether s uses object or string keys.
func (s *Section) Mode() route.Mode { return s.mode }

// Name returns the key this section is stored under in its parent, or nil
// for the root section.
func (s *Section) Name() any { return s.name }

// Parent returns the enclosing Section, or nil for the root.
func (s *Section) Parent() *Section { return s.parent }

// Root returns the top-most Section reachable from s.
func (s *Section) Root() *Section { return s.root }

// Route returns the absolute route from the root to s, or the zero Route
// (length 0) if s is the root.
func (s *Section) Route() route.Route {
	if s.parent == nil {
		return route.Route{}
	}

	return s.parent.Route().Add(s.name)
}

// Keys returns the direct child keys of s, in insertion order.
func (s *Section) Keys() []any {
	cp := make([]any, len(s.order))
	copy(cp, s.order)

	return cp
}

// StringKeys returns the direct child keys of s as strings, in insertion
// order. It fails with [ErrKeyModeMismatch] when s is in object key mode.
func (s *Section) StringKeys() ([]string, error) {
	if s.mode != route.ModeString {
		return nil, ErrKeyModeMismatch
	}

	keys := make([]string, len(s.order))
	for i, k := range s.order {
		keys[i] = k.(string) //nolint:forcetypeassert // invariant: string mode stores string keys
	}

	return keys, nil
}

// Len returns the number of direct children of s.
func (s *Section) Len() int {
	return len(s.order)
}

func (s *Section) adaptKey(k any) any {
	if s.mode != route.ModeString {
		return k
	}

	if str, ok := k.(string); ok {
		return str
	}

	return fmt.Sprintf("%v", k)
}

// GetBlock returns the direct child Block at key, if any.
func (s *Section) GetBlock(key any) (Block, bool) {
	b, ok := s.children[s.adaptKey(key)]

	return b, ok
}

// Child is an alias for [Section.GetBlock], with the same results.
func (s *Section) Child(key any) (Block, bool) {
	return s.GetBlock(key)
}

// SetChild inserts or replaces the direct child at key with block. If a
// Section was previously attached at key and block is a different object,
// the old section's parent/root back-references are left untouched (it is
// the caller's responsibility to not keep using a detached section as if it
// were still attached). If block is a *Section, it is attached to s:
// detached from its previous parent first, then its subtree's parent/root
// pointers are fixed up.
func (s *Section) SetChild(key any, block Block) {
	k := s.adaptKey(key)

	if _, exists := s.children[k]; !exists {
		s.order = append(s.order, k)
	}

	if sec, ok := block.(*Section); ok {
		s.attach(k, sec)
	}

	s.children[k] = block
}

// attach detaches sec from its current parent (if any) and re-parents it
// under s at key, fixing up root/route pointers through the subtree.
func (s *Section) attach(key any, sec *Section) {
	if sec.parent != nil && sec.parent != s {
		sec.parent.removeChildRef(sec.name)
	}

	sec.name = key
	sec.parent = s
	sec.setRoot(s.root)
}

func (s *Section) removeChildRef(key any) {
	k := s.adaptKey(key)
	delete(s.children, k)

	for i, ok := range s.order {
		if ok == k {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Section) setRoot(root *Section) {
	s.root = root
	for _, k := range s.order {
		if child, ok := s.children[k].(*Section); ok {
			child.setRoot(root)
		}
	}
}

// RemoveChild deletes the direct child at key and returns whether one was
// present.
func (s *Section) RemoveChild(key any) bool {
	k := s.adaptKey(key)

	if _, ok := s.children[k]; !ok {
		return false
	}

	delete(s.children, k)

	for i, ok := range s.order {
		if ok == k {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	return true
}

// Reorder replaces s's key order with newOrder, which must be a
// permutation of s.Keys(); it does not add or remove children. Used by the
// merger's sort-by-defaults pass to move defaults-known keys to the front
// without touching the underlying children map.
func (s *Section) Reorder(newOrder []any) {
	s.order = append([]any(nil), newOrder...)
}

// Clear removes every direct child of s.
func (s *Section) Clear() {
	s.children = make(map[any]Block)
	s.order = nil
}

func (s *Section) clone() Block {
	cp := &Section{mode: s.mode, comments: s.comments, ForceKeep: s.ForceKeep, children: make(map[any]Block, len(s.children))}
	cp.root = cp
	cp.order = make([]any, len(s.order))
	copy(cp.order, s.order)

	for _, k := range s.order {
		child := s.children[k].clone()
		if childSec, ok := child.(*Section); ok {
			childSec.name = k
			childSec.parent = cp
			childSec.setRoot(cp)
		}

		cp.children[k] = child
	}

	return cp
}

// Clone returns a deep copy of s as a detached root section, sharing no
// mutable state with s.
func (s *Section) Clone() *Section {
	return s.clone().(*Section) //nolint:forcetypeassert // Section.clone always returns *Section
}
