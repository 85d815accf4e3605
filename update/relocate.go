package update

import (
	"go.branchpoint.dev/confupdate/route"
	"go.branchpoint.dev/confupdate/tree"
)

// relocation is one from→to pair pending application within a version
// step, tracked by the hash of its "from" route so cycles through a chain
// of relocations can be detected and terminated.
type relocation struct {
	from route.Route
	to   route.Route
}

// Relocate applies every from→to pair in relocations against doc, in the
// tie-break order the spec mandates: entries are first merged (string
// entries, then route entries overriding on collision), then applied in
// ascending order of the "from" route's hash so that two relocations in one
// version targeting the same "to" resolve the same way on every run.
func Relocate(doc *tree.Section, relocations *route.Map[route.Route, route.Route], sep string) {
	if relocations == nil {
		return
	}

	merged := relocations.Merge(sep,
		func(v route.Route) any { return v },
		func(v route.Route) any { return v })

	byFromHash := make(map[string]relocation, len(merged))

	for hash, entry := range merged {
		to, ok := entry.Value.(route.Route)
		if !ok {
			continue
		}

		byFromHash[hash] = relocation{from: entry.Route, to: to}
	}

	order := sortedHashKeys(byFromHash)

	applied := make(map[string]bool, len(byFromHash))
	createdByRelocation := make(map[*tree.Section]bool)

	for _, hash := range order {
		applyRelocation(doc, hash, byFromHash, applied, createdByRelocation)
	}
}

func applyRelocation(
	doc *tree.Section,
	fromHash string,
	byFromHash map[string]relocation,
	applied map[string]bool,
	createdByRelocation map[*tree.Section]bool,
) {
	if applied[fromHash] {
		return
	}

	reloc, ok := byFromHash[fromHash]
	if !ok {
		return
	}

	applied[fromHash] = true

	block, ok := doc.GetBlockAt(reloc.from)
	if !ok {
		return
	}

	// If another pending relocation's source is our destination, free that
	// slot first by relocating it out of the way; depth-first so chains of
	// any length resolve, and marking-as-applied above guarantees this
	// recursion terminates even in a cycle. Sorted so that if more than one
	// pending relocation's source somehow collides on the same destination,
	// which one runs first is deterministic.
	for _, hash := range sortedHashKeys(byFromHash) {
		other := byFromHash[hash]
		if !applied[hash] && other.from.Equal(reloc.to) {
			applyRelocation(doc, hash, byFromHash, applied, createdByRelocation)
		}
	}

	parent, ok := doc.GetParentSection(reloc.from)
	if ok && parent != nil {
		parent.RemoveChild(reloc.from.Last())
		pruneIfEmptyAndCreated(parent, createdByRelocation)
	}

	destParent := sectionFor(doc, reloc.to, createdByRelocation)
	destParent.SetChild(reloc.to.Last(), block)
}

// sectionFor returns the Section that should directly hold to's last key,
// creating intermediate sections as needed and recording any it creates.
func sectionFor(doc *tree.Section, to route.Route, createdByRelocation map[*tree.Section]bool) *tree.Section {
	if to.Length() <= 1 {
		return doc
	}

	parentRoute, err := to.Parent()
	if err != nil {
		return doc
	}

	cur := doc

	for i := 0; i < parentRoute.Length(); i++ {
		key := parentRoute.Get(i)

		existing, ok := cur.GetBlock(key)
		if sec, isSec := existing.(*tree.Section); ok && isSec {
			cur = sec

			continue
		}

		next := tree.NewSection(cur.Mode())
		createdByRelocation[next] = true
		cur.SetChild(key, next)
		cur = next
	}

	return cur
}

// pruneIfEmptyAndCreated removes sec from its parent if sec is now empty
// and was itself created during this relocation pass; a section that was
// already present before relocation started is left alone even if it ends
// up empty.
func pruneIfEmptyAndCreated(sec *tree.Section, createdByRelocation map[*tree.Section]bool) {
	if sec.Len() != 0 || !createdByRelocation[sec] {
		return
	}

	parent := sec.Parent()
	if parent == nil {
		return
	}

	parent.RemoveChild(sec.Name())
	delete(createdByRelocation, sec)
	pruneIfEmptyAndCreated(parent, createdByRelocation)
}
