package update

import (
	"go.branchpoint.dev/confupdate/route"
	"go.branchpoint.dev/confupdate/tree"
)

// ValueMapper transforms the value found at a route during a version step.
// Callers normally construct one via [MapperFunc], [BlockMapperFunc], or
// [SectionMapperFunc] rather than implementing the interface directly.
type ValueMapper interface {
	// Apply is invoked with the section and route the mapper was
	// registered under and the block currently found there, and returns
	// the replacement raw value.
	Apply(doc *tree.Section, r route.Route, block tree.Block) any
}

// MapperFunc adapts a raw-value transform to [ValueMapper]: the shallowest
// of the three flavors, seeing neither the route nor the enclosing block.
type MapperFunc func(value any) any

// Apply implements [ValueMapper] by unwrapping block to its raw value (nil
// for a Section) and delegating to f.
func (f MapperFunc) Apply(_ *tree.Section, _ route.Route, block tree.Block) any {
	return f(blockValue(block))
}

// BlockMapperFunc adapts a Block-aware transform to [ValueMapper], useful
// when the mapper needs to inspect comments or section-ness but not the
// mapper's own location in the document.
type BlockMapperFunc func(block tree.Block) any

// Apply implements [ValueMapper] by delegating to f with block.
func (f BlockMapperFunc) Apply(_ *tree.Section, _ route.Route, block tree.Block) any {
	return f(block)
}

// SectionMapperFunc adapts the deepest flavor to [ValueMapper]: the mapper
// receives the whole document and its own route, for transforms that need
// to read sibling state to compute a replacement.
type SectionMapperFunc func(doc *tree.Section, r route.Route) any

// Apply implements [ValueMapper] by delegating to f with doc and r,
// ignoring block.
func (f SectionMapperFunc) Apply(doc *tree.Section, r route.Route, _ tree.Block) any {
	return f(doc, r)
}

func blockValue(block tree.Block) any {
	if e, ok := block.(*tree.Entry); ok {
		return e.Value
	}

	return nil
}

// ApplyMappers runs every mapper in m against doc: for each (route, mapper)
// pair, if the block at route exists its raw value is replaced with the
// mapper's result (seen as the stored value, not the Block wrapper);
// mappers targeting an absent route are skipped. Applied in ascending order
// of route hash, per the spec's ordering guarantee (d), rather than the
// underlying map's randomized iteration order, so that a mapper touching a
// sibling or parent route always runs in the same relative order run to run.
func ApplyMappers(doc *tree.Section, m *route.Map[ValueMapper, ValueMapper], sep string) {
	if m == nil {
		return
	}

	merged := m.Merge(sep,
		func(v ValueMapper) any { return v },
		func(v ValueMapper) any { return v })

	for _, hash := range sortedHashKeys(merged) {
		entry := merged[hash]

		block, ok := doc.GetBlockAt(entry.Route)
		if !ok {
			continue
		}

		mapper, ok := entry.Value.(ValueMapper)
		if !ok {
			continue
		}

		doc.Set(entry.Route, mapper.Apply(doc, entry.Route, block))
	}
}

// ApplyMutators runs each mutator in ms against doc in order, returning the
// first error encountered (aborting the remaining mutators, per the spec's
// no-partial-recovery failure semantics).
func ApplyMutators(doc *tree.Section, ms []Mutator) error {
	for _, m := range ms {
		if err := m(doc); err != nil {
			return err
		}
	}

	return nil
}
