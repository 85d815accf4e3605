package update

import "sort"

// sortedHashKeys returns the keys of m sorted lexically. Both Relocate and
// ApplyMappers iterate a map keyed by route hash; Go's randomized map
// iteration order would otherwise make collision tie-breaks (two
// relocations targeting the same destination, two mappers touching
// overlapping routes) nondeterministic across runs.
func sortedHashKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
