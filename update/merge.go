package update

import (
	"go.branchpoint.dev/confupdate/route"
	"go.branchpoint.dev/confupdate/tree"
)

// Merge reconciles user against defaults in place, following user's
// structure where the settings' merge rules say to preserve it and
// cloning from defaults otherwise. ignored routes (already resolved for
// the document's current version) are left untouched: neither merged nor
// pruned, subtree and all.
func Merge(user, defaults *tree.Section, settings *Settings, ignored route.Set, sep string) {
	mergeSection(user, defaults, settings, ignored, route.Route{}, sep)
}

func mergeSection(user, defaults *tree.Section, settings *Settings, ignored route.Set, prefix route.Route, sep string) {
	leftover := make(map[any]bool, user.Len())
	for _, k := range user.Keys() {
		leftover[k] = true
	}

	for _, key := range defaults.Keys() {
		r := prefix.Add(key)
		if ignored.Contains(r, sep) {
			delete(leftover, key)

			continue
		}

		delete(leftover, key)

		defBlock, _ := defaults.GetBlock(key)

		userBlock, exists := user.GetBlock(key)
		if !exists {
			user.SetChild(key, cloneBlock(defBlock))

			continue
		}

		userSec, userIsSection := userBlock.(*tree.Section)
		defSec, defIsSection := defBlock.(*tree.Section)

		switch {
		case userIsSection && defIsSection:
			mergeSection(userSec, defSec, settings, ignored, r, sep)
		case !userIsSection && !defIsSection:
			if !settings.MergeRule(RuleMappings) {
				user.SetChild(key, cloneBlock(defBlock))
			}
		case !userIsSection && defIsSection:
			if !settings.MergeRule(RuleMappingAtSection) {
				user.SetChild(key, cloneBlock(defBlock))
			}
		default: // userIsSection && !defIsSection
			if !settings.MergeRule(RuleSectionAtMapping) {
				user.SetChild(key, cloneBlock(defBlock))
			}
		}
	}

	for key := range leftover {
		r := prefix.Add(key)
		if ignored.Contains(r, sep) {
			continue
		}

		block, ok := user.GetBlock(key)
		if !ok {
			continue
		}

		if settings.KeepAll() || forceKept(block) {
			continue
		}

		user.RemoveChild(key)
	}

	if settings.Sorting() == SortByDefaults {
		sortByDefaults(user, defaults)
	}
}

func forceKept(block tree.Block) bool {
	switch b := block.(type) {
	case *tree.Entry:
		return b.ForceKeep
	case *tree.Section:
		return b.ForceKeep
	default:
		return false
	}
}

// cloneBlock deep-clones block so the result shares no reference with its
// source, reattaching a cloned Section's back-references once it is
// inserted by the caller.
func cloneBlock(block tree.Block) tree.Block {
	switch b := block.(type) {
	case *tree.Section:
		return b.Clone()
	case *tree.Entry:
		return b.Clone()
	default:
		return block
	}
}

// sortByDefaults reorders user's direct keys so that keys also present in
// defaults appear first, in defaults' order, followed by user's remaining
// (leftover) keys in their original relative order.
func sortByDefaults(user, defaults *tree.Section) {
	defOrder := defaults.Keys()
	userKeys := user.Keys()

	inUser := make(map[any]bool, len(userKeys))
	for _, k := range userKeys {
		inUser[k] = true
	}

	ordered := make([]any, 0, len(userKeys))

	for _, k := range defOrder {
		if inUser[k] {
			ordered = append(ordered, k)
		}
	}

	seen := make(map[any]bool, len(ordered))
	for _, k := range ordered {
		seen[k] = true
	}

	for _, k := range userKeys {
		if !seen[k] {
			ordered = append(ordered, k)
		}
	}

	user.Reorder(ordered)
}
