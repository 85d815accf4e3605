// Package update implements the confupdate pipeline: relocating moved
// keys, applying value mappers and custom mutators across a version
// range, and merging the result against a defaults document.
package update

import (
	"errors"
	"fmt"

	"go.branchpoint.dev/confupdate/route"
	"go.branchpoint.dev/confupdate/tree"
)

// DefaultSeparator is the route separator [Run] uses; callers addressing
// routes with a different separator should call [RunWithSeparator]
// directly.
const DefaultSeparator = "."

// ErrDowngradeRefused is returned by [Run] when the document's version is
// newer than the defaults' version and settings disable downgrading.
var ErrDowngradeRefused = errors.New("update: document is newer than defaults and downgrading is disabled")

// Run updates user in place against defaults according to settings, using
// [DefaultSeparator] to resolve string-keyed routes.
func Run(user, defaults *tree.Section, settings *Settings) error {
	return RunWithSeparator(user, defaults, settings, DefaultSeparator)
}

// RunWithSeparator is [Run] with an explicit route separator, for document
// trees addressed with something other than ".".
//
// With no versioning configured, this runs the merger directly. Otherwise
// it resolves the defaults' and document's versions, walks every version
// step after the document's version up to and including the defaults'
// version (relocate, then map, then mutate, per step),
// and finally merges user against defaults. A document newer than
// defaults either aborts with [ErrDowngradeRefused] or, if downgrading is
// enabled, skips straight to the merge.
func RunWithSeparator(user, defaults *tree.Section, settings *Settings, sep string) error {
	provider := settings.Versioning()
	if provider == nil {
		Merge(user, defaults, settings, route.Set{}, sep)

		return nil
	}

	defV, err := provider.DefaultsVersion(defaults)
	if err != nil {
		return fmt.Errorf("update: resolving defaults version: %w", err)
	}

	docV, known, err := provider.DocumentVersion(user)
	if err != nil {
		return fmt.Errorf("update: resolving document version: %w", err)
	}

	if !known {
		docV = defV.Pattern().First()
	}

	cmp, err := docV.Compare(defV)
	if err != nil {
		return fmt.Errorf("update: comparing document and defaults versions: %w", err)
	}

	if cmp > 0 {
		if !settings.DowngradeAllowed() {
			return ErrDowngradeRefused
		}

		Merge(user, defaults, settings, settings.IgnoredRoutes(docV.String()), sep)

		return nil
	}

	v := docV

	for {
		cmp, err := v.Compare(defV)
		if err != nil {
			return fmt.Errorf("update: comparing version step: %w", err)
		}

		if cmp >= 0 {
			break
		}

		v = v.Next()
		id := v.String()

		Relocate(user, settings.Relocations(id), sep)
		ApplyMappers(user, settings.Mappers(id), sep)

		if err := ApplyMutators(user, settings.Mutators(id)); err != nil {
			return fmt.Errorf("update: applying mutators for version %s: %w", id, err)
		}
	}

	Merge(user, defaults, settings, settings.IgnoredRoutes(defV.String()), sep)

	return nil
}
