package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.branchpoint.dev/confupdate/log"
	"go.branchpoint.dev/confupdate/route"
	"go.branchpoint.dev/confupdate/update"
	"go.branchpoint.dev/confupdate/version"
)

// Flags holds CLI flag names for confupdate, allowing callers embedding
// this command to customize flag names while keeping sensible defaults.
type Flags struct {
	Output          string
	Separator       string
	KeepAll         string
	NoDowngrade     string
	NoAutoSave      string
	Sorting         string
	VersionRoute    string
	VersionPattern  string
	DocVersion      string
	DefaultsVersion string
}

// Config holds CLI flag values for confupdate.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewSettings] to build an
// [update.Settings] once flags are parsed.
type Config struct {
	Flags  Flags
	Log    *log.Config
	Output string

	Separator       string
	KeepAll         bool
	NoDowngrade     bool
	NoAutoSave      bool
	Sorting         string
	VersionRoute    string
	VersionPattern  string
	DocVersion      string
	DefaultsVersion string
}

// NewConfig returns a new [Config] with default flag names, embedding a
// [log.Config] for the ambient logging flags every confupdate invocation
// carries.
func NewConfig() *Config {
	f := Flags{
		Output:          "output",
		Separator:       "separator",
		KeepAll:         "keep-all",
		NoDowngrade:     "no-downgrade",
		NoAutoSave:      "no-auto-save",
		Sorting:         "sort",
		VersionRoute:    "version-route",
		VersionPattern:  "version-pattern",
		DocVersion:      "doc-version",
		DefaultsVersion: "defaults-version",
	}

	// Seed the values RegisterFlags would default, so a Config is usable
	// without ever registering flags (embedding callers, tests).
	return &Config{
		Flags:     f,
		Log:       log.NewConfig(),
		Output:    "-",
		Separator: ".",
		Sorting:   "defaults",
	}
}

// RegisterFlags adds confupdate's flags, plus the embedded log flags, to
// the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.Output, c.Flags.Output, "o", "-",
		"output file path for the updated document (- for stdout)")
	flags.StringVar(&c.Separator, c.Flags.Separator, ".",
		"route separator used for string-keyed routes")
	flags.BoolVar(&c.KeepAll, c.Flags.KeepAll, false,
		"keep every user-only key instead of pruning keys absent from defaults")
	flags.BoolVar(&c.NoDowngrade, c.Flags.NoDowngrade, false,
		"fail instead of merging when the document's version is newer than defaults")
	flags.BoolVar(&c.NoAutoSave, c.Flags.NoAutoSave, false,
		"skip writing the output file after a successful update (ignored for stdout)")
	flags.StringVar(&c.Sorting, c.Flags.Sorting, "defaults",
		`post-merge key order, "defaults" to follow the defaults document or "none" to keep user order`)
	flags.StringVar(&c.VersionRoute, c.Flags.VersionRoute, "",
		"route to an automatic version identifier in both documents (enables versioning)")
	flags.StringVar(&c.VersionPattern, c.Flags.VersionPattern, "",
		`version alphabet, semicolon-separated segments of comma-separated values, e.g. "1,2;0,1,2,3"`)
	flags.StringVar(&c.DocVersion, c.Flags.DocVersion, "",
		"explicit document version id (manual versioning; mutually exclusive with --version-route)")
	flags.StringVar(&c.DefaultsVersion, c.Flags.DefaultsVersion, "",
		"explicit defaults version id (manual versioning)")

	c.Log.RegisterFlags(flags)
}

// RegisterCompletions registers shell completions for confupdate's flags on
// cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	if err := c.Log.RegisterCompletions(cmd); err != nil {
		return fmt.Errorf("registering log completions: %w", err)
	}

	err := cmd.RegisterFlagCompletionFunc(c.Flags.Sorting,
		cobra.FixedCompletions([]string{"defaults", "none"}, cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Sorting, err)
	}

	return nil
}

func parseSorting(s string) (update.Sorting, error) {
	switch s {
	case "defaults":
		return update.SortByDefaults, nil
	case "none":
		return update.SortNone, nil
	}

	return 0, fmt.Errorf("confupdate: unknown sort mode %q, want defaults or none", s)
}

// parsePattern parses the `--version-pattern` DSL: semicolon-separated
// segments, each a comma-separated alphabet in order, e.g.
// "1,2;0,1,2,3,4,5,6,7,8,9" for a two-segment "major.minor" pattern where
// major is "1" or "2" and minor is any single digit.
func parsePattern(sep, s string) (*version.Pattern, error) {
	if s == "" {
		return nil, fmt.Errorf("confupdate: empty --%s", "version-pattern")
	}

	segStrs := strings.Split(s, ";")
	segments := make([][]string, len(segStrs))

	for i, seg := range segStrs {
		values := strings.Split(seg, ",")
		if len(values) == 0 || (len(values) == 1 && values[0] == "") {
			return nil, fmt.Errorf("confupdate: empty segment %d in --version-pattern", i)
		}

		segments[i] = values
	}

	return version.NewPattern(sep, segments...), nil
}

// NewSettings builds an [update.Settings] from the parsed flags. Versioning
// is configured from --version-route plus --version-pattern (automatic) or
// from --doc-version/--defaults-version plus --version-pattern (manual);
// with neither supplied, the pipeline runs with versioning disabled.
func (c *Config) NewSettings() (*update.Settings, error) {
	sorting, err := parseSorting(c.Sorting)
	if err != nil {
		return nil, err
	}

	b := update.NewSettingsBuilder().
		WithKeepAll(c.KeepAll).
		WithDowngrading(!c.NoDowngrade).
		WithAutoSave(!c.NoAutoSave).
		WithSorting(sorting)

	switch {
	case c.VersionRoute != "":
		pattern, err := parsePattern(c.Separator, c.VersionPattern)
		if err != nil {
			return nil, err
		}

		r := route.FromString(c.VersionRoute, c.Separator)
		b = b.WithVersioning(version.NewAutomatic(pattern, r))
	case c.DefaultsVersion != "":
		pattern, err := parsePattern(c.Separator, c.VersionPattern)
		if err != nil {
			return nil, err
		}

		// NewManual panics on a malformed defaults id; it is meant for call
		// sites supplying versions known valid ahead of time, which raw flag
		// input is not. Validate both ids here so a typo surfaces as a clean
		// error instead of a crash (or, for the doc id, a silent fallback to
		// the pattern's first version).
		if _, err := pattern.Parse(c.DefaultsVersion); err != nil {
			return nil, fmt.Errorf("confupdate: --%s: %w", c.Flags.DefaultsVersion, err)
		}

		if c.DocVersion != "" {
			if _, err := pattern.Parse(c.DocVersion); err != nil {
				return nil, fmt.Errorf("confupdate: --%s: %w", c.Flags.DocVersion, err)
			}
		}

		b = b.WithVersioning(version.NewManual(pattern, c.DocVersion, c.DefaultsVersion))
	}

	return b.Build(), nil
}
