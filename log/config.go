package log

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Default flag values applied by [Config.RegisterFlags].
const (
	DefaultLevel  = "info"
	DefaultFormat = string(FormatLogfmt)
)

// Flags names the CLI flags a [Config] registers, so a caller embedding
// confupdate's logging setup under its own flag namespace can rename them.
type Flags struct {
	Level  string
	Format string
}

// Config carries the unparsed logging flag values for one invocation. Wire
// it up with [Config.RegisterFlags] before flag parsing, then call
// [Config.NewHandler] once flags are parsed.
type Config struct {
	Level  string
	Format string
	Flags  Flags
}

// NewConfig returns a Config using the standard flag names, --log-level and
// --log-format.
func NewConfig() *Config {
	return &Config{
		Flags: Flags{
			Level:  "log-level",
			Format: "log-format",
		},
	}
}

// NewConfig creates a [Config] registering flags under f's names instead of
// the standard ones.
func (f Flags) NewConfig() *Config {
	return &Config{Flags: f}
}

// RegisterFlags adds the logging flags to flags.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, c.Flags.Level, DefaultLevel,
		"log level, one of: "+strings.Join(LevelStrings(), ", "))
	flags.StringVar(&c.Format, c.Flags.Format, DefaultFormat,
		"log format, one of: "+strings.Join(FormatStrings(), ", "))
}

// RegisterCompletions registers shell completions for the logging flags on
// cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	for flag, values := range map[string][]string{
		c.Flags.Level:  LevelStrings(),
		c.Flags.Format: FormatStrings(),
	} {
		err := cmd.RegisterFlagCompletionFunc(flag,
			cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}

	return nil
}

// NewHandler builds a [slog.Handler] writing to w from the parsed flag
// values, delegating to [NewHandlerFromStrings].
func (c *Config) NewHandler(w io.Writer) (slog.Handler, error) {
	return NewHandlerFromStrings(w, c.Level, c.Format)
}
