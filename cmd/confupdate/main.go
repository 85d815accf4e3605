// Package main provides the CLI entry point for confupdate, a tool that
// updates a user YAML document against a defaults YAML document: relocating
// moved keys, applying value mappers and mutators across a version range,
// and merging the result.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"go.branchpoint.dev/confupdate/internal/buildinfo"
	applog "go.branchpoint.dev/confupdate/log"
	"go.branchpoint.dev/confupdate/update"
	"go.branchpoint.dev/confupdate/yamldoc"
)

// Sentinel errors returned by the CLI's I/O boundary; the update pipeline
// itself never touches a file or a stream.
var (
	ErrReadInput   = errors.New("read input")
	ErrWriteOutput = errors.New("write output")
)

func main() {
	cfg := NewConfig()

	rootCmd := &cobra.Command{
		Use:     "confupdate [flags] <user.yaml> <defaults.yaml>",
		Short:   "Update a YAML document against a defaults document",
		Version: buildinfo.Summary(),
		Long: `confupdate brings a user YAML document up to date against a defaults
document: relocating keys that moved between versions, applying value
mappers and custom mutators for each version crossed, and finally merging
whatever remains against the defaults so every key defaults declares is
present.`,
		Args:          cobra.ExactArgs(2),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, cfg, args)
		},
	}

	cfg.RegisterFlags(rootCmd.Flags())

	if err := cfg.RegisterCompletions(rootCmd); err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, cfg *Config, args []string) error {
	// Every log record is both written to stderr directly and fanned out
	// through a Publisher; once the pipeline finishes we drain the
	// subscription to report how many records were emitted, so a silent
	// run still tells the caller something happened (or didn't).
	pub := applog.NewPublisher()
	sub := pub.Subscribe()

	handler, err := cfg.Log.NewHandler(io.MultiWriter(cmd.ErrOrStderr(), pub))
	if err != nil {
		return fmt.Errorf("configuring logger: %w", err)
	}

	logger := slog.New(handler)

	userPath, defaultsPath := args[0], args[1]

	userData, err := readFile(userPath)
	if err != nil {
		return err
	}

	defaultsData, err := readFile(defaultsPath)
	if err != nil {
		return err
	}

	userDoc, err := yamldoc.Parse(userData)
	if err != nil {
		return fmt.Errorf("%w: parsing %s: %w", ErrReadInput, userPath, err)
	}

	defaultsDoc, err := yamldoc.Parse(defaultsData)
	if err != nil {
		return fmt.Errorf("%w: parsing %s: %w", ErrReadInput, defaultsPath, err)
	}

	settings, err := cfg.NewSettings()
	if err != nil {
		return err
	}

	logger.Info("updating document", "user", userPath, "defaults", defaultsPath)

	if err := update.RunWithSeparator(userDoc, defaultsDoc, settings, cfg.Separator); err != nil {
		return fmt.Errorf("updating document: %w", err)
	}

	out, err := yamldoc.Render(userDoc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	logger.Debug("update finished", "records", drainRecordCount(pub, sub))

	// Auto-save governs the backing store only; stdout is not a backing
	// store, so "-" always prints.
	if cfg.Output != "" && cfg.Output != "-" && !settings.AutoSave() {
		logger.Info("auto-save disabled, not writing output file", "path", cfg.Output)

		return nil
	}

	return writeOutput(cfg.Output, out)
}

// drainRecordCount closes pub and counts the log records its subscription
// buffered, without blocking on anything still in flight: Publisher.Write
// never blocks, so by the time pub is closed every record this invocation
// logged has already been queued or dropped for being over the buffer.
func drainRecordCount(pub *applog.Publisher, sub *applog.Subscription) int {
	_ = pub.Close()

	count := 0
	for range sub.C() {
		count++
	}

	return count
}

func readFile(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("%w: stdin: %w", ErrReadInput, err)
		}

		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadInput, path, err)
	}

	return data, nil
}

func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}

		return nil
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // updated config files aren't secrets
		return fmt.Errorf("%w: %s: %w", ErrWriteOutput, path, err)
	}

	return nil
}
