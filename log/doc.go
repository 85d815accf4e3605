// Package log provides structured logging handler construction for use with
// [log/slog]. confupdate's core packages never log anything themselves (the
// update pipeline is a pure, synchronous tree transform); this package
// exists for cmd/confupdate and for callers embedding the library who want
// the same handler-construction conventions.
//
// It supports multiple output formats ([FormatJSON] and [FormatLogfmt]) and
// severity levels (error, warn, info, debug). Use [NewHandler] to build a
// handler directly, or use [Config] for CLI flag integration via
// [github.com/spf13/pflag] and shell completion support via
// [github.com/spf13/cobra].
//
// Typical usage creates a [Config], registers flags, then builds a handler
// at startup:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
//
//	handler, err := cfg.NewHandler(os.Stderr)
//	slog.SetDefault(slog.New(handler))
//
// A [Publisher] fans out log output to multiple subscribers, combined with
// [io.MultiWriter] to write to multiple locations at once:
//
//	pub := log.NewPublisher()
//	w := io.MultiWriter(logFile, pub)
//	handler := log.NewHandler(w, slog.LevelInfo, log.FormatJSON)
//	logger := slog.New(handler)
//
//	sub := pub.Subscribe()
//	go func() {
//	    for entry := range sub.C() {
//	        // Deliver entry wherever the caller needs it.
//	    }
//	}()
package log
