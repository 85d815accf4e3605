package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Format selects the wire encoding of emitted log records.
type Format string

const (
	// FormatJSON emits one JSON object per record.
	FormatJSON Format = "json"
	// FormatLogfmt emits records as key=value pairs.
	FormatLogfmt Format = "logfmt"
)

var (
	// ErrUnknownLogLevel indicates a level string [ParseLevel] does not
	// recognize.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrUnknownLogFormat indicates a format string [ParseFormat] does not
	// recognize.
	ErrUnknownLogFormat = errors.New("unknown log format")
)

// ParseLevel resolves a level string ("debug", "info", "warn"/"warning",
// "error", case-insensitive) to its [slog.Level].
func ParseLevel(level string) (slog.Level, error) {
	// slog's own text form accepts the four canonical names; "warning" is a
	// spelling slog does not take, so alias it first.
	if strings.EqualFold(level, "warning") {
		return slog.LevelWarn, nil
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLogLevel, level)
	}

	return lvl, nil
}

// ParseFormat resolves a format string to its [Format], case-insensitively.
func ParseFormat(format string) (Format, error) {
	switch Format(strings.ToLower(format)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatLogfmt:
		return FormatLogfmt, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownLogFormat, format)
}

// NewHandler builds a [slog.Handler] writing to w at the given level in the
// given format. Source locations are always recorded.
func NewHandler(w io.Writer, level slog.Level, format Format) slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	}

	if format == FormatJSON {
		return slog.NewJSONHandler(w, opts)
	}

	return slog.NewTextHandler(w, opts)
}

// NewHandlerFromStrings is [NewHandler] for unparsed level and format
// strings, as they arrive from flags or the environment.
func NewHandlerFromStrings(w io.Writer, level, format string) (slog.Handler, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	return NewHandler(w, lvl, f), nil
}

// LevelStrings lists the level names [ParseLevel] accepts, for flag usage
// text and shell completion.
func LevelStrings() []string {
	return []string{"debug", "info", "warn", "error"}
}

// FormatStrings lists the format names [ParseFormat] accepts, for flag
// usage text and shell completion.
func FormatStrings() []string {
	return []string{string(FormatJSON), string(FormatLogfmt)}
}
