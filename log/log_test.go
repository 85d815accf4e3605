package log_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.branchpoint.dev/confupdate/log"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]struct {
		input    string
		expected slog.Level
		wantErr  bool
	}{
		"error level":      {input: "error", expected: slog.LevelError},
		"warn level":       {input: "warn", expected: slog.LevelWarn},
		"warning level":    {input: "warning", expected: slog.LevelWarn},
		"info level":       {input: "info", expected: slog.LevelInfo},
		"debug level":      {input: "debug", expected: slog.LevelDebug},
		"case insensitive": {input: "INFO", expected: slog.LevelInfo},
		"unknown level":    {input: "unknown", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			lvl, err := log.ParseLevel(tc.input)
			if tc.wantErr {
				require.ErrorIs(t, err, log.ErrUnknownLogLevel)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, lvl)
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]struct {
		input    string
		expected log.Format
		wantErr  bool
	}{
		"json format":    {input: "json", expected: log.FormatJSON},
		"logfmt format":  {input: "logfmt", expected: log.FormatLogfmt},
		"unknown format": {input: "unknown", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			f, err := log.ParseFormat(tc.input)
			if tc.wantErr {
				require.ErrorIs(t, err, log.ErrUnknownLogFormat)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, f)
		})
	}
}

func TestNewHandler(t *testing.T) {
	tests := map[string]struct {
		format log.Format
		check  func(t *testing.T, out string)
	}{
		"json handler": {
			format: log.FormatJSON,
			check: func(t *testing.T, out string) {
				var logEntry map[string]any
				require.NoError(t, json.Unmarshal([]byte(out), &logEntry))
				assert.Equal(t, "test message", logEntry["msg"])
				assert.Equal(t, "INFO", logEntry["level"])
				assert.Equal(t, "value", logEntry["key"])
			},
		},
		"logfmt handler": {
			format: log.FormatLogfmt,
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "level=INFO")
				assert.Contains(t, out, `msg="test message"`)
				assert.Contains(t, out, "key=value")
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer

			handler := log.NewHandler(&buf, slog.LevelInfo, tc.format)
			logger := slog.New(handler)
			logger.Info("test message", slog.String("key", "value"))

			tc.check(t, buf.String())
		})
	}
}

func TestNewHandlerFromStrings(t *testing.T) {
	tests := map[string]struct {
		levelStr, formatStr string
		wantErr             error
	}{
		"valid json handler": {levelStr: "info", formatStr: "json"},
		"invalid level":      {levelStr: "invalid", formatStr: "json", wantErr: log.ErrUnknownLogLevel},
		"invalid format":     {levelStr: "info", formatStr: "invalid", wantErr: log.ErrUnknownLogFormat},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer

			handler, err := log.NewHandlerFromStrings(&buf, tc.levelStr, tc.formatStr)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)

			logger := slog.New(handler)
			logger.Info("test message")
			assert.Contains(t, buf.String(), "test message")
		})
	}
}

func TestConfigRegisterCompletions(t *testing.T) {
	cfg := log.NewConfig()
	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.Flags())

	require.NoError(t, cfg.RegisterCompletions(cmd))
	assert.NotEmpty(t, log.LevelStrings())
	assert.NotEmpty(t, log.FormatStrings())
}

func TestConfigDefaultsProduceAWorkingHandler(t *testing.T) {
	cfg := log.NewConfig()
	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.Flags())

	var buf bytes.Buffer

	handler, err := cfg.NewHandler(&buf)
	require.NoError(t, err)

	slog.New(handler).Info("test message")
	assert.Contains(t, buf.String(), "test message")
}

func TestCustomFlagNames(t *testing.T) {
	cfg := log.Flags{Level: "verbosity", Format: "log-encoding"}.NewConfig()
	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.Flags())

	assert.NotNil(t, cmd.Flags().Lookup("verbosity"))
	assert.NotNil(t, cmd.Flags().Lookup("log-encoding"))
}

func TestLevelFiltering(t *testing.T) {
	tests := map[string]struct {
		level   slog.Level
		logFunc func(*slog.Logger)
		want    string
	}{
		"info level passes info log": {
			level: slog.LevelInfo,
			logFunc: func(logger *slog.Logger) {
				logger.Info("test message")
			},
			want: "test message",
		},
		"error level blocks info log": {
			level: slog.LevelError,
			logFunc: func(logger *slog.Logger) {
				logger.Info("test message")
			},
			want: "",
		},
		"error level passes error log": {
			level: slog.LevelError,
			logFunc: func(logger *slog.Logger) {
				logger.Error("test message")
			},
			want: "test message",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := slog.New(log.NewHandler(&buf, tc.level, log.FormatJSON))
			tc.logFunc(logger)

			if tc.want == "" {
				assert.Empty(t, buf.String())
				return
			}

			assert.Contains(t, buf.String(), tc.want)
		})
	}
}
