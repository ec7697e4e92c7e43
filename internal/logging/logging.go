// Package logging builds the process logger from options and environment.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	EnvLogLevel  = "YUVA_LOG_LEVEL"
	EnvLogFormat = "YUVA_LOG_FORMAT"
)

// LevelTrace is more verbose than slog.LevelDebug.
const LevelTrace = slog.LevelDebug - 4

// Options selects the handler. Empty fields fall back to info level and
// text format; the environment overrides both.
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// New returns a logger for opts with environment overrides applied.
func New(opts Options) *slog.Logger {
	return newWithEnv(opts, os.Getenv)
}

func newWithEnv(opts Options, getenv func(string) string) *slog.Logger {
	if v := getenv(EnvLogLevel); v != "" {
		opts.Level = v
	}
	if v := getenv(EnvLogFormat); v != "" {
		opts.Format = v
	}

	level, enabled := ParseLevel(opts.Level)
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if !enabled {
		out = io.Discard
	}

	hopts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		return slog.New(slog.NewJSONHandler(out, hopts))
	}
	return slog.New(slog.NewTextHandler(out, hopts))
}

// ParseLevel maps a level name to a slog level. The second result is false
// when logging is switched off. Unknown names mean info.
func ParseLevel(raw string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace", "diagnostics":
		return LevelTrace, true
	case "debug":
		return slog.LevelDebug, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	case "disabled", "disable", "off", "none":
		return slog.LevelError + 4, false
	default:
		return slog.LevelInfo, true
	}
}
