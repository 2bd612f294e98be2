// Package logging builds the slog loggers used by the CLI and resolves the
// log level from flags and environment variables.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// DefaultLevel is used when no flag or environment variable sets a level.
const DefaultLevel = slog.LevelWarn

// LevelFromEnv returns the level configured via environment variables.
// It checks LLMKIT_LOG_LEVEL first, then falls back to LOG_LEVEL. The
// returned string is the raw value, empty when neither is set.
func LevelFromEnv() string {
	if level := os.Getenv("LLMKIT_LOG_LEVEL"); level != "" {
		return level
	}
	return os.Getenv("LOG_LEVEL")
}

// ParseLevel parses a log level name.
// Supported values: DEBUG, INFO, WARN, WARNING, ERROR (case-insensitive).
// An empty string yields DefaultLevel.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "":
		return DefaultLevel, nil
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return DefaultLevel, fmt.Errorf("unknown log level %q (want DEBUG, INFO, WARN or ERROR)", level)
	}
}

// LevelString returns a human-readable string for the log level.
func LevelString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", level)
	}
}

// New returns a text logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
