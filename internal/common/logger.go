package common

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLogLevel maps a level name to a slog level. Unknown names give info.
func ParseLogLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a JSON logger on stderr. quiet keeps errors only.
func NewLogger(level string, quiet bool) *slog.Logger {
	return newLogger(os.Stderr, level, quiet)
}

func newLogger(w io.Writer, level string, quiet bool) *slog.Logger {
	lvl := ParseLogLevel(level)
	if quiet {
		lvl = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}
