package app

import (
	"log/slog"
	"os"
	"strings"
)

// Logger is the app-wide logger type (slog).
type Logger = *slog.Logger

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// NewLogger creates the process logger. Format "json" emits structured
// JSON records; anything else selects the human-oriented pretty handler.
// Logs go to stderr so command output on stdout stays parseable.
func NewLogger(level, format string) *slog.Logger {
	lvl := parseLogLevel(level)

	var h slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		h = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     lvl,
			AddSource: true,
		})
	default:
		h = newPrettyHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}, colorEnabled())
	}

	log := slog.New(h)
	slog.SetDefault(log)
	return log
}

// colorEnabled honors the NO_COLOR convention.
func colorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return EnvBool("TRACKER_LOG_COLOR", true)
}
