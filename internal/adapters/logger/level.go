package logger_adapter

import (
	"log/slog"
	"strings"
)

// ParseLevel maps a config string onto a slog level. ok is false for
// unknown values, which fall back to info.
func ParseLevel(levelStr string) (level slog.Level, ok bool) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
