package config

import (
	"log/slog"
	"strings"
)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevels = map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}

// NormalizeLogLevel folds case and whitespace; unknown values become info.
func NormalizeLogLevel(raw string) LogLevel {
	return normalize(raw, logLevels, LogLevelInfo)
}

// Slog maps the level to its slog equivalent.
func (l LogLevel) Slog() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormats = map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}

// NormalizeLogFormat folds case and whitespace; unknown values become text.
func NormalizeLogFormat(raw string) LogFormat {
	return normalize(raw, logFormats, LogFormatText)
}

func normalize[T ~string](raw string, known map[string]T, fallback T) T {
	if v, ok := known[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return v
	}
	return fallback
}
