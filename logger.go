package sdfstore

import (
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with store-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{Logger: slog.New(handler)}
}

// WithSource adds the source file path to the logger.
func (l *Logger) WithSource(path string) *Logger {
	return &Logger{Logger: l.Logger.With("source", path)}
}

// LogBuild logs the outcome of a full index build.
func (l *Logger) LogBuild(records, indexed, malformed int, bytes int64, elapsed time.Duration, err error) {
	if err != nil {
		l.Error("index build failed",
			"records", records,
			"error", err,
		)
		return
	}
	l.Info("index build completed",
		"records", records,
		"indexed", indexed,
		"malformed", malformed,
		"bytes", bytes,
		"elapsed", elapsed,
	)
}

// LogCacheLoad logs a cache load attempt. A load failure is expected
// operational noise (the store rebuilds), so it is logged at warning level.
func (l *Logger) LogCacheLoad(path string, records int, err error) {
	if err != nil {
		l.Warn("index cache unusable, rebuilding",
			"cache", path,
			"error", err,
		)
		return
	}
	l.Info("index cache loaded",
		"cache", path,
		"records", records,
	)
}

// LogCacheSave logs a cache write.
func (l *Logger) LogCacheSave(path string, err error) {
	if err != nil {
		l.Warn("failed to save index cache",
			"cache", path,
			"error", err,
		)
		return
	}
	l.Info("index cache saved", "cache", path)
}
