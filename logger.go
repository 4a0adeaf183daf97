package neargo

import (
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/neargo/neighborfile"
)

// Logger wraps slog.Logger with neargo-specific context.
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
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithFile adds the neighbor file name to the logger.
func (l *Logger) WithFile(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("file", name),
	}
}

// LogIndexBuild logs the label index construction.
func (l *Logger) LogIndexBuild(labels, objects, collisions int, duration time.Duration) {
	l.Debug("label index built",
		"labels", labels,
		"objects", objects,
		"collisions", collisions,
		"duration", duration,
	)
}

// LogLoad logs the outcome of a neighbor-file load.
func (l *Logger) LogLoad(stats neighborfile.Stats, duration time.Duration, err error) {
	if err != nil {
		l.Error("neighborhood load failed",
			"error", err,
		)
		return
	}
	if stats.Warnings > 0 {
		l.Warn("neighborhood loaded with unresolved labels",
			"lines", stats.Lines,
			"subjects", stats.Subjects,
			"neighbors", stats.Neighbors,
			"warnings", stats.Warnings,
			"duration", duration,
		)
		return
	}
	l.Info("neighborhood loaded",
		"lines", stats.Lines,
		"subjects", stats.Subjects,
		"neighbors", stats.Neighbors,
		"duration", duration,
	)
}
