package qbin

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with qbin-specific context.
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

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// WithBuckets adds a bucket budget field to the logger.
func (l *Logger) WithBuckets(buckets int) *Logger {
	return &Logger{Logger: l.Logger.With("buckets", buckets)}
}

// WithFeature adds a feature index field to the logger.
func (l *Logger) WithFeature(feature int) *Logger {
	return &Logger{Logger: l.Logger.With("feature", feature)}
}

// LogBuild logs the outcome of one Build call.
func (l *Logger) LogBuild(ctx context.Context, rows, features, buckets int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "build failed",
			"rows", rows,
			"features", features,
			"buckets", buckets,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "build completed",
		"rows", rows,
		"features", features,
		"buckets", buckets,
	)
}
