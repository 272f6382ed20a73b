package scoped

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with scoped-specific context.
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
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// discard is the default logger for wrappers constructed without
// WithLogger.
var discard = NoopLogger()

// WithFD adds a descriptor field to the logger.
func (l *Logger) WithFD(fd int) *Logger {
	return &Logger{
		Logger: l.Logger.With("fd", fd),
	}
}

// WithSize adds a size field to the logger.
func (l *Logger) WithSize(size int) *Logger {
	return &Logger{
		Logger: l.Logger.With("size", size),
	}
}

// LogClose logs a descriptor close.
func (l *Logger) LogClose(fd int, err error) {
	if err != nil {
		l.Error("close failed",
			"fd", fd,
			"error", err,
		)
	} else {
		l.Debug("descriptor closed",
			"fd", fd,
		)
	}
}

// LogMap logs a mapping construction. op names the mapping call
// ("mmap" or "mmap_anon").
func (l *Logger) LogMap(op string, size int, err error) {
	if err != nil {
		l.Error("map failed",
			"op", op,
			"size", size,
			"error", err,
		)
	} else {
		l.Debug("region mapped",
			"op", op,
			"size", size,
		)
	}
}

// LogUnmap logs a mapping teardown.
func (l *Logger) LogUnmap(size int, err error) {
	if err != nil {
		l.Error("unmap failed",
			"size", size,
			"error", err,
		)
	} else {
		l.Debug("region unmapped",
			"size", size,
		)
	}
}
