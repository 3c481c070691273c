// Package log is a thin structured-logging layer over log/slog.
package log

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/joshharrison/procsched/internal/schederr"
)

// Level represents the severity of a log message
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel parses a level name. Unknown names fall back to warn, the
// CLI default.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelWarn
	}
}

// Format is the handler encoding.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "text"
}

// ParseFormat parses "json" or "text"; anything else is text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	default:
		return FormatText
	}
}

// Config holds configuration for the logger
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
}

// Logger provides structured logging with slog
type Logger struct {
	slog *slog.Logger
}

// New creates a Logger. A nil Output discards everything.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = io.Discard
	}
	opts := &slog.HandlerOptions{Level: cfg.Level.slogLevel()}

	var handler slog.Handler
	if cfg.Format == FormatJSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return &Logger{slog: slog.New(handler)}
}

// Discard returns a logger that drops every record.
func Discard() *Logger {
	return New(Config{Level: LevelError, Output: io.Discard})
}

// With returns a new Logger with the given attributes added to all log entries
func (l *Logger) With(args ...any) *Logger {
	return &Logger{slog: l.slog.With(args...)}
}

// WithError attaches the error text and, for scheduling errors, its kind
// and cycle witness.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	args := []any{"error", err.Error()}
	if kind := schederr.KindName(err); kind != "" {
		args = append(args, "error_kind", kind)
	}
	var se *schederr.Error
	if errors.As(err, &se) && len(se.Cycle) > 0 {
		args = append(args, "cycle", se.Cycle)
	}
	return l.With(args...)
}

// Enabled reports whether records at level would be emitted.
func (l *Logger) Enabled(ctx context.Context, level Level) bool {
	return l.slog.Enabled(ctx, level.slogLevel())
}

func (l *Logger) Debug(msg string, args ...any) { l.slog.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.slog.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.slog.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.slog.Error(msg, args...) }
