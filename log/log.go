package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"
)

// Logger is the interface used to log panics that occur during query execution. It is
// settable via graphql.Logger.
type Logger interface {
	LogPanic(ctx context.Context, value interface{})
}

// LoggerFunc is a function type that implements the Logger interface.
type LoggerFunc func(ctx context.Context, value interface{})

// LogPanic calls the LoggerFunc with the given context and panic value.
func (f LoggerFunc) LogPanic(ctx context.Context, value interface{}) {
	f(ctx, value)
}

// ExecutionRecord summarizes one finished request.
type ExecutionRecord struct {
	RequestID     string
	OperationName string
	OperationType string
	Errors        int
	Duration      time.Duration
}

// ExecutionLogger is implemented by loggers that want a record per request.
type ExecutionLogger interface {
	LogExecution(ctx context.Context, rec ExecutionRecord)
}

// DefaultLogger is the default logger used to log panics that occur during query
// execution. A nil Logger writes to slog.Default().
type DefaultLogger struct {
	Logger *slog.Logger
}

func (l *DefaultLogger) slog() *slog.Logger {
	if l == nil || l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

// LogPanic is used to log recovered panic values that occur during query execution.
func (l *DefaultLogger) LogPanic(ctx context.Context, value interface{}) {
	const size = 64 << 10
	buf := make([]byte, size)
	buf = buf[:runtime.Stack(buf, false)]
	l.slog().ErrorContext(ctx, "graphql: panic occurred", "panic", value, "stack", string(buf))
}

// LogExecution logs the record at debug level.
func (l *DefaultLogger) LogExecution(ctx context.Context, rec ExecutionRecord) {
	l.slog().DebugContext(ctx, "graphql: request executed",
		"request_id", rec.RequestID,
		"operation", rec.OperationName,
		"type", rec.OperationType,
		"errors", rec.Errors,
		"duration", rec.Duration,
	)
}

// New builds a slog logger writing to stderr. Format is "json" or "text"; level is
// one of debug, info, warn or error and defaults to info.
func New(level, format string) *slog.Logger {
	return NewWriter(os.Stderr, level, format)
}

// NewWriter is New with an explicit destination.
func NewWriter(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
