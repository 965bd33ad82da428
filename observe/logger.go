package observe

import (
	"context"
	"io"
	"os"
	"slices"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Logger is a minimal structured logging interface.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: the active span, if any, is attached to each entry.
// - Errors: logging must be best-effort and must not panic.
type Logger interface {
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
	Debug(ctx context.Context, msg string, fields ...Field)

	// With returns a child logger that adds fields to every entry.
	With(fields ...Field) Logger
}

// Field represents a structured log field.
type Field struct {
	Key   string
	Value any
}

// LogLevel represents a logging level.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLogLevel parses a string log level. Unknown values map to info.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// zeroLogger writes JSON lines through zerolog.
type zeroLogger struct {
	zl zerolog.Logger
}

// NewLogger creates a JSON logger writing to stderr at the given level.
func NewLogger(level string) Logger {
	return NewLoggerWithWriter(level, os.Stderr)
}

// NewLoggerWithWriter creates a JSON logger with a custom writer.
func NewLoggerWithWriter(level string, w io.Writer) Logger {
	zl := zerolog.New(w).
		Level(ParseLogLevel(level).zerolog()).
		With().Timestamp().Logger()
	return &zeroLogger{zl: zl}
}

// FromZerolog wraps an existing zerolog logger.
func FromZerolog(zl zerolog.Logger) Logger {
	return &zeroLogger{zl: zl}
}

func (l *zeroLogger) With(fields ...Field) Logger {
	zctx := l.zl.With()
	for _, f := range fields {
		if isRedactedField(f.Key) {
			zctx = zctx.Str(f.Key, "[REDACTED]")
			continue
		}
		zctx = zctx.Interface(f.Key, f.Value)
	}
	return &zeroLogger{zl: zctx.Logger()}
}

func (l *zeroLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.write(ctx, l.zl.Info(), msg, fields)
}

func (l *zeroLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.write(ctx, l.zl.Warn(), msg, fields)
}

func (l *zeroLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.write(ctx, l.zl.Error(), msg, fields)
}

func (l *zeroLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.write(ctx, l.zl.Debug(), msg, fields)
}

func (l *zeroLogger) write(ctx context.Context, evt *zerolog.Event, msg string, fields []Field) {
	// zerolog hands out a nil event below the configured level
	if evt == nil {
		return
	}

	for _, f := range fields {
		if isRedactedField(f.Key) {
			evt = evt.Str(f.Key, "[REDACTED]")
			continue
		}
		switch v := f.Value.(type) {
		case error:
			evt = evt.AnErr(f.Key, v)
		case string:
			evt = evt.Str(f.Key, v)
		default:
			evt = evt.Interface(f.Key, v)
		}
	}

	if ctx != nil {
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			evt = evt.Str("trace_id", sc.TraceID().String()).
				Str("span_id", sc.SpanID().String())
		}
	}

	evt.Msg(msg)
}

func isRedactedField(key string) bool {
	return slices.Contains(RedactedFields, key)
}

// NopLogger returns a logger that discards everything.
func NopLogger() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...Field)  {}
func (nopLogger) Warn(context.Context, string, ...Field)  {}
func (nopLogger) Error(context.Context, string, ...Field) {}
func (nopLogger) Debug(context.Context, string, ...Field) {}
func (l nopLogger) With(...Field) Logger                  { return l }

var (
	_ Logger = (*zeroLogger)(nil)
	_ Logger = nopLogger{}
)

// WithCache returns a child logger that tags every entry with the cache name.
func WithCache(l Logger, name string) Logger {
	if l == nil {
		return NopLogger()
	}
	return l.With(Field{Key: AttrCacheName, Value: name})
}
