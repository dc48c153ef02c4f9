// Package logx provides the engine's structured logger, grounded in the
// teacher's logger package (same WithTag/WithFields and level-method
// shape, LOG_LEVEL env var convention) but backed by zerolog rather
// than log/slog: the teacher's go.mod already declares
// github.com/rs/zerolog as a dependency but its logger.go never
// actually imports it, leaving it dead. We wire it in for real.
package logx

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger for structured logging.
type Logger struct {
	zl zerolog.Logger
}

// New creates a new logger writing JSON to stderr, with its level set
// from LOG_LEVEL.
func New() *Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zl := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(getLogLevel())
	return &Logger{zl: zl}
}

// getLogLevel reads the LOG_LEVEL environment variable, defaulting to info.
func getLogLevel() zerolog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithTag returns a new logger with a "tag" field attached.
func (l *Logger) WithTag(tag string) *Logger {
	return &Logger{zl: l.zl.With().Str("tag", tag).Logger()}
}

// WithFields returns a new logger with the given fields attached.
func (l *Logger) WithFields(fields map[string]string) *Logger {
	ctx := l.zl.With()
	for k, v := range fields {
		ctx = ctx.Str(k, v)
	}
	return &Logger{zl: ctx.Logger()}
}

// Info logs an info level message with key/value pairs (alternating key, value, key, value...).
func (l *Logger) Info(msg string, kv ...any) { l.event(l.zl.Info(), msg, kv...) }

// Warn logs a warning level message.
func (l *Logger) Warn(msg string, kv ...any) { l.event(l.zl.Warn(), msg, kv...) }

// Error logs an error level message.
func (l *Logger) Error(msg string, kv ...any) { l.event(l.zl.Error(), msg, kv...) }

// Debug logs a debug level message.
func (l *Logger) Debug(msg string, kv ...any) { l.event(l.zl.Debug(), msg, kv...) }

// InfoCtx logs an info level message with ctx attached to the zerolog
// event (visible to hooks; nothing from ctx is written to the output).
func (l *Logger) InfoCtx(ctx context.Context, msg string, kv ...any) {
	l.event(l.zl.Info().Ctx(ctx), msg, kv...)
}

// WarnCtx logs a warning level message with context.
func (l *Logger) WarnCtx(ctx context.Context, msg string, kv ...any) {
	l.event(l.zl.Warn().Ctx(ctx), msg, kv...)
}

// ErrorCtx logs an error level message with context.
func (l *Logger) ErrorCtx(ctx context.Context, msg string, kv ...any) {
	l.event(l.zl.Error().Ctx(ctx), msg, kv...)
}

// DebugCtx logs a debug level message with context.
func (l *Logger) DebugCtx(ctx context.Context, msg string, kv ...any) {
	l.event(l.zl.Debug().Ctx(ctx), msg, kv...)
}

// event appends kv pairs to e as fields and sends msg. A trailing key
// without a value is logged as the value of an "_extra" field rather
// than dropped; a pair whose key is not a string is skipped.
func (l *Logger) event(e *zerolog.Event, msg string, kv ...any) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, kv[i+1])
	}
	if len(kv)%2 == 1 {
		e = e.Interface("_extra", kv[len(kv)-1])
	}
	e.Msg(msg)
}
