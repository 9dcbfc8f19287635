// pattern: Imperative Shell

package logging

import (
	"context"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerProvider hands out scoped loggers.
// Both Manager and TestLogManager implement this interface.
type LoggerProvider interface {
	For(scope string) *ScopedLogger
}

// ScopedLogger is a slog-style logger bound to one scope ("sync", "github", ...).
// A zero or nop ScopedLogger discards everything.
type ScopedLogger struct {
	slog  *slog.Logger
	scope string
}

func newScopedLogger(z *zap.Logger, level zapcore.Level, scope string) *ScopedLogger {
	return &ScopedLogger{
		slog:  slog.New(&zapSlogHandler{zap: z, level: level}),
		scope: scope,
	}
}

// Info logs at INFO level.
func (l *ScopedLogger) Info(msg string, args ...any) {
	if l != nil && l.slog != nil {
		l.slog.Info(msg, args...)
	}
}

// Debug logs at DEBUG level.
func (l *ScopedLogger) Debug(msg string, args ...any) {
	if l != nil && l.slog != nil {
		l.slog.Debug(msg, args...)
	}
}

// Warn logs at WARN level.
func (l *ScopedLogger) Warn(msg string, args ...any) {
	if l != nil && l.slog != nil {
		l.slog.Warn(msg, args...)
	}
}

// Error logs at ERROR level.
func (l *ScopedLogger) Error(msg string, args ...any) {
	if l != nil && l.slog != nil {
		l.slog.Error(msg, args...)
	}
}

// With returns a logger that adds the given key-value pairs to every entry.
func (l *ScopedLogger) With(args ...any) *ScopedLogger {
	if l == nil || l.slog == nil {
		return l
	}
	return &ScopedLogger{
		slog:  l.slog.With(args...),
		scope: l.scope,
	}
}

// Scope returns the logger's scope name.
func (l *ScopedLogger) Scope() string {
	if l == nil {
		return ""
	}
	return l.scope
}

// zapSlogHandler adapts zap.Logger to the slog.Handler interface.
type zapSlogHandler struct {
	zap    *zap.Logger
	level  zapcore.Level
	attrs  []slog.Attr
	groups []string
}

func (h *zapSlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return slogToZapLevel(level) >= h.level
}

func (h *zapSlogHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]zap.Field, 0, r.NumAttrs()+len(h.attrs))
	for _, attr := range h.attrs {
		fields = append(fields, zapField(attr))
	}
	r.Attrs(func(attr slog.Attr) bool {
		fields = append(fields, zapField(attr))
		return true
	})

	switch slogToZapLevel(r.Level) {
	case zapcore.DebugLevel:
		h.zap.Debug(r.Message, fields...)
	case zapcore.WarnLevel:
		h.zap.Warn(r.Message, fields...)
	case zapcore.ErrorLevel:
		h.zap.Error(r.Message, fields...)
	default:
		h.zap.Info(r.Message, fields...)
	}
	return nil
}

func (h *zapSlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)
	return &zapSlogHandler{
		zap:    h.zap,
		level:  h.level,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *zapSlogHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups[len(h.groups)] = name
	return &zapSlogHandler{
		zap:    h.zap.Named(name),
		level:  h.level,
		attrs:  h.attrs,
		groups: newGroups,
	}
}

// zapField keeps errors as error fields so zap renders their message.
func zapField(attr slog.Attr) zap.Field {
	v := attr.Value.Any()
	if err, ok := v.(error); ok {
		return zap.NamedError(attr.Key, err)
	}
	return zap.Any(attr.Key, v)
}

func slogToZapLevel(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
