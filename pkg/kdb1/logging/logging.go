package logging

import (
	"context"
	"log/slog"
)

const redactedPlaceholder = "[redacted]"

// Logger is the subset of slog functionality kdb1 uses. The interface is
// intentionally small so applications can substitute their own
// implementation for testing or for routing to an existing log pipeline.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
}

// New returns a Logger backed by the provided slog.Logger. Passing nil
// binds to slog.Default().
func New(logger *slog.Logger) Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogLogger{logger: logger}
}

// Discard returns a Logger that drops every call. It is the default for a
// Vault whose caller never configures a Logger.
func Discard() Logger {
	return discardLogger{}
}

type slogLogger struct {
	logger *slog.Logger
}

func (l *slogLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.logger.DebugContext(ctx, msg, args...)
}

func (l *slogLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.logger.WarnContext(ctx, msg, args...)
}

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}

type discardLogger struct{}

func (discardLogger) Debug(context.Context, string, ...any) {}
func (discardLogger) Warn(context.Context, string, ...any)  {}
func (discardLogger) With(...any) Logger                    { return discardLogger{} }

// Redacted marks an attribute as carrying sensitive material. Callers must
// never pass the raw secret to a logging call; this attribute is a
// reminder, in the log output, that a value was intentionally withheld.
func Redacted(key string) slog.Attr {
	return slog.String(key, redactedPlaceholder)
}

// Placeholder returns the canonical string used in place of a redacted
// value.
func Placeholder() string {
	return redactedPlaceholder
}
