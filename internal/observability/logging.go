// Package observability attaches run-scoped fields to log lines.
package observability

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/citepage/internal/logfields"
)

// LogContext identifies the run, pipeline stage and CLI command a log line
// belongs to.
type LogContext struct {
	RunID   string
	Stage   string
	Command string
}

type logContextKey struct{}

func update(ctx context.Context, fn func(*LogContext)) context.Context {
	lc := GetContext(ctx)
	fn(&lc)
	return context.WithValue(ctx, logContextKey{}, lc)
}

// WithRunID tags ctx with the run identifier.
func WithRunID(ctx context.Context, runID string) context.Context {
	return update(ctx, func(lc *LogContext) { lc.RunID = runID })
}

// WithStage tags ctx with the current pipeline stage.
func WithStage(ctx context.Context, stage string) context.Context {
	return update(ctx, func(lc *LogContext) { lc.Stage = stage })
}

// WithCommand tags ctx with the invoking CLI command (generate, daemon).
func WithCommand(ctx context.Context, command string) context.Context {
	return update(ctx, func(lc *LogContext) { lc.Command = command })
}

// GetContext returns the fields stored in ctx, or the zero LogContext.
func GetContext(ctx context.Context) LogContext {
	lc, _ := ctx.Value(logContextKey{}).(LogContext)
	return lc
}

// Attrs returns the non-empty fields of lc as log attributes.
func (lc LogContext) Attrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, 3)
	if lc.RunID != "" {
		attrs = append(attrs, logfields.RunID(lc.RunID))
	}
	if lc.Stage != "" {
		attrs = append(attrs, logfields.Stage(lc.Stage))
	}
	if lc.Command != "" {
		attrs = append(attrs, slog.String("command", lc.Command))
	}
	return attrs
}

func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelDebug, msg, attrs)
}

func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelInfo, msg, attrs)
}

func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelWarn, msg, attrs)
}

func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelError, msg, attrs)
}

func log(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	slog.LogAttrs(ctx, level, msg, append(GetContext(ctx).Attrs(), attrs...)...)
}
