// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

// roundKey carries the active deliberation round id through the context.
type roundKey struct{}

// WithRoundID returns a context carrying the round id so every log record
// emitted during the round correlates without repeating the attribute.
func WithRoundID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, roundKey{}, id)
}

// RoundIDFromContext returns the round id carried by ctx, or "".
func RoundIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(roundKey{}).(string)
	return id
}

// ConfigureSlog sets the global slog logger. Records emitted inside a
// deliberation round pick up round_id, trace_id, and span_id from the
// context automatically.
func ConfigureSlog(output io.Writer, level, format string) *slog.Logger {
	handler := newSlogHandler(output, level, format)
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func newSlogHandler(output io.Writer, level, format string) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(level),
	}
	var base slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		base = slog.NewJSONHandler(output, opts)
	default:
		base = slog.NewTextHandler(output, opts)
	}
	return &councilHandler{next: base}
}

// councilHandler decorates records with the round and span identity carried
// by the context. Explicit attributes win over injected ones.
type councilHandler struct {
	next slog.Handler
}

func (h *councilHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *councilHandler) Handle(ctx context.Context, record slog.Record) error {
	if roundID := RoundIDFromContext(ctx); roundID != "" && !recordHasAttr(record, "round_id") {
		record.AddAttrs(slog.String("round_id", roundID))
	}
	traceID, spanID := spanIDsFromContext(ctx)
	if traceID != "" && !recordHasAttr(record, "trace_id") {
		record.AddAttrs(slog.String("trace_id", traceID))
	}
	if spanID != "" && !recordHasAttr(record, "span_id") {
		record.AddAttrs(slog.String("span_id", spanID))
	}
	return h.next.Handle(ctx, record)
}

func (h *councilHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &councilHandler{next: h.next.WithAttrs(attrs)}
}

func (h *councilHandler) WithGroup(name string) slog.Handler {
	return &councilHandler{next: h.next.WithGroup(name)}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func spanIDsFromContext(ctx context.Context) (string, string) {
	if ctx == nil {
		return "", ""
	}
	span := trace.SpanFromContext(ctx)
	if span == nil {
		return "", ""
	}
	sc := span.SpanContext()
	if !sc.IsValid() {
		return "", ""
	}
	return sc.TraceID().String(), sc.SpanID().String()
}

func recordHasAttr(record slog.Record, key string) bool {
	found := false
	record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == key {
			found = true
			return false
		}
		return true
	})
	return found
}
