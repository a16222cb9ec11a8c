package logger

import (
	"context"
	"log/slog"

	"github.com/acrelle/dataproc/internal/redact"
)

// RedactingHandler is a slog.Handler that redacts sensitive information from
// log messages and string attribute values before forwarding records to the
// underlying handler. The processor logs operation details that may carry
// user payloads, passphrases, or ciphertext; this handler keeps them out of
// the log stream.
type RedactingHandler struct {
	handler slog.Handler
}

// NewRedactingHandler wraps the provided handler with redaction.
func NewRedactingHandler(handler slog.Handler) *RedactingHandler {
	return &RedactingHandler{handler: handler}
}

// Enabled implements the slog.Handler interface.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// WithAttrs implements the slog.Handler interface. Attributes bound with
// Logger.With are redacted here because they bypass Handle's record walk.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		redacted[i] = redactAttr(attr)
	}
	return &RedactingHandler{handler: h.handler.WithAttrs(redacted)}
}

// WithGroup implements the slog.Handler interface.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{handler: h.handler.WithGroup(name)}
}

// Handle implements the slog.Handler interface. The record is rebuilt rather
// than cloned because attributes cannot be removed from an existing record.
func (h *RedactingHandler) Handle(ctx context.Context, record slog.Record) error {
	clean := slog.NewRecord(record.Time, record.Level, redact.String(record.Message), record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		clean.AddAttrs(redactAttr(attr))
		return true
	})
	return h.handler.Handle(ctx, clean)
}

// redactAttr redacts string-valued attributes, descending into groups.
// Non-string values (counts, durations, IDs) pass through untouched.
func redactAttr(attr slog.Attr) slog.Attr {
	switch attr.Value.Kind() {
	case slog.KindString:
		return slog.String(attr.Key, redact.String(attr.Value.String()))
	case slog.KindGroup:
		members := attr.Value.Group()
		redacted := make([]any, 0, len(members))
		for _, member := range members {
			redacted = append(redacted, redactAttr(member))
		}
		return slog.Group(attr.Key, redacted...)
	default:
		return attr
	}
}
