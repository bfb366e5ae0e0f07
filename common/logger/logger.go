// Package logger builds the slog loggers of the BFF and the CLI.
//
// In Kubernetes and in the prod/dev environments records are JSON; locally
// they are colored text. Every handler adds trace_id/span_id from the OTel
// span in the context and masks credentials before anything is written.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

const redacted = "[REDACTED]"

// sensitiveKeys are attribute keys whose values never reach the output.
var sensitiveKeys = map[string]bool{
	"token":         true,
	"access_token":  true,
	"authorization": true,
	"password":      true,
	"senha":         true,
}

func New() *slog.Logger {
	return NewWriter(os.Stdout)
}

// NewWriter is New with an explicit destination. The CLI logs to stderr so
// that command output on stdout stays machine readable.
func NewWriter(w io.Writer) *slog.Logger {
	_, inK8s := os.LookupEnv("KUBERNETES_SERVICE_HOST")
	env := os.Getenv("ENV")

	if inK8s || env == "prod" || env == "dev" {
		return slog.New(newTraceContextHandler(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       parseLevel(os.Getenv("LOG_LEVEL"), slog.LevelInfo),
			AddSource:   true,
			ReplaceAttr: redact,
		})))
	}

	return slog.New(newTraceContextHandler(newColorTextHandler(w, &slog.HandlerOptions{
		Level:       parseLevel(os.Getenv("LOG_LEVEL"), slog.LevelDebug),
		ReplaceAttr: redact,
	})))
}

func NewWithServiceContext(serviceName, version string) *slog.Logger {
	return New().With(
		slog.String("service", serviceName),
		slog.String("version", version),
		slog.String("environment", os.Getenv("ENV")),
	)
}

func parseLevel(s string, fallback slog.Level) slog.Level {
	var level slog.Level
	if s == "" || level.UnmarshalText([]byte(s)) != nil {
		return fallback
	}
	return level
}

// redact masks sensitive keys and bearer credentials in any string value.
func redact(_ []string, a slog.Attr) slog.Attr {
	if sensitiveKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, redacted)
	}
	if a.Value.Kind() == slog.KindString && strings.HasPrefix(a.Value.String(), "Bearer ") {
		return slog.String(a.Key, "Bearer "+redacted)
	}
	return a
}

const (
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorReset  = "\x1b[0m"
)

// colorTextHandler paints the message of WARN records yellow and ERROR records red.
type colorTextHandler struct {
	slog.Handler
}

func newColorTextHandler(w io.Writer, opts *slog.HandlerOptions) *colorTextHandler {
	return &colorTextHandler{Handler: slog.NewTextHandler(w, opts)}
}

func (h *colorTextHandler) Handle(ctx context.Context, r slog.Record) error {
	color := ""
	switch {
	case r.Level >= slog.LevelError:
		color = colorRed
	case r.Level >= slog.LevelWarn:
		color = colorYellow
	}
	if color == "" {
		return h.Handler.Handle(ctx, r)
	}

	painted := slog.NewRecord(r.Time, r.Level, color+r.Message+colorReset, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		painted.AddAttrs(a)
		return true
	})
	return h.Handler.Handle(ctx, painted)
}

func (h *colorTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &colorTextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *colorTextHandler) WithGroup(name string) slog.Handler {
	return &colorTextHandler{Handler: h.Handler.WithGroup(name)}
}

// traceContextHandler adds trace_id and span_id of the active span.
type traceContextHandler struct {
	slog.Handler
}

func newTraceContextHandler(h slog.Handler) *traceContextHandler {
	return &traceContextHandler{Handler: h}
}

func (h *traceContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		)
	}
	return h.Handler.Handle(ctx, r)
}

func (h *traceContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *traceContextHandler) WithGroup(name string) slog.Handler {
	return &traceContextHandler{Handler: h.Handler.WithGroup(name)}
}
