package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// ciEnvKeys are copied into every record when present.
var ciEnvKeys = map[string]string{
	"GITHUB_RUN_ID":     "ci_run_id",
	"GITHUB_SHA":        "ci_commit",
	"GITHUB_REF_NAME":   "ci_ref",
	"GITHUB_WORKFLOW":   "ci_workflow",
	"GITHUB_REPOSITORY": "ci_repository",
}

// CIHandler is a custom slog.Handler that adds CI environment metadata
// to log records.
type CIHandler struct {
	// The underlying handler (usually JSON)
	handler slog.Handler
	// CI metadata to add to every log record
	metadata []slog.Attr
}

// NewCIHandler creates a new CIHandler that wraps a JSON handler writing to out.
func NewCIHandler(out io.Writer, opts *slog.HandlerOptions) *CIHandler {
	var handlerOpts slog.HandlerOptions
	if opts != nil {
		handlerOpts = *opts
	}

	return &CIHandler{
		handler:  slog.NewJSONHandler(out, &handlerOpts),
		metadata: getCIMetadata(),
	}
}

func getCIMetadata() []slog.Attr {
	attrs := []slog.Attr{slog.Bool("ci", true)}
	for env, key := range ciEnvKeys {
		if v := os.Getenv(env); v != "" {
			attrs = append(attrs, slog.String(key, v))
		}
	}
	return attrs
}

// Enabled implements the slog.Handler interface.
func (h *CIHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// WithAttrs implements the slog.Handler interface.
func (h *CIHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &CIHandler{handler: h.handler.WithAttrs(attrs), metadata: h.metadata}
}

// WithGroup implements the slog.Handler interface.
func (h *CIHandler) WithGroup(name string) slog.Handler {
	return &CIHandler{handler: h.handler.WithGroup(name), metadata: h.metadata}
}

// Handle implements the slog.Handler interface.
func (h *CIHandler) Handle(ctx context.Context, record slog.Record) error {
	enhanced := record.Clone()
	enhanced.AddAttrs(h.metadata...)
	return h.handler.Handle(ctx, enhanced)
}
