package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/bunny/internal/api/shared"
	"github.com/phrazzld/bunny/internal/platform/logger"
)

// TraceMiddleware assigns a trace id to each request, echoes it in the
// X-Trace-ID response header and attaches a request logger carrying it.
// An incoming X-Trace-ID is kept when well formed.
func TraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.WithTraceID(r.Context(), r.Header.Get(shared.TraceIDHeader))
			traceID := shared.GetTraceID(ctx)
			w.Header().Set(shared.TraceIDHeader, traceID)

			log := base.With(slog.String("trace_id", traceID))
			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(logger.WithLogger(ctx, log)))
		})
	}
}
