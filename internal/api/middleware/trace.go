package middleware

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/storeboost-api/internal/api/shared"
	"github.com/phrazzld/storeboost-api/internal/platform/logger"
)

// TraceHeader is the response header carrying the request trace ID.
const TraceHeader = "X-Trace-ID"

// Trace assigns each request a trace ID, reusing chi's request ID when
// present, and stores a logger tagged with it in the request context.
func Trace(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context(), middleware.GetReqID(r.Context()))
			traceID := shared.GetTraceID(ctx)

			log := base.With("trace_id", traceID)
			ctx = logger.WithLogger(ctx, log)
			w.Header().Set(TraceHeader, traceID)

			log.DebugContext(ctx, "request started",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
