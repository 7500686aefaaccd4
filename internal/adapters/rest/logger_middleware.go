package rest

import (
	"net/http"
	"strings"
	"time"

	"search-service/internal/contextkeys"
	"search-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// LoggerMiddleware attaches a trace id and a request logger to the context
// and writes one access record per request once the handler returns.
func LoggerMiddleware(logger port.LoggerPort) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := contextkeys.ResolveTraceID(r.Header.Get(contextkeys.TraceHeader))
			reqLogger := logger.WithFields(port.Fields{"trace_id": traceID})

			ctx := contextkeys.ContextWithTraceID(r.Context(), traceID)
			ctx = contextkeys.ContextWithLogger(ctx, reqLogger)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Header().Set(contextkeys.TraceHeader, traceID)
			started := time.Now()

			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := port.Fields{
				"http_method":   r.Method,
				"http_path":     r.URL.Path,
				"http_route":    routePattern(r),
				"remote_addr":   r.RemoteAddr,
				"status_code":   status,
				"bytes_written": ww.BytesWritten(),
				"duration_ms":   time.Since(started).Milliseconds(),
			}
			switch {
			case status >= http.StatusInternalServerError:
				reqLogger.Warn("Request failed", fields)
			case isProbe(r.URL.Path):
				reqLogger.Debug("Probe served", fields)
			default:
				reqLogger.Info("Request served", fields)
			}
		})
	}
}

// routePattern is filled in by chi while routing, so it is read after next.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

func isProbe(path string) bool {
	return strings.HasSuffix(path, "/health") || strings.HasSuffix(path, "/health/ready")
}
