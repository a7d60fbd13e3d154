package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/vogiaan1904/ticketbottle-dashboard/pkg/logger"
)

// requestLogger attaches the request id to the context logger and logs one
// line per request once it completes.
func requestLogger(l logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ctx := l.With(r.Context(), "request_id", middleware.GetReqID(r.Context()))

			next.ServeHTTP(ww, r.WithContext(ctx))

			kv := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			}
			if ww.Status() >= http.StatusInternalServerError {
				l.Warnw(ctx, "HTTP request failed", kv...)
				return
			}
			l.Infow(ctx, "HTTP request", kv...)
		})
	}
}
