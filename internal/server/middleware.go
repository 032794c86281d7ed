package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"caritas/internal/commons"
	"caritas/internal/infrastructure/logger"
)

// Trace assigns the request its traceId, reusing an inbound X-Request-ID, and
// stores a logger carrying it in the request context.
func Trace(base *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get(commons.TraceHeader)
			if traceID == "" {
				traceID = uuid.New().String()
			}
			w.Header().Set(commons.TraceHeader, traceID)

			ctx := commons.WithTraceID(r.Context(), traceID)
			ctx = logger.WithContext(ctx, base.With(zap.String("traceId", traceID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequestLogger(base *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.FromContext(r.Context(), base).Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}
