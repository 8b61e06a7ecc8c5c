package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"planner_service/pkg/ctxdata"
	"planner_service/pkg/logger"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func NewLoggingMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			traceID, err := uuid.NewV7()
			if err != nil {
				traceID = uuid.New()
			}

			ctx := ctxdata.WithTraceID(r.Context(), traceID.String())
			r = r.WithContext(ctx)

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			w.Header().Set("X-Trace-Id", traceID.String())

			next.ServeHTTP(sw, r)

			log.Info("request completed",
				zap.String("trace_id", traceID.String()),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", sw.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

// NewAuthMiddleware reads the authenticated user id injected by the edge
// proxy and puts it on the request context. Requests without a valid id are
// rejected.
func NewAuthMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("X-User-Id")
			if header == "" {
				log.InfoContext(r.Context(), "no user id header", zap.String("path", r.URL.Path))
				writeErrorJSON(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			userID, err := uuid.Parse(header)
			if err != nil {
				log.InfoContext(r.Context(), "malformed user id header", zap.String("path", r.URL.Path))
				writeErrorJSON(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx := ctxdata.WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
