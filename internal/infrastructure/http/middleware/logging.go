package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	ctxutil "3tcapital/sriats/internal/infrastructure/context"
	"3tcapital/sriats/internal/infrastructure/logger"
	"3tcapital/sriats/internal/infrastructure/security"
)

// responseWriter captures the status code and bytes written.
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying connection.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

// RequestLogger logs every request once it completes and stores a logger
// tagged with the correlation ID in the request context. The correlation ID
// is chi's request ID when present. Level follows the status code:
//   - Info: 2xx, 3xx
//   - Warn: 4xx
//   - Error: 5xx
func RequestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx, correlationID := ctxutil.EnsureCorrelationID(r.Context(), chimw.GetReqID(r.Context()))
			reqLog := log.With("correlation_id", correlationID)
			ctx = logger.WithContext(ctx, reqLog)

			if reqLog.Enabled(ctx, slog.LevelDebug) {
				reqLog.Debug("HTTP request received",
					"method", r.Method,
					"path", r.URL.Path,
					"headers", security.SanitizeHeaders(r.Header),
				)
			}

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}
			w.Header().Set("X-Correlation-ID", correlationID)

			next.ServeHTTP(rw, r.WithContext(ctx))

			duration := time.Since(start)
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
				"status", rw.statusCode,
				"duration_ms", float64(duration.Nanoseconds()) / 1e6,
				"bytes", rw.bytesWritten,
			}
			if userAgent := r.Header.Get("User-Agent"); userAgent != "" {
				attrs = append(attrs, "user_agent", userAgent)
			}

			switch {
			case rw.statusCode >= 500:
				reqLog.Error("HTTP request", attrs...)
			case rw.statusCode >= 400:
				reqLog.Warn("HTTP request", attrs...)
			default:
				reqLog.Info("HTTP request", attrs...)
			}
		})
	}
}
