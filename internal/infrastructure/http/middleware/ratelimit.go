package middleware

import (
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	httperrors "3tcapital/sriats/internal/infrastructure/http"
)

// CodeRateLimited is the error code of throttled requests.
const CodeRateLimited = "RATE_LIMITED"

// Limiter decides whether the client identified by key may proceed. It
// returns zero to allow, otherwise the wait before the next attempt.
type Limiter interface {
	Reserve(key string) time.Duration
}

// RateLimit throttles requests per client, method and bucket name. It must
// run after chi's RealIP so RemoteAddr holds the client address.
func RateLimit(bucket string, limiter Limiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := fmt.Sprintf("%s:%s:%s", bucket, r.Method, clientID(r))

			wait := limiter.Reserve(key)
			if wait <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			retryAfter := int(math.Ceil(wait.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}

			log.Warn("Rate limit exceeded",
				"bucket", bucket,
				"path", r.URL.Path,
				"client", clientID(r),
				"retry_after_s", retryAfter,
			)

			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			httperrors.WriteError(w, http.StatusTooManyRequests, CodeRateLimited,
				"Demasiadas solicitudes. Intente nuevamente más tarde.", nil, log)
		})
	}
}

// clientID is the client IP, or the user agent when the address is unknown.
func clientID(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host != "" {
		return host
	}

	ua := r.UserAgent()
	if ua == "" {
		ua = "unknown-ua"
	}
	if len(ua) > 80 {
		ua = ua[:80]
	}
	return "unknown:" + ua
}
