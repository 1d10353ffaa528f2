package middleware

import (
	"context"
	"net/http"
	"time"
)

// ExtendedTimeout replaces the request deadline for slow endpoints such as
// uploads and report generation, and pushes the connection read and write
// deadlines out to match.
func ExtendedTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deadline := time.Now().Add(timeout)
			rc := http.NewResponseController(w)
			_ = rc.SetReadDeadline(deadline)
			_ = rc.SetWriteDeadline(deadline)

			ctx, cancel := context.WithDeadline(context.WithoutCancel(r.Context()), deadline)
			defer cancel()

			// Client disconnects still cancel the work.
			stop := context.AfterFunc(r.Context(), cancel)
			defer stop()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
