// Package context carries request-scoped identifiers across layers.
package context

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

// CorrelationIDKey is the context key for correlation IDs.
const CorrelationIDKey contextKey = "correlation_id"

// WithCorrelationID adds a correlation ID to the context.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, correlationID)
}

// GetCorrelationID retrieves the correlation ID from the context, or an
// empty string.
func GetCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(CorrelationIDKey).(string); ok {
		return id
	}
	return ""
}

// EnsureCorrelationID stores candidate as the correlation ID, generating a
// random one when candidate is empty.
func EnsureCorrelationID(ctx context.Context, candidate string) (context.Context, string) {
	if candidate == "" {
		candidate = uuid.NewString()
	}
	return WithCorrelationID(ctx, candidate), candidate
}
