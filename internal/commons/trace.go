package commons

import (
	"context"

	"github.com/google/uuid"
)

const TraceHeader = "X-Request-ID"

type traceKey struct{}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey{}, traceID)
}

// TraceID returns the request's trace id, minting one when the request did not
// pass through the tracing middleware.
func TraceID(ctx context.Context) string {
	if id, ok := ctx.Value(traceKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.New().String()
}
