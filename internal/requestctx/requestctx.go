// Package requestctx carries the per-request correlation ID through
// context so log lines and response envelopes can share it.
package requestctx

import "context"

type contextKey struct{}

var requestIDKey contextKey

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}
