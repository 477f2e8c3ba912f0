package logger

import "context"

type correlationIDKey struct{}

// WithCorrelationID stores the request correlation id in ctx
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationID returns the id stored by WithCorrelationID, or ""
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}
