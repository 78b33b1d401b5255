package shared

import (
	"context"

	"github.com/google/uuid"
)

// ContextKey is the type of request context keys set by the API.
type ContextKey string

// Context keys for request-scoped values
const (
	// SessionIDContextKey holds the authenticated session user ID
	SessionIDContextKey ContextKey = "sessionID"

	// TraceIDKey holds the request trace ID
	TraceIDKey ContextKey = "traceID"
)

// SetTraceID stores traceID in ctx, generating a random one when it is
// empty.
func SetTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		traceID = uuid.NewString()
	}
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

// SetSessionID stores the authenticated session ID in ctx.
func SetSessionID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, SessionIDContextKey, id)
}

// GetSessionID returns the authenticated session ID, if any.
func GetSessionID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(SessionIDContextKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}
