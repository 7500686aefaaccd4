package contextkeys

import (
	"context"

	"github.com/google/uuid"
)

// TraceHeader is the header trace ids travel in between services.
const TraceHeader = "X-Trace-ID"

// ContextWithTraceID stores the request trace id in ctx.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceIDFromContext returns the trace id, or "" when none is set.
func TraceIDFromContext(ctx context.Context) string {
	traceID, _ := ctx.Value(traceIDKey).(string)
	return traceID
}

// ResolveTraceID keeps an incoming id only when it parses as a uuid.
func ResolveTraceID(incoming string) string {
	if _, err := uuid.Parse(incoming); err == nil {
		return incoming
	}
	return uuid.NewString()
}
