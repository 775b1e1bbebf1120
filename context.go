package spyglass

import "context"

// Context keys are unexported types so no other package can collide with or
// overwrite the pipeline's trace state.
type contextKey int

const (
	traceIDKey contextKey = iota
	spanIDKey
)

// Activate derives a context carrying the given trace and span IDs. An empty
// string leaves that field inherited from ctx, so the derived context sets
// exactly the subset of IDs the caller provides.
//
// Isolation comes from context value semantics, not locking: each goroutine
// spawned with the derived context observes a snapshot of the IDs at spawn
// time, siblings never observe each other's values, and the parent context is
// untouched on every exit path.
func Activate(ctx context.Context, traceID, spanID string) context.Context {
	if traceID != "" {
		ctx = context.WithValue(ctx, traceIDKey, traceID)
	}
	if spanID != "" {
		ctx = context.WithValue(ctx, spanIDKey, spanID)
	}

	return ctx
}

// WithTraceID derives a context carrying only the given trace ID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// WithSpanID derives a context carrying only the given span ID.
func WithSpanID(ctx context.Context, spanID string) context.Context {
	return context.WithValue(ctx, spanIDKey, spanID)
}

// TraceIDFrom returns the trace ID carried by ctx, or empty string if none.
// An absent ID is a valid state, not an error.
func TraceIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey).(string)
	return id
}

// SpanIDFrom returns the span ID carried by ctx, or empty string if none.
func SpanIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(spanIDKey).(string)
	return id
}
