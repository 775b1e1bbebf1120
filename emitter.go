package spyglass

import "context"

// Queue accepts stamped events. Enqueue must never block the caller;
// collector.Collector satisfies this interface.
type Queue interface {
	Enqueue(ev *Event)
}

// Stamp constructs an event from the current time and the trace/span IDs
// carried by ctx. It never blocks and never fails: absent IDs are stamped as
// empty, not reported as errors.
func Stamp(ctx context.Context, kind Kind, fields map[string]any) *Event {
	return &Event{
		TimestampNS: NowNS(),
		TraceID:     TraceIDFrom(ctx),
		SpanID:      SpanIDFrom(ctx),
		Kind:        kind,
		Fields:      fields,
	}
}

// Emitter stamps events and forwards them to a queue. It is stateless glue
// with no buffering of its own; all Emit methods are hot-path safe.
type Emitter struct {
	q Queue
}

// NewEmitter creates an Emitter forwarding to q.
//
// Panics if q is nil.
func NewEmitter(q Queue) *Emitter {
	if q == nil {
		panic("spyglass: Queue must not be nil")
	}

	return &Emitter{q: q}
}

// Emit stamps and enqueues a custom event with the given payload fields.
func (e *Emitter) Emit(ctx context.Context, kind Kind, fields map[string]any) {
	e.q.Enqueue(Stamp(ctx, kind, fields))
}

// EmitRequest records a completed request with its route, status code, and
// duration in nanoseconds.
func (e *Emitter) EmitRequest(ctx context.Context, route string, status int, durNS uint64) {
	e.q.Enqueue(Stamp(ctx, KindRequest, map[string]any{
		"route":  route,
		"status": status,
		"dur_ns": durNS,
	}))
}

// EmitFunc records a timed function call with its name, duration in
// nanoseconds, and error outcome.
func (e *Emitter) EmitFunc(ctx context.Context, name string, durNS uint64, isErr bool) {
	e.q.Enqueue(Stamp(ctx, KindFunction, map[string]any{
		"name":   name,
		"dur_ns": durNS,
		"error":  isErr,
	}))
}
