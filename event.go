package spyglass

// Kind classifies what an event measures.
type Kind string

const (
	// KindFunction marks a timed function or internal operation.
	KindFunction Kind = "function"
	// KindRequest marks a request/response boundary.
	KindRequest Kind = "request"
	// KindCustom marks an application-defined event.
	KindCustom Kind = "custom"
)

// Event is a single telemetry record. The Fields payload is opaque to the
// pipeline; only the metadata (timestamp, trace/span IDs, kind) participates
// in the core contract.
//
// Events are immutable once constructed. The collector owns an event from
// enqueue until it is handed to a sink inside a batch; ownership transfers to
// the sink at delivery and the collector retains no reference.
type Event struct {
	// TimestampNS is the monotonic-safe wall-clock time of the event.
	TimestampNS uint64 `json:"ts_ns"`

	// TraceID correlates events belonging to one logical request.
	// Empty means unset.
	TraceID string `json:"trace_id,omitempty"`

	// SpanID identifies the sub-operation that produced the event.
	// Empty means unset.
	SpanID string `json:"span_id,omitempty"`

	// Kind classifies the event.
	Kind Kind `json:"kind"`

	// Fields holds the opaque payload (level, message, attributes, ...).
	Fields map[string]any `json:"fields,omitempty"`
}
