// Package sink defines the destination contract for event batches and
// provides the reference implementations: a rotating JSONL file sink, a
// console sink, a NATS publishing sink, and an OTLP log-bridge sink.
//
// A sink accepts an ordered batch of events, may fail, and must not block
// indefinitely. Delivery is best-effort: the collector drops a batch whose
// write fails and moves on, so sinks should not retry internally for longer
// than a bounded time.
package sink
