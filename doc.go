// Package spyglass provides an in-process telemetry pipeline for Go services.
//
// # Overview
//
// Application code emits structured events (log lines, request and function
// timings) from many concurrent goroutines. The pipeline buffers, batches,
// and hands them to pluggable sinks without blocking the caller, while a
// rolling-window aggregator maintains live latency and error statistics.
//
// The root package holds the building blocks:
//   - Trace/span context propagation over [context.Context]
//   - Span ID generation ([SpanID]) and a monotonic-safe clock ([NowNS])
//   - The [Event] model and the [Emitter] that stamps and forwards events
//   - The [Config] surface, loadable from YAML/JSON and environment
//
// Subpackages:
//   - collector: bounded, non-blocking event collector with batching
//   - sink: sink contract plus JSONL (rotating), console, NATS, and OTLP sinks
//   - stats: rolling-window latency/error aggregator and error ring
//
// # Quick Start
//
//	cfg, err := spyglass.LoadConfig("spyglass.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	s, err := sink.New(ctx, cfg.Sink)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	col, err := collector.New(s, cfg.Collector)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer col.Close()
//
//	em := spyglass.NewEmitter(col)
//
//	ctx = spyglass.Activate(ctx, spyglass.SpanID(), spyglass.SpanID())
//	em.EmitRequest(ctx, "/orders", 200, durNS)
//
// # Context Propagation
//
// [Activate] derives a context carrying trace and span IDs. Goroutines
// spawned with that context observe a snapshot of the IDs at spawn time;
// siblings never observe each other's values, and discarding the derived
// context restores exactly the fields it set. Reads are plain context
// lookups with no locking.
//
// # Backpressure
//
// Enqueueing never blocks a producer. When the collector's queue is full the
// oldest unsent event is evicted (drop-oldest); losses under sustained
// overload are a deliberate trade-off favoring producer latency over
// completeness, observable via the collector's Dropped counter.
package spyglass
