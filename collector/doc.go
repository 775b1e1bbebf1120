// Package collector provides the bounded, non-blocking event collector that
// decouples producers from a potentially slow sink.
//
// Producers enqueue events without ever blocking; a fixed-capacity ring
// buffer evicts the oldest unsent event on overflow (drop-oldest). A single
// background goroutine drains the ring into batches and delivers them to the
// sink when a batch fills or the flush interval elapses, whichever comes
// first. Sink failures drop the affected batch and never stop the loop.
//
// Every enqueued event is either included in exactly one batch or evicted
// before delivery; events are never duplicated across batches. Evictions are
// counted and observable via [Collector.Dropped].
package collector
