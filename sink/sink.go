package sink

import (
	"context"
	"fmt"

	"github.com/spyglass-io/spyglass"
)

// Sink consumes ordered batches of events. Implementations must be safe for
// use by a single flush goroutine; Write must not panic across the caller's
// boundary (the collector recovers, but a panicking sink is a bug) and must
// not block indefinitely.
//
// Ownership of the batch and its events transfers to the sink at Write.
type Sink interface {
	// Write delivers one batch. A returned error means the whole batch was
	// not durably accepted; the caller drops it.
	Write(batch []*spyglass.Event) error

	// Close releases underlying resources. Write must not be called after
	// Close.
	Close() error
}

// Nop is a sink that discards every batch.
type Nop struct{}

func (Nop) Write(_ []*spyglass.Event) error { return nil }
func (Nop) Close() error                    { return nil }

// New builds a sink from configuration. The context is used only for
// construction (e.g., dialing an OTLP endpoint), not for writes.
func New(ctx context.Context, cfg *spyglass.SinkConfig) (Sink, error) {
	switch cfg.GetType() {
	case "jsonl":
		return NewJSONL(cfg.GetJSONL())
	case "console":
		return NewConsole(cfg.GetConsole()), nil
	case "nats":
		return NewNATS(cfg.GetNATS())
	case "otlp":
		return NewOTLP(ctx, cfg.GetOTLP())
	case "none":
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown sink type %q", spyglass.ErrInvalidConfig, cfg.GetType())
	}
}
