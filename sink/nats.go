package sink

import (
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/spyglass-io/spyglass"
)

// NATS publishes each batch as a single newline-delimited JSON message on a
// subject. Publishing is fire-and-forget through the client's internal
// buffer, so Write does not wait on a round trip; delivery is best-effort by
// contract.
type NATS struct {
	nc      *nats.Conn
	subject string
	ownConn bool
}

// NewNATS dials the configured server and returns a publishing sink that
// owns the connection.
func NewNATS(cfg *spyglass.NATSConfig) (*NATS, error) {
	nc, err := nats.Connect(cfg.GetURL(), nats.Name("spyglass"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	s := WrapConn(nc, cfg.GetSubject())
	s.ownConn = true

	return s, nil
}

// WrapConn creates a sink publishing on an existing connection. The caller
// retains ownership of the connection; Close will not close it.
//
// Panics if nc is nil.
func WrapConn(nc *nats.Conn, subject string) *NATS {
	if nc == nil {
		panic("sink: nats.Conn must not be nil")
	}

	return &NATS{nc: nc, subject: subject}
}

// Write encodes the batch and publishes it.
func (n *NATS) Write(batch []*spyglass.Event) error {
	payload, err := encodeLines(batch)
	if err != nil {
		return err
	}
	if err := n.nc.Publish(n.subject, payload); err != nil {
		return fmt.Errorf("publish batch: %w", err)
	}

	return nil
}

// Close flushes pending publishes and, for owned connections, closes the
// connection.
func (n *NATS) Close() error {
	err := n.nc.Flush()
	if n.ownConn {
		n.nc.Close()
	}

	return err
}

var _ Sink = (*NATS)(nil)
