package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spyglass-io/spyglass"
)

// Console renders each event human-readably to an output stream, one event
// per line (or an indented block when pretty rendering is enabled). Failure
// is limited to I/O errors on the underlying stream.
type Console struct {
	w      io.Writer
	pretty bool
}

// ConsoleOption configures a Console sink.
type ConsoleOption func(*Console)

// WithWriter redirects output away from os.Stdout.
func WithWriter(w io.Writer) ConsoleOption {
	return func(c *Console) {
		c.w = w
	}
}

// NewConsole creates a console sink writing to os.Stdout.
func NewConsole(cfg *spyglass.ConsoleConfig, opts ...ConsoleOption) *Console {
	c := &Console{
		w:      os.Stdout,
		pretty: cfg.IsPretty(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Write renders the batch in order. The first I/O error aborts the batch.
func (c *Console) Write(batch []*spyglass.Event) error {
	for _, ev := range batch {
		var (
			line []byte
			err  error
		)
		if c.pretty {
			line, err = json.MarshalIndent(ev, "", "  ")
		} else {
			line, err = json.Marshal(ev)
		}
		if err != nil {
			return fmt.Errorf("encode event: %w", err)
		}

		line = append(line, '\n')
		if _, err := c.w.Write(line); err != nil {
			return fmt.Errorf("write event: %w", err)
		}
	}

	return nil
}

// Close is a no-op; the Console sink does not own its stream.
func (c *Console) Close() error { return nil }

var _ Sink = (*Console)(nil)
