package sink

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spyglass-io/spyglass"
)

// encodeLines renders a batch as newline-delimited JSON, preserving order.
func encodeLines(batch []*spyglass.Event) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, ev := range batch {
		// Encode appends the trailing newline itself.
		if err := enc.Encode(ev); err != nil {
			return nil, fmt.Errorf("encode event: %w", err)
		}
	}

	return buf.Bytes(), nil
}
