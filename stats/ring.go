package stats

import "sync"

// ErrorItem is one entry in the recent-errors ring, shaped for dashboard
// display.
type ErrorItem struct {
	TimestampNS uint64 `json:"ts_ns"`
	Route       string `json:"route"`
	Status      int    `json:"status"`
	Kind        string `json:"kind"`
	Detail      string `json:"detail"`
}

// errorRing is a fixed-capacity ring: insertion at capacity evicts the
// oldest item, iteration is most-recent-first.
type errorRing struct {
	mu    sync.Mutex
	items []ErrorItem
	next  int
	size  int
}

func newErrorRing(capacity int) *errorRing {
	return &errorRing{items: make([]ErrorItem, capacity)}
}

func (r *errorRing) add(item ErrorItem) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[r.next] = item
	r.next = (r.next + 1) % len(r.items)
	if r.size < len(r.items) {
		r.size++
	}
}

// snapshot copies the ring contents, most recent first.
func (r *errorRing) snapshot() []ErrorItem {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]ErrorItem, r.size)
	for i := range r.size {
		out[i] = r.items[(r.next-1-i+len(r.items))%len(r.items)]
	}

	return out
}
