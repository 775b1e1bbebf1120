package stats

import (
	"fmt"
	"math"
	"math/bits"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spyglass-io/spyglass"
)

// histSize is the per-bucket histogram counter count. See the package doc
// for the resulting approximation bound.
const histSize = 256

// bucket accumulates one granularity-interval of samples. Counters are
// atomic so concurrent recorders never lock against each other once the
// bucket exists.
type bucket struct {
	errs atomic.Uint64
	hist [histSize]atomic.Uint32
}

// Option configures a Store.
type Option func(*Store)

// WithWindow sets the trailing duration summaries aggregate over.
// Default is 15 minutes.
func WithWindow(w time.Duration) Option {
	return func(s *Store) {
		s.window = w
	}
}

// WithBucket sets the time-bucket granularity. Default is one second.
func WithBucket(g time.Duration) Option {
	return func(s *Store) {
		s.gran = g
	}
}

// WithErrorCapacity sets the error-ring capacity. Default is 256.
func WithErrorCapacity(n int) Option {
	return func(s *Store) {
		s.ringCap = n
	}
}

// WithNow overrides the clock, for hosts with their own time source and for
// tests.
func WithNow(now func() uint64) Option {
	return func(s *Store) {
		s.nowNS = now
	}
}

// Store is a concurrently-written, time-windowed aggregator of latency
// samples and error counts. All methods are safe for concurrent use.
type Store struct {
	window  time.Duration
	gran    time.Duration
	ringCap int
	nowNS   func() uint64

	mu      sync.RWMutex
	buckets map[int64]*bucket

	ring *errorRing
}

// New creates a Store. Non-positive window, granularity, or ring capacity is
// rejected.
func New(opts ...Option) (*Store, error) {
	s := &Store{
		window:  15 * time.Minute,
		gran:    time.Second,
		ringCap: 256,
		nowNS:   spyglass.NowNS,
		buckets: make(map[int64]*bucket),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.window <= 0 || s.gran <= 0 || s.ringCap <= 0 {
		return nil, fmt.Errorf("%w: window=%s bucket=%s errorRing=%d",
			spyglass.ErrInvalidConfig, s.window, s.gran, s.ringCap)
	}
	if s.gran > s.window {
		return nil, fmt.Errorf("%w: bucket %s exceeds window %s",
			spyglass.ErrInvalidConfig, s.gran, s.window)
	}
	s.ring = newErrorRing(s.ringCap)

	return s, nil
}

// FromConfig creates a Store from the pipeline configuration.
func FromConfig(cfg *spyglass.StatsConfig, opts ...Option) (*Store, error) {
	base := []Option{
		WithWindow(cfg.GetWindow()),
		WithBucket(cfg.GetBucket()),
		WithErrorCapacity(cfg.GetErrorRing()),
	}

	return New(append(base, opts...)...)
}

// Record appends one sample to the bucket covering "now". It never blocks
// beyond a short read-lock (or, when the window advances to a new bucket, a
// single write-lock that also evicts expired buckets).
func (s *Store) Record(durNS uint64, isErr bool) {
	key := s.keyNow()

	s.mu.RLock()
	b := s.buckets[key]
	s.mu.RUnlock()

	if b == nil {
		b = s.advance(key)
	}

	b.hist[bucketIndex(durNS)].Add(1)
	if isErr {
		b.errs.Add(1)
	}
}

// advance creates the bucket for key and lazily evicts expired ones.
func (s *Store) advance(key int64) *bucket {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b := s.buckets[key]; b != nil {
		return b
	}

	b := &bucket{}
	s.buckets[key] = b

	minKey := key - s.spanBuckets() + 1
	for k := range s.buckets {
		if k < minKey {
			delete(s.buckets, k)
		}
	}

	return b
}

// spanBuckets is the number of granularity intervals inside the window.
func (s *Store) spanBuckets() int64 {
	n := int64(s.window / s.gran)
	if n < 1 {
		n = 1
	}

	return n
}

func (s *Store) keyNow() int64 {
	return int64(s.nowNS()) / int64(s.gran)
}

// Summary aggregates latency and error statistics over the trailing window.
type Summary struct {
	// Count is the number of samples inside the window.
	Count uint64 `json:"count"`

	// ErrorCount is the number of errored samples inside the window.
	ErrorCount uint64 `json:"error_count"`

	// ErrorRate is ErrorCount/Count, 0 when the window is empty.
	ErrorRate float64 `json:"error_rate"`

	// P50, P90, and P99 are approximate latency percentiles in
	// nanoseconds. See the package doc for the error bound.
	P50 uint64 `json:"p50_ns"`
	P90 uint64 `json:"p90_ns"`
	P99 uint64 `json:"p99_ns"`
}

// Summary aggregates every non-expired bucket into a consistent snapshot.
// Safe to call concurrently with ongoing Record calls; readers never observe
// a partially-initialized bucket.
func (s *Store) Summary() Summary {
	key := s.keyNow()
	minKey := key - s.spanBuckets() + 1

	var (
		merged [histSize]uint64
		errs   uint64
	)

	s.mu.RLock()
	for k, b := range s.buckets {
		if k < minKey || k > key {
			continue
		}
		for i := range b.hist {
			merged[i] += uint64(b.hist[i].Load())
		}
		errs += b.errs.Load()
	}
	s.mu.RUnlock()

	var total uint64
	for _, n := range merged {
		total += n
	}

	out := Summary{Count: total, ErrorCount: errs}
	if total == 0 {
		return out
	}
	out.ErrorRate = float64(errs) / float64(total)
	out.P50 = percentile(&merged, total, 0.50)
	out.P90 = percentile(&merged, total, 0.90)
	out.P99 = percentile(&merged, total, 0.99)

	return out
}

// percentile walks the merged histogram to the bucket holding the q-quantile
// rank and returns that bucket's midpoint value.
func percentile(hist *[histSize]uint64, total uint64, q float64) uint64 {
	rank := uint64(math.Ceil(q * float64(total)))
	if rank == 0 {
		rank = 1
	}

	var cum uint64
	for i, n := range hist {
		cum += n
		if cum >= rank {
			return bucketValue(i)
		}
	}

	return bucketValue(histSize - 1)
}

// bucketIndex maps a duration to its histogram counter. Values below 8 are
// exact; above that, 3 bits after the leading bit select one of 8
// sub-buckets per octave.
func bucketIndex(v uint64) int {
	if v < 8 {
		return int(v)
	}

	o := bits.Len64(v) - 1 // v in [2^o, 2^(o+1)), o >= 3
	idx := (o-2)*8 + int((v>>uint(o-3))&7)
	if idx >= histSize {
		return histSize - 1
	}

	return idx
}

// bucketValue returns the midpoint of the histogram bucket's value range.
func bucketValue(i int) uint64 {
	if i < 8 {
		return uint64(i)
	}

	block := uint(i / 8) // >= 1
	sub := uint64(i % 8)
	lower := (8 + sub) << (block - 1)
	width := uint64(1) << (block - 1)

	return lower + width/2
}

// RecordError appends an item to the error ring, independent of window
// eviction.
func (s *Store) RecordError(item ErrorItem) {
	s.ring.add(item)
}

// RecentErrors returns up to capacity error items, most recent first.
func (s *Store) RecentErrors() []ErrorItem {
	return s.ring.snapshot()
}
