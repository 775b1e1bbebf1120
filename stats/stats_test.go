package stats

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spyglass-io/spyglass"
)

// fakeClock is a settable nanosecond clock for deterministic window tests.
type fakeClock struct {
	ns atomic.Uint64
}

func (c *fakeClock) now() uint64      { return c.ns.Load() }
func (c *fakeClock) advance(d uint64) { c.ns.Add(d) }

func newTestStore(t *testing.T, clock *fakeClock, opts ...Option) *Store {
	t.Helper()

	opts = append(opts, WithNow(clock.now))
	s, err := New(opts...)
	require.NoError(t, err)

	return s
}

func TestNew_RejectsInvalidOptions(t *testing.T) {
	_, err := New(WithWindow(-time.Second))
	require.ErrorIs(t, err, spyglass.ErrInvalidConfig)

	_, err = New(WithBucket(0))
	require.ErrorIs(t, err, spyglass.ErrInvalidConfig)

	_, err = New(WithErrorCapacity(-1))
	require.ErrorIs(t, err, spyglass.ErrInvalidConfig)

	_, err = New(WithWindow(time.Second), WithBucket(time.Minute))
	require.ErrorIs(t, err, spyglass.ErrInvalidConfig)
}

func TestFromConfig_AppliesDefaults(t *testing.T) {
	s, err := FromConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, s.window)
	assert.Equal(t, time.Second, s.gran)
	assert.Equal(t, 256, s.ringCap)
}

func TestStore_EmptySummary(t *testing.T) {
	s := newTestStore(t, &fakeClock{})

	sum := s.Summary()
	assert.Equal(t, uint64(0), sum.Count)
	assert.Equal(t, uint64(0), sum.ErrorCount)
	assert.Equal(t, float64(0), sum.ErrorRate)
	assert.Equal(t, uint64(0), sum.P50)
}

func TestStore_PercentilesWithinBound(t *testing.T) {
	clock := &fakeClock{}
	s := newTestStore(t, clock)

	for d := uint64(1); d <= 100; d++ {
		s.Record(d, false)
	}

	sum := s.Summary()
	assert.Equal(t, uint64(100), sum.Count)

	// Midpoint approximation keeps each percentile within ~9% of exact.
	assert.InDelta(t, 50, float64(sum.P50), 0.09*50)
	assert.InDelta(t, 90, float64(sum.P90), 0.09*90)
	assert.InDelta(t, 99, float64(sum.P99), 0.09*99)
}

func TestStore_SmallDurationsAreExact(t *testing.T) {
	clock := &fakeClock{}
	s := newTestStore(t, clock)

	for range 10 {
		s.Record(3, false)
	}

	sum := s.Summary()
	assert.Equal(t, uint64(3), sum.P50)
	assert.Equal(t, uint64(3), sum.P99)
}

func TestStore_ErrorRate(t *testing.T) {
	clock := &fakeClock{}
	s := newTestStore(t, clock)

	for i := range 100 {
		s.Record(1000, i%4 == 0) // every 4th sample errors
	}

	sum := s.Summary()
	assert.Equal(t, uint64(100), sum.Count)
	assert.Equal(t, uint64(25), sum.ErrorCount)
	assert.InDelta(t, 0.25, sum.ErrorRate, 1e-9)
}

func TestStore_WindowExpiry(t *testing.T) {
	clock := &fakeClock{}
	s := newTestStore(t, clock,
		WithWindow(10*time.Second),
		WithBucket(time.Second),
	)

	s.Record(100, true)
	assert.Equal(t, uint64(1), s.Summary().Count)

	// Still inside the window after 5s.
	clock.advance(uint64(5 * time.Second))
	s.Record(200, false)
	sum := s.Summary()
	assert.Equal(t, uint64(2), sum.Count)
	assert.Equal(t, uint64(1), sum.ErrorCount)

	// The first sample ages out of the 10s window.
	clock.advance(uint64(6 * time.Second))
	sum = s.Summary()
	assert.Equal(t, uint64(1), sum.Count)
	assert.Equal(t, uint64(0), sum.ErrorCount)

	// Everything ages out.
	clock.advance(uint64(20 * time.Second))
	assert.Equal(t, uint64(0), s.Summary().Count)
}

func TestStore_ExpiredBucketsEvicted(t *testing.T) {
	clock := &fakeClock{}
	s := newTestStore(t, clock,
		WithWindow(3*time.Second),
		WithBucket(time.Second),
	)

	for range 10 {
		s.Record(50, false)
		clock.advance(uint64(time.Second))
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	assert.LessOrEqual(t, len(s.buckets), 4)
}

func TestStore_ConcurrentRecordAndSummary(t *testing.T) {
	clock := &fakeClock{}
	s := newTestStore(t, clock, WithWindow(time.Minute))

	const (
		writers   = 8
		perWriter = 1000
	)

	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWriter {
				s.Record(uint64(i+1), i%10 == 0)
				if i%100 == 0 {
					s.Summary()
				}
			}
		}()
	}
	wg.Wait()

	sum := s.Summary()
	assert.Equal(t, uint64(writers*perWriter), sum.Count)
	assert.Equal(t, uint64(writers*perWriter/10), sum.ErrorCount)
}

func TestBucketIndexValueRoundTrip(t *testing.T) {
	// Every representable duration lands in a bucket whose midpoint is
	// within the documented relative error.
	for _, v := range []uint64{0, 1, 7, 8, 15, 16, 100, 1000, 12345, 1 << 20, 1 << 33} {
		idx := bucketIndex(v)
		got := bucketValue(idx)
		if v < 16 {
			assert.Equal(t, v, got, "v=%d", v)
			continue
		}
		assert.InEpsilon(t, float64(v), float64(got), 0.0906, "v=%d idx=%d", v, idx)
	}

	// Durations beyond the histogram range clamp to the last counter.
	assert.Equal(t, histSize-1, bucketIndex(1<<40))
}

func TestStore_RecordErrorRing(t *testing.T) {
	clock := &fakeClock{}
	s := newTestStore(t, clock, WithErrorCapacity(4))

	for i := 1; i <= 6; i++ {
		s.RecordError(ErrorItem{TimestampNS: uint64(i), Status: 500})
	}

	got := s.RecentErrors()
	require.Len(t, got, 4)
	// Most recent first; the two oldest were evicted.
	for i, item := range got {
		assert.Equal(t, uint64(6-i), item.TimestampNS)
	}
}
