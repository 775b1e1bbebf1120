package collector

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/spyglass-io/spyglass"
	"github.com/spyglass-io/spyglass/internal/logx"
	"github.com/spyglass-io/spyglass/sink"
)

// Option configures a Collector.
type Option func(*Collector)

// WithErrorHandler installs a callback invoked with every sink write error
// and recovered sink panic, after the failure has been logged. The callback
// runs on the flush goroutine and must return promptly.
func WithErrorHandler(fn func(error)) Option {
	return func(c *Collector) {
		c.onError = fn
	}
}

// Collector is a bounded drop-oldest queue with a background batching flush
// loop. All methods are safe for concurrent use.
type Collector struct {
	sink          sink.Sink
	batchMax      int
	flushInterval time.Duration
	onError       func(error)

	mu     sync.Mutex
	buf    []*spyglass.Event
	head   int
	count  int
	closed bool

	wake chan struct{}
	done chan struct{}
	wg   sync.WaitGroup

	dropped   atomic.Uint64
	delivered atomic.Uint64
}

// New validates the configuration, starts the flush loop, and returns the
// collector. A nil cfg uses defaults.
func New(s sink.Sink, cfg *spyglass.CollectorConfig, opts ...Option) (*Collector, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: sink must not be nil", spyglass.ErrInvalidConfig)
	}
	queueSize := cfg.GetQueueSize()
	batchMax := cfg.GetBatchMax()
	flushInterval := cfg.GetFlushInterval()
	if queueSize <= 0 || batchMax <= 0 || flushInterval <= 0 {
		return nil, fmt.Errorf("%w: queueSize=%d batchMax=%d flushInterval=%s",
			spyglass.ErrInvalidConfig, queueSize, batchMax, flushInterval)
	}

	c := &Collector{
		sink:          s,
		batchMax:      batchMax,
		flushInterval: flushInterval,
		buf:           make([]*spyglass.Event, queueSize),
		wake:          make(chan struct{}, 1),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.wg.Add(1)
	go c.loop()

	return c, nil
}

// Enqueue adds an event to the queue. It never blocks the caller: when the
// queue is at capacity the oldest unsent event is silently evicted, and
// after Close the event is dropped outright. Both cases increment the
// Dropped counter; neither is surfaced to the producer as an error.
func (c *Collector) Enqueue(ev *spyglass.Event) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.dropped.Add(1)

		return
	}

	if c.count == len(c.buf) {
		// Drop-oldest: evict the head to admit the new event.
		c.buf[c.head] = nil
		c.head = (c.head + 1) % len(c.buf)
		c.count--
		c.dropped.Add(1)
	}
	c.buf[(c.head+c.count)%len(c.buf)] = ev
	c.count++
	full := c.count >= c.batchMax
	c.mu.Unlock()

	if full {
		select {
		case c.wake <- struct{}{}:
		default:
		}
	}
}

// loop is the single background flush goroutine. It delivers full batches as
// soon as the queue holds batchMax events, and everything pending on each
// flush-interval tick, so no event waits longer than flushInterval plus sink
// latency. Close wakes it immediately via done.
func (c *Collector) loop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.flushAll()
		case <-c.wake:
			for c.pending() >= c.batchMax {
				c.deliver(c.drain(c.batchMax))
			}
		}
	}
}

// flushAll drains everything currently queued in batchMax-sized batches.
func (c *Collector) flushAll() {
	for {
		batch := c.drain(c.batchMax)
		if len(batch) == 0 {
			return
		}
		c.deliver(batch)
	}
}

// drain removes up to max events from the ring in enqueue order.
func (c *Collector) drain(max int) []*spyglass.Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := min(c.count, max)
	if n == 0 {
		return nil
	}

	batch := make([]*spyglass.Event, n)
	for i := range n {
		batch[i] = c.buf[c.head]
		c.buf[c.head] = nil
		c.head = (c.head + 1) % len(c.buf)
	}
	c.count -= n

	return batch
}

// deliver hands one batch to the sink. A write error or sink panic drops the
// batch, is reported to the logger and error handler, and never propagates.
func (c *Collector) deliver(batch []*spyglass.Event) {
	if len(batch) == 0 {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			c.report(fmt.Errorf("sink panic: %v", r), len(batch))
		}
	}()

	if err := c.sink.Write(batch); err != nil {
		c.report(err, len(batch))
		return
	}

	c.delivered.Add(uint64(len(batch)))
}

func (c *Collector) report(err error, batchLen int) {
	logx.L().Error("sink write failed, batch dropped",
		zap.Error(err),
		zap.Int("batch_size", batchLen),
	)
	if c.onError != nil {
		c.onError(err)
	}
}

func (c *Collector) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.count
}

// Close stops the flush loop, drains every remaining queued event into final
// batches of at most batchMax, and delivers them to the sink synchronously
// before returning. It is the one operation allowed to block, bounded by
// sink latency. Subsequent Enqueue calls are dropped no-ops; the collector
// never resurrects, and repeat Close calls return immediately.
func (c *Collector) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.done)
	c.wg.Wait()
	c.flushAll()

	return nil
}

// Dropped reports how many events were evicted on overflow or discarded
// after Close.
func (c *Collector) Dropped() uint64 {
	return c.dropped.Load()
}

// Delivered reports how many events sinks have accepted.
func (c *Collector) Delivered() uint64 {
	return c.delivered.Load()
}

// Pending reports how many events are queued but not yet batched.
func (c *Collector) Pending() int {
	return c.pending()
}

var _ spyglass.Queue = (*Collector)(nil)
