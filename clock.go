package spyglass

import "time"

// processStart anchors NowNS to the wall clock once, so later readings ride
// the monotonic clock and never step backward with wall-clock adjustments.
var processStart = time.Now()

// NowNS returns the current wall-clock time in nanoseconds, monotonically
// non-decreasing within the process. Underlying resolution may be coarser
// than a nanosecond; callers must not assume sub-microsecond precision.
func NowNS() uint64 {
	return uint64(processStart.UnixNano() + int64(time.Since(processStart)))
}
