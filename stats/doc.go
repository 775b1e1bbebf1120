// Package stats maintains a trailing rolling window of request/operation
// outcomes under highly concurrent writes and answers summary queries
// cheaply.
//
// Samples land in fixed-width time buckets (1s granularity by default) over
// a configurable window (15 minutes by default). Buckets older than the
// window are evicted lazily as the window advances; summaries aggregate only
// non-expired buckets and never include future ones.
//
// # Percentile Approximation
//
// Each bucket holds a fixed 256-counter log-scale histogram instead of raw
// samples, keeping memory bounded regardless of traffic. Durations below 8ns
// are exact; above that each octave is split into 8 sub-buckets, so a
// reported percentile is within a factor of 2^(1/8) of the true value, a
// relative error bound of about 9%. Durations beyond ~17s saturate the top
// bucket.
//
// The error ring is independent of window eviction: it retains the K most
// recent error items regardless of age, most-recent-first.
package stats
