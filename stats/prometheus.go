package stats

import (
	"github.com/prometheus/client_golang/prometheus"
)

// promCollector exposes a Store's rolling-window summary to a Prometheus
// registry. Values are window aggregates, not monotonic counters, so every
// metric is a gauge.
type promCollector struct {
	store *Store

	count     *prometheus.Desc
	errors    *prometheus.Desc
	errorRate *prometheus.Desc
	latency   *prometheus.Desc
}

// NewPrometheusCollector returns a prometheus.Collector reading the store's
// summary on every scrape. Register it with any registry:
//
//	prometheus.MustRegister(stats.NewPrometheusCollector(store))
func NewPrometheusCollector(s *Store) prometheus.Collector {
	return &promCollector{
		store: s,
		count: prometheus.NewDesc(
			"spyglass_window_samples",
			"Samples recorded inside the trailing window.",
			nil, nil,
		),
		errors: prometheus.NewDesc(
			"spyglass_window_errors",
			"Errored samples recorded inside the trailing window.",
			nil, nil,
		),
		errorRate: prometheus.NewDesc(
			"spyglass_window_error_rate",
			"Errored fraction of samples inside the trailing window.",
			nil, nil,
		),
		latency: prometheus.NewDesc(
			"spyglass_window_latency_seconds",
			"Approximate latency percentile over the trailing window.",
			[]string{"quantile"}, nil,
		),
	}
}

func (c *promCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.count
	ch <- c.errors
	ch <- c.errorRate
	ch <- c.latency
}

func (c *promCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.store.Summary()

	ch <- prometheus.MustNewConstMetric(c.count, prometheus.GaugeValue, float64(s.Count))
	ch <- prometheus.MustNewConstMetric(c.errors, prometheus.GaugeValue, float64(s.ErrorCount))
	ch <- prometheus.MustNewConstMetric(c.errorRate, prometheus.GaugeValue, s.ErrorRate)
	ch <- prometheus.MustNewConstMetric(c.latency, prometheus.GaugeValue, float64(s.P50)/1e9, "0.5")
	ch <- prometheus.MustNewConstMetric(c.latency, prometheus.GaugeValue, float64(s.P90)/1e9, "0.9")
	ch <- prometheus.MustNewConstMetric(c.latency, prometheus.GaugeValue, float64(s.P99)/1e9, "0.99")
}
