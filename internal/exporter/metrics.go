// Package exporter polls a device's system log and publishes Prometheus
// metrics plus a small HTTP API over the collected entries.
package exporter

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds all Prometheus metrics for the log poller.
type Metrics struct {
	EntriesTotal  *prometheus.CounterVec
	ParseFailures prometheus.Counter
	FetchErrors   prometheus.Counter
	FetchDuration prometheus.Histogram
	LastEntryAge  prometheus.Gauge
	BufferedLines prometheus.Gauge
}

// NewMetrics creates and registers all poller metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EntriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "camtap_log_entries_total",
			Help: "Total new log entries seen, by severity",
		}, []string{"level"}),
		ParseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "camtap_parse_failures_total",
			Help: "Total log lines that matched no known format",
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "camtap_fetch_errors_total",
			Help: "Total failed system log fetches",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "camtap_fetch_duration_seconds",
			Help:    "Duration of system log fetch and parse",
			Buckets: prometheus.DefBuckets,
		}),
		LastEntryAge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "camtap_last_entry_age_seconds",
			Help: "Age of the newest log entry at the last fetch",
		}),
		BufferedLines: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "camtap_buffered_entries",
			Help: "Entries currently held in the recent-entry buffer",
		}),
	}
	reg.MustRegister(
		m.EntriesTotal,
		m.ParseFailures,
		m.FetchErrors,
		m.FetchDuration,
		m.LastEntryAge,
		m.BufferedLines,
	)
	return m
}
