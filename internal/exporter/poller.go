package exporter

import (
	"context"
	"time"

	"github.com/ppiankov/camtap/internal/buffers"
	"github.com/ppiankov/camtap/internal/syslog"
)

// LogFetcher retrieves one system log snapshot. *vapix.Device satisfies
// it.
type LogFetcher interface {
	SystemLog(ctx context.Context) (*syslog.Entries, error)
}

// Poller periodically fetches the system log, records metrics, and
// appends entries it has not seen before to the ring.
type Poller struct {
	fetcher  LogFetcher
	interval time.Duration
	metrics  *Metrics
	ring     *buffers.EntryRing

	// watermark is the newest timestamp seen so far. The device returns
	// the whole log on every fetch; everything at or before the mark
	// was counted on a previous cycle.
	watermark time.Time
	haveMark  bool
}

// NewPoller creates a Poller. interval must be positive.
func NewPoller(fetcher LogFetcher, interval time.Duration, metrics *Metrics, ring *buffers.EntryRing) *Poller {
	return &Poller{
		fetcher:  fetcher,
		interval: interval,
		metrics:  metrics,
		ring:     ring,
	}
}

// Run polls until the context is canceled. The first poll happens
// immediately.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll performs one fetch-parse-record cycle.
func (p *Poller) Poll(ctx context.Context) {
	start := time.Now()
	entries, err := p.fetcher.SystemLog(ctx)
	if err != nil {
		p.metrics.FetchErrors.Inc()
		return
	}

	ordered, errs := entries.Chronological()
	p.metrics.ParseFailures.Add(float64(len(errs)))

	var fresh []syslog.Entry
	for _, entry := range ordered {
		ts := entry.Timestamp.Time()
		if p.haveMark && !ts.After(p.watermark) {
			continue
		}
		fresh = append(fresh, entry)
		if ts.After(p.watermark) {
			p.watermark = ts
		}
		p.haveMark = true
	}
	p.ring.PushAll(fresh)

	for _, entry := range fresh {
		p.metrics.EntriesTotal.WithLabelValues(entry.Level.String()).Inc()
	}
	if len(ordered) > 0 {
		newest := ordered[len(ordered)-1].Timestamp.Time()
		p.metrics.LastEntryAge.Set(entries.GeneratedAt().Sub(newest).Seconds())
	}
	p.metrics.BufferedLines.Set(float64(p.ring.Len()))
	p.metrics.FetchDuration.Observe(time.Since(start).Seconds())
}
