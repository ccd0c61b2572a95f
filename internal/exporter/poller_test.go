package exporter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/ppiankov/camtap/internal/buffers"
	"github.com/ppiankov/camtap/internal/syslog"
)

// fakeFetcher serves canned log buffers, one per call.
type fakeFetcher struct {
	buffers     []string
	generatedAt time.Time
	calls       int
	err         error
}

func (f *fakeFetcher) SystemLog(context.Context) (*syslog.Entries, error) {
	if f.err != nil {
		return nil, f.err
	}
	buf := f.buffers[f.calls]
	if f.calls < len(f.buffers)-1 {
		f.calls++
	}
	return syslog.NewEntries(buf, f.generatedAt), nil
}

func gatherMetric(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	return nil
}

func counterValue(t *testing.T, reg *prometheus.Registry, name, level string) float64 {
	t.Helper()
	f := gatherMetric(t, reg, name)
	if f == nil {
		return 0
	}
	for _, m := range f.GetMetric() {
		if level == "" {
			return m.GetCounter().GetValue()
		}
		for _, l := range m.GetLabel() {
			if l.GetName() == "level" && l.GetValue() == level {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestPollerCountsNewEntriesOnce(t *testing.T) {
	first := "2020-10-09T10:00:00.000+00:00 axis-0 [ INFO    ] boot: starting\n" +
		"2020-10-09T10:00:01.000+00:00 axis-0 [ WARNING ] kernel: over temperature\n"
	second := first +
		"2020-10-09T10:00:02.000+00:00 axis-0 [ WARNING ] kernel: still hot\n"

	fetcher := &fakeFetcher{
		buffers:     []string{first, second},
		generatedAt: time.Date(2020, time.October, 9, 10, 0, 10, 0, time.UTC),
	}
	reg := prometheus.NewRegistry()
	ring := buffers.NewEntryRing(10)
	p := NewPoller(fetcher, time.Minute, NewMetrics(reg), ring)

	p.Poll(context.Background())
	if got := counterValue(t, reg, "camtap_log_entries_total", "warning"); got != 1 {
		t.Errorf("after first poll: warning count = %v, want 1", got)
	}

	// The second fetch returns the whole log again plus one new line;
	// only the new line may be counted.
	p.Poll(context.Background())
	if got := counterValue(t, reg, "camtap_log_entries_total", "warning"); got != 2 {
		t.Errorf("after second poll: warning count = %v, want 2", got)
	}
	if got := counterValue(t, reg, "camtap_log_entries_total", "info"); got != 1 {
		t.Errorf("info count = %v, want 1", got)
	}

	snap := ring.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("ring holds %d entries, want 3", len(snap))
	}
	if snap[2].Message != "still hot" {
		t.Errorf("newest ring entry = %q", snap[2].Message)
	}
}

func TestPollerCountsParseFailures(t *testing.T) {
	fetcher := &fakeFetcher{
		buffers:     []string{"total garbage\n2020-10-09T10:00:00.000+00:00 axis-0 [ INFO    ] ok\n"},
		generatedAt: time.Date(2020, time.October, 9, 11, 0, 0, 0, time.UTC),
	}
	reg := prometheus.NewRegistry()
	p := NewPoller(fetcher, time.Minute, NewMetrics(reg), buffers.NewEntryRing(10))

	p.Poll(context.Background())
	if got := counterValue(t, reg, "camtap_parse_failures_total", ""); got != 1 {
		t.Errorf("parse failures = %v, want 1", got)
	}
	if got := counterValue(t, reg, "camtap_log_entries_total", "info"); got != 1 {
		t.Errorf("info count = %v, want 1", got)
	}
}

func TestPollerCountsFetchErrors(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	reg := prometheus.NewRegistry()
	ring := buffers.NewEntryRing(10)
	p := NewPoller(fetcher, time.Minute, NewMetrics(reg), ring)

	p.Poll(context.Background())
	if got := counterValue(t, reg, "camtap_fetch_errors_total", ""); got != 1 {
		t.Errorf("fetch errors = %v, want 1", got)
	}
	if ring.Len() != 0 {
		t.Errorf("ring holds %d entries after a failed fetch", ring.Len())
	}
}

func TestPollerLastEntryAge(t *testing.T) {
	fetcher := &fakeFetcher{
		buffers:     []string{"2020-10-09T10:00:00.000+00:00 axis-0 [ INFO    ] boot: done\n"},
		generatedAt: time.Date(2020, time.October, 9, 10, 0, 42, 0, time.UTC),
	}
	reg := prometheus.NewRegistry()
	p := NewPoller(fetcher, time.Minute, NewMetrics(reg), buffers.NewEntryRing(10))

	p.Poll(context.Background())
	f := gatherMetric(t, reg, "camtap_last_entry_age_seconds")
	if f == nil {
		t.Fatal("gauge not registered")
	}
	if got := f.GetMetric()[0].GetGauge().GetValue(); got != 42 {
		t.Errorf("last entry age = %v, want 42", got)
	}
}

func TestPollerRunStopsOnCancel(t *testing.T) {
	fetcher := &fakeFetcher{
		buffers:     []string{""},
		generatedAt: time.Now(),
	}
	reg := prometheus.NewRegistry()
	p := NewPoller(fetcher, 10*time.Millisecond, NewMetrics(reg), buffers.NewEntryRing(10))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := p.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run returned %v, want deadline exceeded", err)
	}
}
