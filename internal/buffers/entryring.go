// Package buffers holds recently seen log entries for the /recent
// endpoint and the interactive viewer.
package buffers

import (
	"sync"

	"github.com/ppiankov/camtap/internal/syslog"
)

const defaultRingSize = 10_000

// EntryRing is a fixed-size circular buffer of parsed log entries.
// All methods are safe for concurrent use.
type EntryRing struct {
	mu      sync.Mutex
	buf     []syslog.Entry
	cap     int
	head    int // next write position
	count   int // entries in buffer (≤ cap)
	version int // monotonic counter for change detection
}

// NewEntryRing creates a ring buffer with the given capacity.
// If cap ≤ 0, defaultRingSize is used.
func NewEntryRing(cap int) *EntryRing {
	if cap <= 0 {
		cap = defaultRingSize
	}
	return &EntryRing{
		buf: make([]syslog.Entry, cap),
		cap: cap,
	}
}

// Push adds an entry to the ring. If full, the oldest entry is
// overwritten. Never blocks.
func (r *EntryRing) Push(entry syslog.Entry) {
	r.mu.Lock()
	r.push(entry)
	r.mu.Unlock()
}

// PushAll adds entries in order under one lock acquisition. The poller
// appends whole batches, oldest first.
func (r *EntryRing) PushAll(entries []syslog.Entry) {
	if len(entries) == 0 {
		return
	}
	r.mu.Lock()
	for _, e := range entries {
		r.push(e)
	}
	r.mu.Unlock()
}

func (r *EntryRing) push(entry syslog.Entry) {
	r.buf[r.head] = entry
	r.head = (r.head + 1) % r.cap
	if r.count < r.cap {
		r.count++
	}
	r.version++
}

// Snapshot returns a chronological copy of all entries in the ring.
func (r *EntryRing) Snapshot() []syslog.Entry {
	return r.SnapshotFiltered(nil)
}

// SnapshotFiltered returns a chronological copy of entries matching the
// predicate. A nil predicate matches everything.
func (r *EntryRing) SnapshotFiltered(fn func(syslog.Entry) bool) []syslog.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.count == 0 {
		return nil
	}

	var out []syslog.Entry
	if fn == nil {
		out = make([]syslog.Entry, 0, r.count)
	}
	start := (r.head - r.count + r.cap) % r.cap
	for i := 0; i < r.count; i++ {
		entry := r.buf[(start+i)%r.cap]
		if fn == nil || fn(entry) {
			out = append(out, entry)
		}
	}
	return out
}

// AtLeast builds a predicate keeping entries at or above the given
// severity. Repeated markers are always kept; they stand in for entries
// whose own severity is unknown.
func AtLeast(level syslog.Level) func(syslog.Entry) bool {
	return func(e syslog.Entry) bool {
		return e.Level <= level || e.Level == syslog.Repeated
	}
}

// Version returns a monotonic counter that increments on every Push.
func (r *EntryRing) Version() int {
	r.mu.Lock()
	v := r.version
	r.mu.Unlock()
	return v
}

// Len returns the number of entries currently buffered.
func (r *EntryRing) Len() int {
	r.mu.Lock()
	n := r.count
	r.mu.Unlock()
	return n
}
