package syslog

import (
	"iter"
	"strings"
	"time"
)

// Entries owns one retrieved system log: the raw text and the instant
// the device generated it (normally the HTTP Date response header).
// It is immutable; any number of streams may be taken from it, each
// independent of the others.
type Entries struct {
	buffer      string
	generatedAt time.Time
}

// NewEntries wraps a raw log buffer. generatedAt anchors year-less
// timestamps, so clock drift only matters once it approaches six months.
func NewEntries(buffer string, generatedAt time.Time) *Entries {
	return &Entries{buffer: buffer, generatedAt: generatedAt}
}

// Buffer returns the raw log text.
func (e *Entries) Buffer() string { return e.buffer }

// GeneratedAt returns the reference instant used for timestamp
// resolution.
func (e *Entries) GeneratedAt() time.Time { return e.generatedAt }

// All streams parsed entries newest-first (the buffer's last line
// first). Lines that fail to parse yield a *ParseError instead of an
// entry; the stream continues past them, and they do not disturb the
// successor timestamp used to resolve year-less lines.
func (e *Entries) All() iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		var last Timestamp
		haveLast := false
		for line := range reverseLines(e.buffer) {
			raw, ok := parseRawEntry(line)
			if !ok {
				if !yield(Entry{}, &ParseError{Line: line}) {
					return
				}
				continue
			}
			ts, ok := raw.timestamp.resolve(last, haveLast, e.generatedAt)
			if !ok {
				if !yield(Entry{}, &ParseError{Line: line}) {
					return
				}
				continue
			}
			last, haveLast = ts, true
			entry := Entry{
				Timestamp: ts,
				Hostname:  raw.hostname,
				Level:     raw.level,
				Source:    raw.source,
				Message:   raw.message,
			}
			if !yield(entry, nil) {
				return
			}
		}
	}
}

// Chronological collects the whole stream and returns the entries
// oldest-first, along with any per-line parse errors.
func (e *Entries) Chronological() ([]Entry, []error) {
	var entries []Entry
	var errs []error
	for entry, err := range e.All() {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		entries = append(entries, entry)
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, errs
}

// reverseLines walks buf line by line from the end. Each line has one
// trailing carriage return trimmed; blank lines and section separators
// ("----- ... -----") are skipped.
func reverseLines(buf string) iter.Seq[string] {
	return func(yield func(string) bool) {
		end := len(buf)
		for {
			nl := strings.LastIndexByte(buf[:end], '\n')
			line := strings.TrimSuffix(buf[nl+1:end], "\r")
			if line != "" && !isSeparator(line) {
				if !yield(line) {
					return
				}
			}
			if nl < 0 {
				return
			}
			end = nl
		}
	}
}

func isSeparator(line string) bool {
	return strings.HasPrefix(line, "----- ") && strings.HasSuffix(line, " -----")
}
