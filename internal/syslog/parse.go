package syslog

import "strings"

// rawEntry is a parsed line whose timestamp has not been resolved yet.
type rawEntry struct {
	timestamp rawTimestamp
	hostname  string
	level     Level
	source    Source
	message   string
}

// parseRawEntry parses one non-empty, non-separator line, trying the
// legacy fixed-column format first and the newer ISO-prefixed format
// second.
func parseRawEntry(line string) (rawEntry, bool) {
	if e, ok := parseLegacyEntry(line); ok {
		return e, true
	}
	return parseFixedEntry(line)
}

// parseLegacyEntry reads the old format:
//
//	<INFO    > Oct  9 15:41:26 axis-00408cfb6888 syslogd[23459]: 1.4.1: restart.
//
// Bytes [0,11) are the level tag, [11,26) the year-less timestamp,
// byte 26 a separator space, then hostname and the tail.
func parseLegacyEntry(line string) (rawEntry, bool) {
	if len(line) < 30 {
		return rawEntry{}, false
	}

	level, ok := levelFromLegacyTag(line[0:11])
	if !ok {
		return rawEntry{}, false
	}
	ts, ok := parseLegacyTimestamp(line[11:26])
	if !ok {
		return rawEntry{}, false
	}
	if line[26] != ' ' {
		return rawEntry{}, false
	}

	rest := line[27:]
	sp := strings.IndexByte(rest, ' ')
	if sp < 0 {
		return rawEntry{}, false
	}
	hostname, tail := rest[:sp], rest[sp+1:]

	source, message := splitSourceMessage(tail)
	return rawEntry{
		timestamp: ts,
		hostname:  hostname,
		level:     level,
		source:    source,
		message:   message,
	}, true
}

// parseFixedEntry reads the newer format:
//
//	2020-10-09T10:30:02.425-05:00 axis-accc8ef7d108 [ INFO    ] systemd[1]: Started Rotate log files.
//
// Three space-separated tokens: a 29-byte offset-bearing timestamp, the
// hostname, and a remainder whose first 12 bytes are the level tag.
func parseFixedEntry(line string) (rawEntry, bool) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 {
		return rawEntry{}, false
	}

	ts, ok := parseFixedTimestamp(parts[0])
	if !ok {
		return rawEntry{}, false
	}

	rest := parts[2]
	if len(rest) < 13 {
		return rawEntry{}, false
	}
	level, ok := levelFromTag(rest[:12])
	if !ok {
		return rawEntry{}, false
	}

	source, message := splitSourceMessage(rest[12:])
	return rawEntry{
		timestamp: ts,
		hostname:  parts[1],
		level:     level,
		source:    source,
		message:   message,
	}, true
}

// splitSourceMessage splits a tail into an optional source descriptor
// and the message. The tail may be "{source}: {message}" or just
// "{message}"; we assume the former and fall back when the candidate
// before the first ": " does not parse as a source. Messages that merely
// contain ": " near the start can therefore be misread as sourced — that
// matches what the devices themselves write and is left as is.
func splitSourceMessage(tail string) (Source, string) {
	if i := strings.Index(tail, ": "); i >= 0 {
		if source, ok := parseSource(tail[:i]); ok {
			return source, tail[i+2:]
		}
	}
	return Source{}, tail
}
