package syslog

import (
	"testing"
	"time"
)

func TestParseLegacyEntry(t *testing.T) {
	tests := []struct {
		name string
		line string
		want rawEntry
	}{
		{
			name: "repeated marker has no source",
			line: "<REPEATED> Nov 14 06:08:29 axis-00408cb99b33 last CRITICAL  message repeated 4 times",
			want: rawEntry{
				timestamp: partial(time.November, 14, 6, 8, 29),
				hostname:  "axis-00408cb99b33",
				level:     Repeated,
				message:   "last CRITICAL  message repeated 4 times",
			},
		},
		{
			name: "named source",
			line: "<CRITICAL> Nov 14 06:07:54 axis-00408cb99b33 kernel: CIFS VFS: Send error in SessSetup = -13",
			want: rawEntry{
				timestamp: partial(time.November, 14, 6, 7, 54),
				hostname:  "axis-00408cb99b33",
				level:     Critical,
				source:    Source{Kind: SourceName, Name: "kernel"},
				message:   "CIFS VFS: Send error in SessSetup = -13",
			},
		},
		{
			name: "source with pid and single-digit day",
			line: "<INFO    > Oct  9 15:41:26 axis-00408cfb6888 syslogd[23459]: 1.4.1: restart.",
			want: rawEntry{
				timestamp: partial(time.October, 9, 15, 41, 26),
				hostname:  "axis-00408cfb6888",
				level:     Info,
				source:    Source{Kind: SourceNameAndPID, Name: "syslogd", PID: 23459},
				message:   "1.4.1: restart.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseRawEntry(tt.line)
			if !ok {
				t.Fatalf("parseRawEntry(%q) failed", tt.line)
			}
			if !rawEntriesEqual(got, tt.want) {
				t.Errorf("parseRawEntry(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseFixedEntry(t *testing.T) {
	tests := []struct {
		name string
		line string
		want rawEntry
	}{
		{
			name: "source with pid",
			line: "2020-10-09T10:30:02.425-05:00 axis-accc8ef7d108 [ INFO    ] systemd[1]: Started Rotate log files.",
			want: rawEntry{
				timestamp: fixed(2020, time.October, 9, 10, 30, 2, 425, -5*3600),
				hostname:  "axis-accc8ef7d108",
				level:     Info,
				source:    Source{Kind: SourceNameAndPID, Name: "systemd", PID: 1},
				message:   "Started Rotate log files.",
			},
		},
		{
			name: "kernel-prefixed message keeps bracket noise in the message",
			line: "2020-10-08T22:16:11.027-05:00 axis-accc8ef7d108 [ WARNING ] [    5.501068][    T1] systemd[1]: /usr/lib/systemd/system/imagectrl-data.service:2: Unknown key name 'Desription' in section 'Unit', ignoring.",
			want: rawEntry{
				timestamp: fixed(2020, time.October, 8, 22, 16, 11, 27, -5*3600),
				hostname:  "axis-accc8ef7d108",
				level:     Warning,
				message:   "[    5.501068][    T1] systemd[1]: /usr/lib/systemd/system/imagectrl-data.service:2: Unknown key name 'Desription' in section 'Unit', ignoring.",
			},
		},
		{
			name: "named source before bracket noise",
			line: "2020-10-08T22:16:11.033-05:00 axis-accc8ef7d108 [ WARNING ] kernel: [    7.050105][  T126] artpec_5: module license 'Proprietary' taints kernel.",
			want: rawEntry{
				timestamp: fixed(2020, time.October, 8, 22, 16, 11, 33, -5*3600),
				hostname:  "axis-accc8ef7d108",
				level:     Warning,
				source:    Source{Kind: SourceName, Name: "kernel"},
				message:   "[    7.050105][  T126] artpec_5: module license 'Proprietary' taints kernel.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseRawEntry(tt.line)
			if !ok {
				t.Fatalf("parseRawEntry(%q) failed", tt.line)
			}
			if !rawEntriesEqual(got, tt.want) {
				t.Errorf("parseRawEntry(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseRawEntryRejects(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "too short", line: "<INFO    > Oct  9 15:41:26 x"},
		{name: "unknown legacy tag", line: "<VERBOSE > Oct  9 15:41:26 axis-0 hello there"},
		{name: "zero-padded legacy day", line: "<INFO    > Oct 09 15:41:26 axis-0 hello there"},
		{name: "missing separator space", line: "<INFO    > Oct  9 15:41:26xaxis-0 hello there"},
		{name: "legacy without message space", line: "<INFO    > Oct  9 15:41:26 nothing-after-hostname"},
		{name: "two tokens only", line: "2020-10-09T10:30:02.425-05:00 axis-accc8ef7d108"},
		{name: "truncated fixed timestamp", line: "2020-10-09T10:30:02.425-05:0 axis-accc8ef7d108 [ INFO    ] hi"},
		{name: "unknown fixed tag", line: "2020-10-09T10:30:02.425-05:00 axis-accc8ef7d108 [ REPEAT  ] hi"},
		{name: "fixed tag without message", line: "2020-10-09T10:30:02.425-05:00 axis-accc8ef7d108 [ INFO    ]"},
		{name: "month out of range", line: "2020-13-09T10:30:02.425-05:00 axis-accc8ef7d108 [ INFO    ] hi"},
		{name: "nonexistent date", line: "2021-02-29T10:30:02.425-05:00 axis-accc8ef7d108 [ INFO    ] hi"},
		{name: "bad offset sign", line: "2020-10-09T10:30:02.425*05:00 axis-accc8ef7d108 [ INFO    ] hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, ok := parseRawEntry(tt.line); ok {
				t.Errorf("parseRawEntry(%q) = %+v, want failure", tt.line, got)
			}
		})
	}
}

func TestLevelTagRoundTrip(t *testing.T) {
	for l := Emergency; l <= Repeated; l++ {
		got, ok := levelFromLegacyTag(l.LegacyTag())
		if !ok || got != l {
			t.Errorf("levelFromLegacyTag(%q) = %v, %v; want %v", l.LegacyTag(), got, ok, l)
		}
	}
	// The newer format has no Repeated tag.
	for l := Emergency; l <= Debug; l++ {
		got, ok := levelFromTag(l.Tag() + " ")
		if !ok || got != l {
			t.Errorf("levelFromTag(%q) = %v, %v; want %v", l.Tag()+" ", got, ok, l)
		}
	}
	if _, ok := levelFromTag(Repeated.Tag() + " "); ok {
		t.Errorf("levelFromTag accepted the repeated tag")
	}
}

func TestSplitSourceMessage(t *testing.T) {
	tests := []struct {
		name       string
		tail       string
		wantSource Source
		wantMsg    string
	}{
		{
			name:       "no colon",
			tail:       "plain message",
			wantSource: Source{},
			wantMsg:    "plain message",
		},
		{
			name:       "bare name",
			tail:       "kernel: oops",
			wantSource: Source{Kind: SourceName, Name: "kernel"},
			wantMsg:    "oops",
		},
		{
			name:       "name and pid",
			tail:       "sshd[812]: session opened",
			wantSource: Source{Kind: SourceNameAndPID, Name: "sshd", PID: 812},
			wantMsg:    "session opened",
		},
		{
			name:       "pid overflow abandons the split",
			tail:       "sshd[99999999999]: session opened",
			wantSource: Source{},
			wantMsg:    "sshd[99999999999]: session opened",
		},
		{
			name:       "non-numeric pid abandons the split",
			tail:       "worker[a1]: ready",
			wantSource: Source{},
			wantMsg:    "worker[a1]: ready",
		},
		{
			name:       "empty candidate abandons the split",
			tail:       ": leading colon",
			wantSource: Source{},
			wantMsg:    ": leading colon",
		},
		{
			name:       "bracketed pid with empty name still counts",
			tail:       "[42]: odd but accepted",
			wantSource: Source{Kind: SourceNameAndPID, Name: "", PID: 42},
			wantMsg:    "odd but accepted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, msg := splitSourceMessage(tt.tail)
			if source != tt.wantSource || msg != tt.wantMsg {
				t.Errorf("splitSourceMessage(%q) = %+v, %q; want %+v, %q",
					tt.tail, source, msg, tt.wantSource, tt.wantMsg)
			}
		})
	}
}

func TestSourceString(t *testing.T) {
	tests := []struct {
		source Source
		want   string
	}{
		{Source{}, ""},
		{Source{Kind: SourceName, Name: "kernel"}, "kernel"},
		{Source{Kind: SourceNameAndPID, Name: "systemd", PID: 1}, "systemd[1]"},
	}
	for _, tt := range tests {
		if got := tt.source.String(); got != tt.want {
			t.Errorf("Source.String() = %q, want %q", got, tt.want)
		}
	}
}

// rawEntriesEqual compares raw entries field by field. time.Time values
// are compared by instant and offset, since == also compares location
// pointers.
func rawEntriesEqual(a, b rawEntry) bool {
	if a.hostname != b.hostname || a.level != b.level || a.source != b.source || a.message != b.message {
		return false
	}
	x, y := a.timestamp, b.timestamp
	if x.partial != y.partial {
		return false
	}
	if x.partial {
		return x.month == y.month && x.day == y.day &&
			x.hour == y.hour && x.minute == y.minute && x.sec == y.sec && x.milli == y.milli
	}
	_, xOff := x.fixed.Zone()
	_, yOff := y.fixed.Zone()
	return x.fixed.Equal(y.fixed) && xOff == yOff
}

// partial builds a year-less raw timestamp for test expectations.
func partial(month time.Month, day, hour, minute, sec int) rawTimestamp {
	return rawTimestamp{
		partial: true,
		month:   month,
		day:     day,
		hour:    hour,
		minute:  minute,
		sec:     sec,
	}
}

// fixed builds a complete raw timestamp at the given offset (seconds
// east of UTC).
func fixed(year int, month time.Month, day, hour, minute, sec, milli, offset int) rawTimestamp {
	return rawTimestamp{
		fixed: time.Date(year, month, day, hour, minute, sec, milli*int(time.Millisecond), time.FixedZone("", offset)),
	}
}
