// Package syslog parses the free-text system log produced by VAPIX
// devices at /axis-cgi/systemlog.cgi.
//
// Two generations of firmware write two incompatible line formats into
// the same log, and the older one records no year (and no UTC offset) in
// its timestamps. The parser reads the buffer newest-line-first and
// reconstructs absolute time for year-less entries from the nearest
// already-resolved neighbor, falling back to the instant the log was
// generated.
package syslog

import (
	"fmt"
	"strconv"
	"strings"
)

// Level is the severity of a log entry.
type Level uint8

const (
	Emergency Level = iota
	Alert
	Critical
	Error
	Warning
	Notice
	Info
	Debug
	// Repeated marks the legacy-only "last message repeated N times"
	// condition. The newer format never emits it.
	Repeated
)

var levelNames = [...]string{
	Emergency: "emergency",
	Alert:     "alert",
	Critical:  "critical",
	Error:     "error",
	Warning:   "warning",
	Notice:    "notice",
	Info:      "info",
	Debug:     "debug",
	Repeated:  "repeated",
}

// String returns the lower-case severity name, e.g. "warning".
func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("level(%d)", uint8(l))
}

// MarshalJSON encodes the severity as its lower-case name.
func (l Level) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, l.String()), nil
}

// ParseLevel maps a lower-case severity name back to its Level.
func ParseLevel(name string) (Level, bool) {
	for l, n := range levelNames {
		if n == name {
			return Level(l), true
		}
	}
	return 0, false
}

// LegacyTag returns the 11-byte tag the legacy format prefixes to each
// line, trailing space included, e.g. "<EMERG   > ".
func (l Level) LegacyTag() string {
	switch l {
	case Emergency:
		return "<EMERG   > "
	case Alert:
		return "<ALERT   > "
	case Critical:
		return "<CRITICAL> "
	case Error:
		return "<ERR     > "
	case Warning:
		return "<WARNING > "
	case Notice:
		return "<NOTICE  > "
	case Info:
		return "<INFO    > "
	case Debug:
		return "<DEBUG   > "
	case Repeated:
		return "<REPEATED> "
	}
	return ""
}

// Tag returns the bracketed tag used by the newer format, e.g.
// "[ WARNING ]".
func (l Level) Tag() string {
	switch l {
	case Emergency:
		return "[ EMERG   ]"
	case Alert:
		return "[ ALERT   ]"
	case Critical:
		return "[ CRIT    ]"
	case Error:
		return "[ ERR     ]"
	case Warning:
		return "[ WARNING ]"
	case Notice:
		return "[ NOTICE  ]"
	case Info:
		return "[ INFO    ]"
	case Debug:
		return "[ DEBUG   ]"
	case Repeated:
		return "[REPEATED ]"
	}
	return ""
}

func levelFromLegacyTag(tag string) (Level, bool) {
	switch tag {
	case "<EMERG   > ":
		return Emergency, true
	case "<ALERT   > ":
		return Alert, true
	case "<CRITICAL> ":
		return Critical, true
	case "<ERR     > ":
		return Error, true
	case "<WARNING > ":
		return Warning, true
	case "<NOTICE  > ":
		return Notice, true
	case "<INFO    > ":
		return Info, true
	case "<DEBUG   > ":
		return Debug, true
	case "<REPEATED> ":
		return Repeated, true
	}
	return 0, false
}

func levelFromTag(tag string) (Level, bool) {
	switch tag {
	case "[ EMERG   ] ":
		return Emergency, true
	case "[ ALERT   ] ":
		return Alert, true
	case "[ CRIT    ] ":
		return Critical, true
	case "[ ERR     ] ":
		return Error, true
	case "[ WARNING ] ":
		return Warning, true
	case "[ NOTICE  ] ":
		return Notice, true
	case "[ INFO    ] ":
		return Info, true
	case "[ DEBUG   ] ":
		return Debug, true
	}
	return 0, false
}

// SourceKind discriminates the optional source descriptor of an entry.
type SourceKind uint8

const (
	SourceNone SourceKind = iota
	SourceName
	SourceNameAndPID
)

// Source is the optional "name" or "name[pid]" descriptor preceding an
// entry's message.
type Source struct {
	Kind SourceKind
	Name string
	PID  uint32
}

// IsZero reports whether the entry carried no source descriptor.
func (s Source) IsZero() bool { return s.Kind == SourceNone }

// String renders the source the way the device wrote it: "", "name", or
// "name[pid]".
func (s Source) String() string {
	switch s.Kind {
	case SourceName:
		return s.Name
	case SourceNameAndPID:
		return s.Name + "[" + strconv.FormatUint(uint64(s.PID), 10) + "]"
	}
	return ""
}

// MarshalJSON encodes the source as its string form, or null when absent.
func (s Source) MarshalJSON() ([]byte, error) {
	if s.Kind == SourceNone {
		return []byte("null"), nil
	}
	return strconv.AppendQuote(nil, s.String()), nil
}

// parseSource interprets s as a source descriptor. Text ending in "]"
// with a "[" earlier is name[pid]; the pid must fit in a uint32 or the
// whole candidate is rejected. Any other non-empty text is a bare name.
func parseSource(s string) (Source, bool) {
	if i := strings.IndexByte(s, '['); i >= 0 && strings.HasSuffix(s, "]") {
		pid, err := strconv.ParseUint(s[i+1:len(s)-1], 10, 32)
		if err != nil {
			return Source{}, false
		}
		return Source{Kind: SourceNameAndPID, Name: s[:i], PID: uint32(pid)}, true
	}
	if s != "" {
		return Source{Kind: SourceName, Name: s}, true
	}
	return Source{}, false
}

// Entry is one parsed system log record. Hostname, Source and Message
// are substrings of the owning Entries buffer.
type Entry struct {
	Timestamp Timestamp `json:"timestamp"`
	Hostname  string    `json:"hostname"`
	Level     Level     `json:"level"`
	Source    Source    `json:"source,omitzero"`
	Message   string    `json:"message"`
}

// ParseError reports a line which matched neither log format, or whose
// timestamp could not be resolved. The stream continues past it.
type ParseError struct {
	Line string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable log entry: %q", e.Line)
}
