package syslog

import (
	"sort"
	"strconv"
	"time"
)

// Timestamp is a fully resolved entry timestamp. Entries from the newer
// format carry a UTC offset; resolved legacy entries are wall-clock only
// (Zoned reports false) because the device never recorded their offset.
type Timestamp struct {
	t     time.Time
	zoned bool
}

// Time returns the underlying instant. For unzoned timestamps the
// location is UTC by convention but carries no meaning.
func (t Timestamp) Time() time.Time { return t.t }

// Zoned reports whether the timestamp carries a real UTC offset.
func (t Timestamp) Zoned() bool { return t.zoned }

// Equal reports whether two timestamps are the same kind and instant.
func (t Timestamp) Equal(o Timestamp) bool {
	return t.zoned == o.zoned && t.t.Equal(o.t)
}

// String renders zoned timestamps as RFC 3339 with milliseconds and
// offset, and unzoned ones without either.
func (t Timestamp) String() string {
	if t.zoned {
		return t.t.Format("2006-01-02T15:04:05.000-07:00")
	}
	return t.t.Format("2006-01-02T15:04:05")
}

// MarshalJSON encodes the timestamp as its string form.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, t.String()), nil
}

// rawTimestamp is an entry timestamp as written on the line: either
// complete with an offset (newer format) or month/day/time-of-day only
// (legacy format).
type rawTimestamp struct {
	partial bool

	// fixed is set when partial is false.
	fixed time.Time

	// The fields below are set when partial is true.
	month  time.Month
	day    int
	hour   int
	minute int
	sec    int
	milli  int
}

const halfYear = 180 * 86400

// resolve produces a full timestamp. Partial timestamps are anchored to
// the successor (the chronologically next-later entry) when that was
// itself resolved from a partial timestamp, otherwise to the log's
// generation instant. The resolved year is whichever of the anchor's
// year and its two neighbors lands closest to the anchor.
func (r rawTimestamp) resolve(successor Timestamp, haveSuccessor bool, generatedAt time.Time) (Timestamp, bool) {
	if !r.partial {
		return Timestamp{t: r.fixed, zoned: true}, true
	}

	var ref time.Time
	if haveSuccessor && !successor.zoned {
		ref = successor.t
	} else {
		ref = generatedAt.UTC()
	}
	refUnix := ref.Unix()

	// Fast path: the anchor-year candidate within half a year of the
	// anchor is always the winner.
	if t, ok := r.withYear(ref.Year()); ok {
		if abs64(t.Unix()-refUnix) < halfYear {
			return Timestamp{t: t}, true
		}
	}

	// Near a year boundary (or on a date like Feb 29 that does not exist
	// in the anchor year) compare all three candidates. The slice order
	// breaks distance ties in favor of the anchor year.
	var candidates []time.Time
	for _, year := range []int{ref.Year(), ref.Year() - 1, ref.Year() + 1} {
		if t, ok := r.withYear(year); ok {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return Timestamp{}, false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return abs64(candidates[i].Unix()-refUnix) < abs64(candidates[j].Unix()-refUnix)
	})
	return Timestamp{t: candidates[0]}, true
}

// withYear places the partial timestamp in the given year, rejecting
// dates that year does not contain (Feb 29 off leap years).
func (r rawTimestamp) withYear(year int) (time.Time, bool) {
	if !validDate(year, r.month, r.day) {
		return time.Time{}, false
	}
	return time.Date(year, r.month, r.day, r.hour, r.minute, r.sec, r.milli*int(time.Millisecond), time.UTC), true
}

func validDate(year int, month time.Month, day int) bool {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && t.Month() == month && t.Day() == day
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// parseLegacyTimestamp reads the fixed 15-byte "Mon DD HH:MM:SS" field
// of the legacy format. Single-digit days are space-padded, "Oct  9".
func parseLegacyTimestamp(s string) (rawTimestamp, bool) {
	if len(s) != 15 {
		return rawTimestamp{}, false
	}
	month, ok := monthAbbrev(s[0:4])
	if !ok {
		return rawTimestamp{}, false
	}
	day, ok := paddedDay(s[4:7])
	if !ok {
		return rawTimestamp{}, false
	}
	hour, ok := twoDigits(s[7:9], 23)
	if !ok {
		return rawTimestamp{}, false
	}
	minute, ok := colonField(s[9:12], 59)
	if !ok {
		return rawTimestamp{}, false
	}
	sec, ok := colonField(s[12:15], 60)
	if !ok {
		return rawTimestamp{}, false
	}
	return rawTimestamp{
		partial: true,
		month:   month,
		day:     day,
		hour:    hour,
		minute:  minute,
		sec:     sec,
	}, true
}

// parseFixedTimestamp reads the 29-byte "YYYY-MM-DDTHH:MM:SS.mmm±HH:MM"
// token of the newer format.
func parseFixedTimestamp(s string) (rawTimestamp, bool) {
	if len(s) != 29 {
		return rawTimestamp{}, false
	}
	year, err := strconv.Atoi(s[0:4])
	if err != nil {
		return rawTimestamp{}, false
	}
	if s[4] != '-' || s[7] != '-' || s[10] != 'T' || s[19] != '.' {
		return rawTimestamp{}, false
	}
	m, ok := twoDigits(s[5:7], 12)
	if !ok || m == 0 {
		return rawTimestamp{}, false
	}
	month := time.Month(m)
	day, ok := twoDigits(s[8:10], 31)
	if !ok || day == 0 {
		return rawTimestamp{}, false
	}
	hour, ok := twoDigits(s[11:13], 23)
	if !ok {
		return rawTimestamp{}, false
	}
	minute, ok := colonField(s[13:16], 59)
	if !ok {
		return rawTimestamp{}, false
	}
	sec, ok := colonField(s[16:19], 60)
	if !ok {
		return rawTimestamp{}, false
	}
	milli, ok := threeDigits(s[20:23])
	if !ok {
		return rawTimestamp{}, false
	}
	offset, ok := parseOffset(s[23:])
	if !ok {
		return rawTimestamp{}, false
	}
	if !validDate(year, month, day) {
		return rawTimestamp{}, false
	}
	t := time.Date(year, month, day, hour, minute, sec, milli*int(time.Millisecond), time.FixedZone("", offset))
	return rawTimestamp{fixed: t}, true
}

// parseOffset reads a "±HH:MM" offset, or "Z", into seconds east of UTC.
func parseOffset(s string) (int, bool) {
	if s == "Z" {
		return 0, true
	}
	if len(s) != 6 {
		return 0, false
	}
	sign := 0
	switch s[0] {
	case '+':
		sign = 1
	case '-':
		sign = -1
	default:
		return 0, false
	}
	hour, ok := twoDigits(s[1:3], 23)
	if !ok {
		return 0, false
	}
	minute, ok := colonField(s[3:6], 59)
	if !ok {
		return 0, false
	}
	return sign * (hour*60 + minute) * 60, true
}

func monthAbbrev(s string) (time.Month, bool) {
	switch s {
	case "Jan ":
		return time.January, true
	case "Feb ":
		return time.February, true
	case "Mar ":
		return time.March, true
	case "Apr ":
		return time.April, true
	case "May ":
		return time.May, true
	case "Jun ":
		return time.June, true
	case "Jul ":
		return time.July, true
	case "Aug ":
		return time.August, true
	case "Sep ":
		return time.September, true
	case "Oct ":
		return time.October, true
	case "Nov ":
		return time.November, true
	case "Dec ":
		return time.December, true
	}
	return 0, false
}

// paddedDay reads the 3-byte day field " 9 " or "14 ". Days below 10 are
// space-padded, never zero-padded.
func paddedDay(s string) (int, bool) {
	if len(s) != 3 || s[2] != ' ' {
		return 0, false
	}
	if s[0] == ' ' {
		if s[1] < '1' || s[1] > '9' {
			return 0, false
		}
		return int(s[1] - '0'), true
	}
	day, ok := twoDigits(s[0:2], 31)
	if !ok || day < 10 {
		return 0, false
	}
	return day, true
}

func twoDigits(s string, max int) (int, bool) {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	v := int(s[0]-'0')*10 + int(s[1]-'0')
	if v > max {
		return 0, false
	}
	return v, true
}

func colonField(s string, max int) (int, bool) {
	if len(s) != 3 || s[0] != ':' {
		return 0, false
	}
	return twoDigits(s[1:3], max)
}

func threeDigits(s string) (int, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	if len(s) != 3 {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	return v, err == nil
}
