package vapix

import (
	"context"
	"net/http"
	"time"

	"github.com/ppiankov/camtap/internal/syslog"
)

// SystemLog fetches the device's system log. The HTTP Date response
// header supplies the reference instant for year-less timestamps; if
// it is missing or malformed, the local wall clock stands in. Clock
// drift only becomes a problem near six months.
func (d *Device) SystemLog(ctx context.Context) (*syslog.Entries, error) {
	body, headers, err := d.roundtrip(ctx, http.MethodGet, "/axis-cgi/systemlog.cgi", "text/plain", "", nil)
	if err != nil {
		return nil, err
	}

	generatedAt := time.Now()
	if date := headers.Get("Date"); date != "" {
		if t, err := http.ParseTime(date); err == nil {
			generatedAt = t
		}
	}

	return syslog.NewEntries(string(body), generatedAt), nil
}
