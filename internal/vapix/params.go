package vapix

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Parameters lists the device's parameter tree as flat key=value pairs.
// If groups are given, only those subtrees are returned. Lines without
// an "=" are skipped; the devices occasionally emit comment lines.
func (d *Device) Parameters(ctx context.Context, groups ...string) (map[string]string, error) {
	query := url.Values{"action": {"list"}}
	if len(groups) > 0 {
		query.Set("group", strings.Join(groups, ","))
	}

	body, _, err := d.roundtrip(ctx, http.MethodGet, "/axis-cgi/param.cgi?"+query.Encode(), "text/plain", "", nil)
	if err != nil {
		return nil, fmt.Errorf("list parameters: %w", err)
	}

	params := make(map[string]string)
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if key, value, ok := strings.Cut(line, "="); ok {
			params[key] = value
		}
	}
	return params, nil
}

// UpdateParameters sets one or more parameters. The device answers a
// bare "OK" on success; a body starting with "# " carries its error
// message.
func (d *Device) UpdateParameters(ctx context.Context, params map[string]string) error {
	if len(params) == 0 {
		return fmt.Errorf("no parameters to update")
	}

	query := url.Values{"action": {"update"}}
	for key, value := range params {
		query.Set(key, value)
	}

	body, _, err := d.roundtrip(ctx, http.MethodGet, "/axis-cgi/param.cgi?"+query.Encode(), "text/plain", "", nil)
	if err != nil {
		return fmt.Errorf("update parameters: %w", err)
	}

	reply := strings.TrimSpace(string(body))
	switch {
	case reply == "OK":
		return nil
	case strings.HasPrefix(reply, "# "):
		return fmt.Errorf("update parameters: device said %q", strings.TrimPrefix(reply, "# "))
	default:
		return fmt.Errorf("update parameters: unexpected reply %q", reply)
	}
}
