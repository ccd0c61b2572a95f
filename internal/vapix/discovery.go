package vapix

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Service is one API advertised by the apidiscovery endpoint.
type Service struct {
	ID      string `json:"id"`
	Version string `json:"version"`
	Name    string `json:"name"`
}

// Services asks the device which APIs it supports. Firmware older than
// 8.50 has no apidiscovery endpoint at all; that surfaces as
// ErrUnsupportedFeature.
func (d *Device) Services(ctx context.Context) ([]Service, error) {
	var data struct {
		APIList []Service `json:"apiList"`
	}
	if err := d.jsonCall(ctx, "/axis-cgi/apidiscovery.cgi", "1.0", "getApiList", nil, &data); err != nil {
		if errors.Is(err, ErrUnsupportedFeature) {
			return nil, err
		}
		return nil, fmt.Errorf("discover services: %w", err)
	}

	sort.Slice(data.APIList, func(i, j int) bool {
		return data.APIList[i].ID < data.APIList[j].ID
	})
	return data.APIList, nil
}

// SupportsService reports whether the given API id appears in the
// device's service list.
func SupportsService(services []Service, id string) bool {
	for _, s := range services {
		if s.ID == id {
			return true
		}
	}
	return false
}
