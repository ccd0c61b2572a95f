package vapix

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFeature indicates the device does not implement the
// requested API. Older firmware predates apidiscovery entirely.
var ErrUnsupportedFeature = errors.New("device does not support this feature")

// StatusError is a non-200 HTTP response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("device returned HTTP status %d", e.Code)
}

// ContentTypeError is a response whose Content-Type does not match what
// the endpoint is documented to return.
type ContentTypeError struct {
	Got  string
	Want string
}

func (e *ContentTypeError) Error() string {
	if e.Got == "" {
		return fmt.Sprintf("device response had no Content-Type, expected %s", e.Want)
	}
	return fmt.Sprintf("device response had Content-Type %q, expected %s", e.Got, e.Want)
}

// APIError is a structured error from a JSON endpoint.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("device API error %d", e.Code)
	}
	return fmt.Sprintf("device API error %d: %s", e.Code, e.Message)
}

// mapNotFound converts a 404 into ErrUnsupportedFeature for endpoints
// where absence means the firmware predates the API.
func mapNotFound(err error) error {
	var se *StatusError
	if errors.As(err, &se) && se.Code == 404 {
		return ErrUnsupportedFeature
	}
	return err
}
