// Package cli carries the structured errors and exit codes shared by
// the camtap commands.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/ppiankov/camtap/internal/vapix"
)

// Exit codes for script and agent retry logic.
const (
	ExitOK          = 0
	ExitInternal    = 1
	ExitUsage       = 2
	ExitNotFound    = 3
	ExitPermission  = 4
	ExitNetwork     = 5
	ExitUnsupported = 6
)

// CLIError is a structured error with a category for script consumption.
type CLIError struct {
	Code    int    `json:"exit_code"`
	Type    string `json:"error"`
	Message string `json:"message"`
	Recover bool   `json:"recoverable"`
}

func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap returns nil — CLIError is a leaf error.
func (e *CLIError) Unwrap() error { return nil }

// NewUsageError creates an error for invalid arguments.
func NewUsageError(msg string) *CLIError {
	return &CLIError{Code: ExitUsage, Type: "invalid_args", Message: msg}
}

// NewNotFoundError creates an error for missing resources.
func NewNotFoundError(msg string) *CLIError {
	return &CLIError{Code: ExitNotFound, Type: "not_found", Message: msg}
}

// NewPermissionError creates an error for access denied.
func NewPermissionError(msg string) *CLIError {
	return &CLIError{Code: ExitPermission, Type: "permission", Message: msg}
}

// NewNetworkError creates a recoverable network error.
func NewNetworkError(msg string) *CLIError {
	return &CLIError{Code: ExitNetwork, Type: "network", Message: msg, Recover: true}
}

// NewUnsupportedError creates an error for features the device firmware
// does not offer.
func NewUnsupportedError(msg string) *CLIError {
	return &CLIError{Code: ExitUnsupported, Type: "unsupported", Message: msg}
}

// NewInternalError creates an error for unexpected failures.
func NewInternalError(msg string) *CLIError {
	return &CLIError{Code: ExitInternal, Type: "internal", Message: msg}
}

// Classify wraps a device or transport error in the matching CLI
// category: HTTP 401/403 become permission errors, unsupported-feature
// sentinels keep their own exit code, and dial/timeout failures are
// flagged recoverable. CLIErrors pass through unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var ce *CLIError
	if errors.As(err, &ce) {
		return err
	}

	if errors.Is(err, vapix.ErrUnsupportedFeature) {
		return NewUnsupportedError(err.Error())
	}
	var se *vapix.StatusError
	if errors.As(err, &se) {
		switch se.Code {
		case 401, 403:
			return NewPermissionError(err.Error())
		case 404:
			return NewNotFoundError(err.Error())
		}
		return NewInternalError(err.Error())
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return NewNetworkError(err.Error())
	}

	return err
}

// ExitCode extracts the exit code from an error.
// Returns ExitInternal (1) for non-CLIError errors, ExitOK (0) for nil.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ce *CLIError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ExitInternal
}

// FormatError writes the error to w. In JSON mode, it writes structured JSON.
// In text mode, it writes "error: <message>".
func FormatError(w io.Writer, err error, jsonMode bool) {
	if err == nil {
		return
	}

	if jsonMode {
		var ce *CLIError
		if !errors.As(err, &ce) {
			ce = &CLIError{
				Code:    ExitInternal,
				Type:    "internal",
				Message: err.Error(),
			}
		}
		data, _ := json.Marshal(ce)
		_, _ = fmt.Fprintln(w, string(data))
		return
	}

	_, _ = fmt.Fprintf(w, "error: %v\n", err)
}
