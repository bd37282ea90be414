package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Daybook error code.
type ErrorCode string

const (
	ErrConfigMissing  ErrorCode = "CONFIG_MISSING"  // required setting absent, fatal at first use
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrRemoteFailed   ErrorCode = "REMOTE_FAILED"   // remote API returned non-2xx or was unreachable
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// DaybookError represents a structured error with code, status, and details.
type DaybookError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *DaybookError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewConfigMissing creates an error for a missing required environment variable.
func NewConfigMissing(name string) *DaybookError {
	return &DaybookError{
		Code:    ErrConfigMissing,
		Status:  500,
		Message: fmt.Sprintf("missing required environment variable: %s", name),
		Details: map[string]any{"name": name},
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *DaybookError {
	return &DaybookError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a record that cannot be found.
func NewNotFound(identifier string) *DaybookError {
	return &DaybookError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewRemoteFailed creates an error for a failed remote API call.
// The message carries the server's error text when available so callers
// can surface it to the user.
func NewRemoteFailed(status int, body string) *DaybookError {
	msg := body
	if msg == "" {
		msg = fmt.Sprintf("request failed: %d", status)
	}
	return &DaybookError{
		Code:    ErrRemoteFailed,
		Status:  status,
		Message: msg,
		Details: map[string]any{"http_status": status},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message is generic; the original error is stored in Details for logging.
func NewInternal(err error) *DaybookError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &DaybookError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// Is checks if an error is (or wraps) a DaybookError with the given code.
func Is(err error, code ErrorCode) bool {
	var dErr *DaybookError
	if stderrors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
