// Package errors provides structured error types for the knapsack solvers,
// the CLI and the HTTP API.
//
// Every failure that leaves a solver or the pipeline carries a [Code] so
// callers can tell invalid input apart from resource exhaustion or an
// internal invariant violation without matching on message text.
//
// # Error Codes
//
//   - INVALID_*: input validation failures (item count, capacity, items, algorithm, format)
//   - FILE_NOT_FOUND: instance or config file missing
//   - RESOURCE_EXHAUSTED: a table or search stack would exceed its configured limit
//   - RATE_LIMITED, TIMEOUT: HTTP API request throttled or over its deadline
//   - INTERNAL_ERROR: an invariant check failed (out-of-range table index, oversized selection)
//   - UNSUPPORTED: the request is valid but the chosen algorithm cannot handle it
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidCapacity, "capacity must be positive, got %v", c)
//	if errors.Is(err, errors.ErrCodeInvalidCapacity) {
//	    // report and exit non-zero
//	}
//
//	err = errors.Wrap(errors.ErrCodeFileNotFound, origErr, "open %s", path)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidItem      Code = "INVALID_ITEM"
	ErrCodeInvalidCapacity  Code = "INVALID_CAPACITY"
	ErrCodeInvalidAlgorithm Code = "INVALID_ALGORITHM"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"

	// Resource errors
	ErrCodeFileNotFound      Code = "FILE_NOT_FOUND"
	ErrCodeResourceExhausted Code = "RESOURCE_EXHAUSTED"
	ErrCodeRateLimited       Code = "RATE_LIMITED"
	ErrCodeTimeout           Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix for *Error values,
// and the plain error string otherwise.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error code to the status the API responds with.
func HTTPStatus(code Code) int {
	switch code {
	case ErrCodeInvalidInput, ErrCodeInvalidItem, ErrCodeInvalidCapacity,
		ErrCodeInvalidAlgorithm, ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	case ErrCodeResourceExhausted:
		return http.StatusInsufficientStorage
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
