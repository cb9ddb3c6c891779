// Package errors provides structured error types for the waypost application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the hal, traverson, and client packages
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (bad curies, empty rels, bad URLs)
//   - ILLEGAL_STATE: Operations invoked in the wrong order or on the wrong shape
//   - DECODE: Malformed HAL documents or link objects
//   - NOT_FOUND: Resource or recorded response not found
//   - NETWORK/TIMEOUT/RATE_LIMITED: Transport-level errors
//   - HTTP_STATUS: Unexpected non-2xx responses
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidArgument, "invalid curie href: %s", href)
//	if errors.Is(err, errors.ErrCodeInvalidArgument) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidArgument Code = "INVALID_ARGUMENT"
	ErrCodeInvalidCurie    Code = "INVALID_CURIE"
	ErrCodeInvalidURL      Code = "INVALID_URL"
	ErrCodeInvalidTemplate Code = "INVALID_TEMPLATE"

	// State errors
	ErrCodeIllegalState Code = "ILLEGAL_STATE"

	// Document decoding errors
	ErrCodeDecode Code = "DECODE"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Network errors
	ErrCodeNetwork     Code = "NETWORK"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// HTTP response errors
	ErrCodeHTTPStatus Code = "HTTP_STATUS"

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

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// StatusError provides additional information for unexpected HTTP responses.
type StatusError struct {
	StatusCode int    // HTTP status code of the response
	URL        string // Request URL (optional)
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// Code returns the error code for this error type.
func (e *StatusError) Code() Code {
	return ErrCodeHTTPStatus
}

// RateLimitedError provides additional information for rate-limited responses.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
