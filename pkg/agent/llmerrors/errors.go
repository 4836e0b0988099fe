// Package llmerrors classifies LLM API failures into retryable and permanent
// classes. The retry wrapper only needs the binary distinction; the finer
// types exist for log and metric labels.
package llmerrors

import (
	"errors"
	"fmt"
)

// ErrorType categorizes an LLM failure for retry decisions.
type ErrorType int8

const (
	// ErrorTypeRateLimit represents rate limiting (429, quota exceeded). Retryable.
	ErrorTypeRateLimit ErrorType = iota
	// ErrorTypeTransient represents 5xx, EOF, connection reset, timeout. Retryable.
	ErrorTypeTransient
	// ErrorTypeEmptyResponse represents HTTP 200 with no content. Retryable.
	ErrorTypeEmptyResponse
	// ErrorTypeAuth represents authentication failures (401/403). Permanent.
	ErrorTypeAuth
	// ErrorTypeBadPrompt represents malformed or rejected requests. Permanent.
	ErrorTypeBadPrompt
	// ErrorTypeUnknown is the default for unclassified errors. Permanent.
	ErrorTypeUnknown
)

// String returns the metric/log label for the error type.
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeRateLimit:
		return "rate_limit"
	case ErrorTypeTransient:
		return "transient"
	case ErrorTypeEmptyResponse:
		return "empty_response"
	case ErrorTypeAuth:
		return "auth"
	case ErrorTypeBadPrompt:
		return "bad_prompt"
	case ErrorTypeUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// Error is a classified LLM failure.
type Error struct {
	Cause   error
	Message string
	Type    ErrorType
	Status  int
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether the wrapped failure class should be retried.
func (e *Error) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeRateLimit, ErrorTypeTransient, ErrorTypeEmptyResponse:
		return true
	case ErrorTypeAuth, ErrorTypeBadPrompt, ErrorTypeUnknown:
		return false
	default:
		return false
	}
}

// New creates a classified error.
func New(errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message}
}

// NewWithStatus creates a classified error carrying an HTTP status code.
func NewWithStatus(errorType ErrorType, statusCode int, message string) *Error {
	return &Error{Type: errorType, Status: statusCode, Message: message}
}

// NewWithCause creates a classified error wrapping an underlying cause.
func NewWithCause(errorType ErrorType, cause error, message string) *Error {
	return &Error{Type: errorType, Cause: cause, Message: message}
}

// IsRetryable reports whether err carries a retryable classification.
// Unclassified errors are treated as permanent.
func IsRetryable(err error) bool {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.IsRetryable()
	}
	return false
}

// TypeOf returns the classification of err, ErrorTypeUnknown when absent.
func TypeOf(err error) ErrorType {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Type
	}
	return ErrorTypeUnknown
}
