package errors

import (
	"fmt"
	"net/http"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeTimeout     ErrorType = "timeout"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeClient      ErrorType = "client_error"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeNavigation  ErrorType = "navigation"
	ErrorTypeExtraction  ErrorType = "extraction"
	ErrorTypeStorage     ErrorType = "storage"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error is a typed error carrying an optional HTTP status code and cause
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error wrapping cause
func New(errorType ErrorType, message string, cause error) *Error {
	return &Error{Type: errorType, Message: message, Err: cause}
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeTimeout, ErrorTypeRateLimit, ErrorTypeServerError:
		return true
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case http.StatusTooManyRequests:
		return true
	default:
		return statusCode >= 500
	}
}

// FromStatus maps a non-2xx HTTP status to a typed error
func FromStatus(statusCode int) *Error {
	e := &Error{
		Message: fmt.Sprintf("unexpected status %d %s", statusCode, http.StatusText(statusCode)),
		Code:    statusCode,
	}
	switch {
	case statusCode == http.StatusTooManyRequests:
		e.Type = ErrorTypeRateLimit
	case statusCode == http.StatusNotFound || statusCode == http.StatusGone:
		e.Type = ErrorTypeNotFound
	case statusCode >= 500:
		e.Type = ErrorTypeServerError
	case statusCode >= 400:
		e.Type = ErrorTypeClient
	default:
		e.Type = ErrorTypeUnknown
	}
	return e
}
