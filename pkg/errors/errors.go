package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode string

// Error codes used across the portal packages
const (
	// Generic errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// Authentication errors
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Verification errors
	ErrCodeTokenInvalid ErrorCode = "TOKEN_INVALID"
	ErrCodeNotVerified  ErrorCode = "NOT_VERIFIED"

	// Collaborator errors
	ErrCodeDispatchFailed   ErrorCode = "DISPATCH_FAILED"
	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
)

// Error represents a structured error with code, message, and optional details
type Error struct {
	Code    ErrorCode              // Unique error code
	Message string                 // Human-readable error message, safe to return to callers
	Details map[string]interface{} // Optional additional details, logged only
	Err     error                  // Wrapped underlying error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail adds a detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new Error with the given code and message
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with code and message
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsCode checks if an error has a specific error code
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
// Returns ErrCodeInternal if the error is not a structured Error
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

// PublicMessage returns the caller-facing message of a structured error,
// or fallback when err carries no structured Error.
func PublicMessage(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}

// MapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func MapErrorCodeToHTTPStatus(code ErrorCode) int {
	switch code {
	// 400 Bad Request
	case ErrCodeInvalidInput, ErrCodeTokenInvalid:
		return http.StatusBadRequest

	// 401 Unauthorized
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized

	// 403 Forbidden
	case ErrCodeNotVerified:
		return http.StatusForbidden

	// 500 Internal Server Error
	case ErrCodeDispatchFailed, ErrCodeStoreUnavailable, ErrCodeInternal:
		return http.StatusInternalServerError

	default:
		return http.StatusInternalServerError
	}
}

// Common error constructors for frequently used errors

// InvalidInput creates an "invalid input" error
func InvalidInput(field, reason string) *Error {
	return New(ErrCodeInvalidInput, fmt.Sprintf("invalid %s: %s", field, reason))
}

// Unauthorized creates an "unauthorized" error
func Unauthorized(message string) *Error {
	return New(ErrCodeUnauthorized, message)
}

// TokenInvalid wraps a ledger failure as an invalid-token error
func TokenInvalid(err error) *Error {
	return Wrap(err, ErrCodeTokenInvalid, "Invalid or expired token.")
}

// NotVerified creates a "partner not verified" error
func NotVerified(email string) *Error {
	return New(ErrCodeNotVerified, "Partner email not verified.").WithDetail("email", email)
}

// DispatchFailed wraps a mail relay failure
func DispatchFailed(err error, message string) *Error {
	return Wrap(err, ErrCodeDispatchFailed, message)
}

// StoreUnavailable wraps a document store failure
func StoreUnavailable(err error) *Error {
	return Wrap(err, ErrCodeStoreUnavailable, "Partner store unavailable.")
}
