// Package errors provides structured error handling with error codes for the grievance portal.
//
// Every failure that can reach a request boundary is classified with an ErrorCode,
// and each code maps to one HTTP status:
//
//   - ErrCodeInvalidInput     → 400 Bad Request
//   - ErrCodeTokenInvalid     → 400 Bad Request
//   - ErrCodeUnauthorized     → 401 Unauthorized
//   - ErrCodeNotVerified      → 403 Forbidden
//   - ErrCodeDispatchFailed   → 500 Internal Server Error
//   - ErrCodeStoreUnavailable → 500 Internal Server Error
//
// # Basic Usage
//
//	import "github.com/tendant/grievance-portal/pkg/errors"
//
//	err := errors.InvalidInput("partnerEmail", "must be an email address")
//	err := errors.DispatchFailed(smtpErr, "Failed to send grievance email.")
//
//	if errors.IsCode(err, errors.ErrCodeNotVerified) {
//		// partner has not accepted yet
//	}
//
// The Message of an Error is meant for callers; Err and Details are for
// server-side logs and must never be rendered into a response.
package errors
