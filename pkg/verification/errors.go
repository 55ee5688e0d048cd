package verification

import "errors"

var (
	// ErrInvalidEmail is returned when a claimed address is empty or malformed
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrTokenInvalid is returned when a token was never issued or was already consumed
	ErrTokenInvalid = errors.New("invalid verification token")

	// ErrTokenExpired is returned when a token is consumed after its TTL
	ErrTokenExpired = errors.New("verification token has expired")

	// ErrEmailMismatch is returned when the email presented at consume differs from the one bound at issue
	ErrEmailMismatch = errors.New("verification token was issued for a different email")

	// ErrTokenCollision is returned when no unused token value could be generated
	ErrTokenCollision = errors.New("could not generate a unique verification token")

	// ErrTokenNotFound is returned by a TokenStore when no outstanding token matches
	ErrTokenNotFound = errors.New("verification token not found")
)

// IsRejected reports whether err means the presented token must not verify anything
func IsRejected(err error) bool {
	return errors.Is(err, ErrTokenInvalid) || errors.Is(err, ErrTokenExpired) || errors.Is(err, ErrEmailMismatch)
}
