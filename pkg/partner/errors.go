package partner

import "errors"

var (
	// ErrPartnerNotFound is returned when no verified record exists for an email
	ErrPartnerNotFound = errors.New("verified partner not found")

	// ErrInvalidEmail is returned when the key is empty after normalization
	ErrInvalidEmail = errors.New("invalid partner email")
)
