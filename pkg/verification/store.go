package verification

import (
	"context"
	"time"
)

// TokenStore holds the outstanding tokens.
// Implementations must make Add and Take atomic with respect to each other.
type TokenStore interface {
	// Add records the token unless its value is already outstanding.
	// It returns false when the value collides.
	Add(ctx context.Context, token Token) (bool, error)
	// Take removes and returns the token. Exactly one of many concurrent
	// callers for the same value succeeds; the rest get ErrTokenNotFound.
	Take(ctx context.Context, value string) (Token, error)
	// Remove drops the token if present
	Remove(ctx context.Context, value string) error
	// SweepExpired drops tokens expired at now and returns how many were removed
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}
