package verification

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Token is an outstanding verification token
type Token struct {
	Value     string    `json:"-"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the token is no longer valid at now
func (t Token) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// TokenGenerator returns a fresh token value
type TokenGenerator func() (string, error)

// generateToken returns 32 random bytes, URL-safe encoded
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// hashToken is the storage key for a token value
func hashToken(value string) string {
	sum := blake2b.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
