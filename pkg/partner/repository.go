package partner

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// VerifiedPartner is the durable record that a partner email accepted verification
type VerifiedPartner struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Verified   bool      `json:"verified"`
	VerifiedAt time.Time `json:"verified_at"`
}

// PartnerRepository stores verified partners keyed by email
type PartnerRepository interface {
	// MarkVerified creates the record for email if it does not exist yet and
	// returns the stored record. Calling it again returns the original record.
	MarkVerified(ctx context.Context, email string) (VerifiedPartner, error)
	// IsVerified reports whether a record exists for email
	IsVerified(ctx context.Context, email string) (bool, error)
	// GetPartner returns ErrPartnerNotFound when no record exists
	GetPartner(ctx context.Context, email string) (VerifiedPartner, error)
}

// NormalizeEmail returns the storage key for an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newVerifiedPartner(email string) VerifiedPartner {
	return VerifiedPartner{
		ID:         uuid.New(),
		Email:      email,
		Verified:   true,
		VerifiedAt: time.Now().UTC(),
	}
}
