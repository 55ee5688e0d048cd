package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultTokenTTL = 24 * time.Hour

	maxIssueAttempts = 5
)

// Ledger issues and consumes verification tokens
type Ledger struct {
	store    TokenStore
	ttl      time.Duration
	now      func() time.Time
	generate TokenGenerator
	validate *validator.Validate
}

// LedgerOption defines configuration options
type LedgerOption func(*Ledger)

// WithTokenTTL sets how long an issued token stays valid
func WithTokenTTL(ttl time.Duration) LedgerOption {
	return func(l *Ledger) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithTokenGenerator replaces the random token source, for tests
func WithTokenGenerator(generate TokenGenerator) LedgerOption {
	return func(l *Ledger) {
		l.generate = generate
	}
}

func NewLedger(store TokenStore, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		store:    store,
		ttl:      DefaultTokenTTL,
		now:      time.Now,
		generate: generateToken,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// TTL returns the configured token lifetime
func (l *Ledger) TTL() time.Duration {
	return l.ttl
}

// normalizeEmail trims and lowercases an address, then checks its syntax
func (l *Ledger) normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := l.validate.Var(email, "required,email"); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return email, nil
}

// Issue records a new outstanding token bound to claimedEmail.
// A generated value that collides with an outstanding token is re-rolled.
func (l *Ledger) Issue(ctx context.Context, claimedEmail string) (Token, error) {
	email, err := l.normalizeEmail(claimedEmail)
	if err != nil {
		return Token{}, err
	}

	for attempt := 1; attempt <= maxIssueAttempts; attempt++ {
		value, err := l.generate()
		if err != nil {
			return Token{}, err
		}

		issuedAt := l.now().UTC()
		token := Token{
			Value:     value,
			Email:     email,
			IssuedAt:  issuedAt,
			ExpiresAt: issuedAt.Add(l.ttl),
		}

		added, err := l.store.Add(ctx, token)
		if err != nil {
			return Token{}, err
		}
		if added {
			slog.Info("Verification token issued", "email", email, "expires_at", token.ExpiresAt)
			return token, nil
		}
		slog.Warn("Verification token collision, re-rolling", "attempt", attempt)
	}

	return Token{}, ErrTokenCollision
}

// Consume removes the token and checks it against claimedEmail.
// The token is gone after this call whatever the outcome: an expired or
// mismatched token cannot be retried.
func (l *Ledger) Consume(ctx context.Context, value, claimedEmail string) (Token, error) {
	if value == "" {
		return Token{}, ErrTokenInvalid
	}

	token, err := l.store.Take(ctx, value)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return Token{}, ErrTokenInvalid
		}
		return Token{}, err
	}

	if token.Expired(l.now()) {
		slog.Warn("Verification token expired", "email", token.Email, "expires_at", token.ExpiresAt)
		return Token{}, ErrTokenExpired
	}

	email := strings.ToLower(strings.TrimSpace(claimedEmail))
	if email != token.Email {
		slog.Warn("Verification token email mismatch", "bound", token.Email, "presented", email)
		return Token{}, ErrEmailMismatch
	}

	return token, nil
}

// Revoke withdraws an outstanding token. Revoking an unknown token is not an error.
func (l *Ledger) Revoke(ctx context.Context, value string) error {
	if value == "" {
		return nil
	}
	return l.store.Remove(ctx, value)
}

// SweepExpired drops expired tokens from stores that do not expire them natively
func (l *Ledger) SweepExpired(ctx context.Context) (int, error) {
	n, err := l.store.SweepExpired(ctx, l.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		slog.Info("Expired verification tokens swept", "count", n)
	}
	return n, nil
}
