// Package identity authenticates API callers from a bearer token.
//
// Two verifiers are provided. SecretVerifier checks HS256 tokens signed with a
// shared secret. JWKSVerifier checks RS256 tokens against a remote key set,
// which is how Firebase ID tokens are validated outside the Admin SDK.
package identity

import (
	"context"
	"errors"
	"log/slog"
)

var ErrInvalidToken = errors.New("invalid bearer token")

// Identity is the authenticated caller
type Identity struct {
	Subject string                 `json:"uid"`
	Email   string                 `json:"email,omitempty"`
	Name    string                 `json:"name,omitempty"`
	Claims  map[string]interface{} `json:"claims,omitempty"`
}

func (i Identity) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("uid", i.Subject),
		slog.String("email", i.Email),
	)
}

// Verifier validates a raw bearer token
type Verifier interface {
	Verify(ctx context.Context, raw string) (Identity, error)
}

// identityFromClaims maps standard and Firebase claim names
func identityFromClaims(claims map[string]interface{}) Identity {
	id := Identity{Claims: claims}
	id.Subject, _ = claims["sub"].(string)
	if id.Subject == "" {
		id.Subject, _ = claims["user_id"].(string)
	}
	id.Email, _ = claims["email"].(string)
	id.Name, _ = claims["name"].(string)
	return id
}

// contextKey is a value for use with context.WithValue.
type contextKey struct {
	name string
}

func (k *contextKey) String() string {
	return "identity context value " + k.name
}

var identityKey = &contextKey{"Identity"}

// NewContext returns a copy of ctx carrying id
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// FromContext returns the identity stored by Authenticator
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
