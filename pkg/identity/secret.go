package identity

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// SecretVerifier validates HS256 tokens signed with a shared secret
type SecretVerifier struct {
	secret   []byte
	issuer   string
	audience string
}

// NewSecretVerifier returns a verifier; issuer and audience are checked only when set
func NewSecretVerifier(secret, issuer, audience string) (*SecretVerifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("auth secret is required")
	}
	return &SecretVerifier{secret: []byte(secret), issuer: issuer, audience: audience}, nil
}

func (v *SecretVerifier) Verify(ctx context.Context, raw string) (Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	id := identityFromClaims(claims)
	if id.Subject == "" {
		return Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return id, nil
}
