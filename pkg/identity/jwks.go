package identity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// GoogleSecureTokenJWKSURL serves the keys that sign Firebase ID tokens
const GoogleSecureTokenJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

// JWKSVerifier validates tokens against a cached remote JWK set
type JWKSVerifier struct {
	keys     jwk.Set
	issuer   string
	audience string
}

// NewJWKSVerifier fetches the key set once and keeps it refreshed in the background
// for as long as ctx lives.
func NewJWKSVerifier(ctx context.Context, jwksURL, issuer, audience string) (*JWKSVerifier, error) {
	if issuer == "" || audience == "" {
		return nil, fmt.Errorf("issuer and audience are required")
	}

	cache := jwk.NewCache(ctx)
	if err := cache.Register(jwksURL, jwk.WithMinRefreshInterval(15*time.Minute)); err != nil {
		return nil, fmt.Errorf("failed to register jwks url: %w", err)
	}
	if _, err := cache.Refresh(ctx, jwksURL); err != nil {
		return nil, fmt.Errorf("failed to fetch jwks: %w", err)
	}
	slog.Info("JWKS loaded", "url", jwksURL, "issuer", issuer)

	return &JWKSVerifier{
		keys:     jwk.NewCachedSet(cache, jwksURL),
		issuer:   issuer,
		audience: audience,
	}, nil
}

func (v *JWKSVerifier) Verify(ctx context.Context, raw string) (Identity, error) {
	token, err := jwt.Parse([]byte(raw),
		jwt.WithKeySet(v.keys, jws.WithInferAlgorithmFromKey(true)),
		jwt.WithValidate(true),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithAcceptableSkew(30*time.Second),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if token.Subject() == "" {
		return Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	claims, err := token.AsMap(ctx)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return identityFromClaims(claims), nil
}
