package config

// MinSecretLength is the shortest AUTH_SECRET accepted, matching the HS256 key size
const MinSecretLength = 32

// AuthConfig holds identity provider configuration
//
// Mode "secret" validates HS256 bearer tokens signed with Secret. Secret has
// no default and must be at least MinSecretLength bytes.
// Mode "jwks" validates RS256 ID tokens against a published key set, which is
// how Firebase Authentication ID tokens are checked.
type AuthConfig struct {
	Mode      string `env:"AUTH_MODE" env-default:"secret"`
	Secret    string `env:"AUTH_SECRET"`
	ProjectID string `env:"AUTH_PROJECT_ID"`
	Issuer    string `env:"AUTH_ISSUER"`
	Audience  string `env:"AUTH_AUDIENCE"`
	JWKSURL   string `env:"AUTH_JWKS_URL" env-default:"https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"`
}

// ResolvedIssuer returns the expected issuer, derived from the project id when unset
func (a AuthConfig) ResolvedIssuer() string {
	if a.Issuer != "" {
		return a.Issuer
	}
	if a.ProjectID != "" {
		return "https://securetoken.google.com/" + a.ProjectID
	}
	return ""
}

// ResolvedAudience returns the expected audience, derived from the project id when unset
func (a AuthConfig) ResolvedAudience() string {
	if a.Audience != "" {
		return a.Audience
	}
	return a.ProjectID
}

// CORSConfig holds the cross-origin allow-list
type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`
}
