package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	msg := "configuration validation failed:"
	for _, err := range e {
		msg += fmt.Sprintf("\n  - %s", err.Error())
	}
	return msg
}

// Validator is a function that validates configuration and returns errors
type Validator func() ValidationErrors

// Validate runs multiple validators and combines their errors
func Validate(validators ...Validator) error {
	var allErrors ValidationErrors

	for _, validator := range validators {
		if errs := validator(); len(errs) > 0 {
			allErrors = append(allErrors, errs...)
		}
	}

	if len(allErrors) > 0 {
		return allErrors
	}
	return nil
}

// RequireNonEmpty validates that a string field is not empty
func RequireNonEmpty(field, value string) *ValidationError {
	if value == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

// RequireOneOf validates that a string field holds one of the allowed values
func RequireOneOf(field, value string, allowed ...string) *ValidationError {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("must be one of [%s], got %q", strings.Join(allowed, ", "), value),
	}
}

// RequireURL validates that a string field is an absolute http(s) URL
func RequireURL(field, value string) *ValidationError {
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be an absolute http(s) URL, got %q", value)}
	}
	return nil
}

// RequireDuration validates that a string field parses as a positive duration
func RequireDuration(field, value string) *ValidationError {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be a positive duration, got %q", value)}
	}
	return nil
}

func collect(errs ...*ValidationError) ValidationErrors {
	var out ValidationErrors
	for _, e := range errs {
		if e != nil {
			out = append(out, *e)
		}
	}
	return out
}

// ValidateEmailConfig checks the mail relay settings
func ValidateEmailConfig(e EmailConfig) Validator {
	return func() ValidationErrors {
		errs := collect(RequireOneOf("EMAIL_PROVIDER", e.Provider, "smtp", "ses"))
		if e.Provider == "smtp" {
			errs = append(errs, collect(
				RequireNonEmpty("EMAIL_HOST", e.Host),
				RequireOneOf("EMAIL_TLS", e.TLS, "ssl", "starttls", "none"),
			)...)
		}
		if e.Provider == "ses" {
			errs = append(errs, collect(RequireNonEmpty("EMAIL_SES_REGION", e.Region))...)
		}
		return append(errs, collect(RequireNonEmpty("EMAIL_FROM", e.FromAddress()))...)
	}
}

// ValidateAuthConfig checks the identity provider settings
func ValidateAuthConfig(a AuthConfig) Validator {
	return func() ValidationErrors {
		errs := collect(RequireOneOf("AUTH_MODE", a.Mode, "secret", "jwks"))
		switch a.Mode {
		case "secret":
			errs = append(errs, collect(RequireNonEmpty("AUTH_SECRET", a.Secret))...)
			if a.Secret != "" && len(a.Secret) < MinSecretLength {
				errs = append(errs, ValidationError{
					Field:   "AUTH_SECRET",
					Message: fmt.Sprintf("must be at least %d bytes", MinSecretLength),
				})
			}
		case "jwks":
			errs = append(errs, collect(
				RequireURL("AUTH_JWKS_URL", a.JWKSURL),
				RequireNonEmpty("AUTH_ISSUER", a.ResolvedIssuer()),
				RequireNonEmpty("AUTH_AUDIENCE", a.ResolvedAudience()),
			)...)
		}
		return errs
	}
}

// ValidateServerConfig checks the listen address
func ValidateServerConfig(s ServerConfig) Validator {
	return func() ValidationErrors {
		if s.Port < 1 || s.Port > 65535 {
			return ValidationErrors{{Field: "PORT", Message: fmt.Sprintf("must be between 1 and 65535, got %d", s.Port)}}
		}
		return nil
	}
}

// ValidateStoreConfig checks the partner and token store selection
func ValidateStoreConfig(p PartnerStoreConfig, t TokenStoreConfig) Validator {
	return func() ValidationErrors {
		return collect(
			RequireOneOf("PARTNER_STORE", p.Type, "memory", "file", "postgres", "mongo"),
			RequireOneOf("TOKEN_STORE", t.Type, "memory", "redis"),
			RequireDuration("TOKEN_TTL", t.TTL),
		)
	}
}
