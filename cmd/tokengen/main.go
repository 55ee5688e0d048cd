package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/tendant/grievance-portal/pkg/config"
	"github.com/tendant/grievance-portal/pkg/identity"
)

// tokengen mints an HS256 bearer token accepted by the portal in AUTH_MODE=secret
func main() {
	// Parse command line flags
	secret := flag.String("secret", config.GetEnv("AUTH_SECRET"), "Secret key for signing the token (defaults to AUTH_SECRET)")
	issuer := flag.String("issuer", config.GetEnv("AUTH_ISSUER"), "Issuer of the token (optional)")
	audience := flag.String("audience", config.GetEnv("AUTH_AUDIENCE"), "Audience of the token (optional)")
	subject := flag.String("subject", config.GetEnvOrDefault("TOKEN_SUBJECT", "dev-user"), "Subject of the token (user id)")
	email := flag.String("email", config.GetEnv("TOKEN_EMAIL"), "Email claim")
	name := flag.String("name", "", "Name claim")
	expiry := flag.Duration("expiry", config.GetEnvDuration("TOKEN_EXPIRY", time.Hour), "Token expiry duration (e.g., 30m, 1h, 24h)")
	outputFormat := flag.String("format", "compact", "Output format: compact, full, or debug")
	flag.Parse()

	if len(*secret) < config.MinSecretLength {
		fmt.Fprintf(os.Stderr, "Error: -secret or AUTH_SECRET must be at least %d bytes\n", config.MinSecretLength)
		os.Exit(1)
	}

	now := time.Now()
	claims := map[string]interface{}{
		"sub": *subject,
		"iat": now.Unix(),
		"exp": now.Add(*expiry).Unix(),
	}
	if *issuer != "" {
		claims["iss"] = *issuer
	}
	if *audience != "" {
		claims["aud"] = *audience
	}
	if *email != "" {
		claims["email"] = *email
	}
	if *name != "" {
		claims["name"] = *name
	}

	auth := jwtauth.New("HS256", []byte(*secret), nil)
	_, tokenStr, err := auth.Encode(claims)
	if err != nil {
		slog.Error("Failed to generate token", "err", err)
		fmt.Fprintf(os.Stderr, "Error: Failed to generate token: %v\n", err)
		os.Exit(1)
	}

	switch *outputFormat {
	case "compact":
		fmt.Println(tokenStr)
	case "full":
		fmt.Printf("Token: %s\nExpires: %s\n", tokenStr, now.Add(*expiry).Format(time.RFC3339))
	case "debug":
		// Round-trip through the same verifier the server uses
		verifier, err := identity.NewSecretVerifier(*secret, *issuer, *audience)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		id, err := verifier.Verify(context.Background(), tokenStr)
		if err != nil {
			slog.Error("Generated token failed verification", "err", err)
			fmt.Fprintf(os.Stderr, "Error: Generated token failed verification: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("=== Token Information ===\n")
		fmt.Printf("Token: %s\n\n", tokenStr)
		fmt.Printf("=== Identity ===\n")
		idJSON, _ := json.MarshalIndent(id, "", "  ")
		fmt.Printf("%s\n\n", idJSON)
		fmt.Printf("Expires: %s\n", now.Add(*expiry).Format(time.RFC3339))
	default:
		fmt.Fprintf(os.Stderr, "Error: Unknown output format: %s\n", *outputFormat)
		os.Exit(1)
	}
}
