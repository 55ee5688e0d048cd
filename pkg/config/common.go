package config

import (
	"os"
	"time"
)

// GetEnv retrieves an environment variable value, empty when unset
func GetEnv(key string) string {
	return os.Getenv(key)
}

// GetEnvOrDefault retrieves an environment variable or returns fallback when unset
func GetEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetEnvDuration parses an environment variable as a Go duration ("30m", "1h").
// Unset or unparsable values yield fallback.
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
