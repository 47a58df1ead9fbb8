package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the settings the server cannot run without are
// present. API keys for the upstream services are checked lazily by the
// services themselves so the server can come up partially configured.
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.DBHost == "" {
		errors = append(errors, "DB_HOST is required")
	}
	if cfg.DBUser == "" {
		errors = append(errors, "DB_USER is required")
	}
	if cfg.DBName == "" {
		errors = append(errors, "DB_NAME is required")
	}
	if cfg.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET is required")
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "\n"))
	}
	return nil
}
