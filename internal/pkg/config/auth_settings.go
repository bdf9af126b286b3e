package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// AuthSettings holds settings for verifying bearer tokens on agent routes
type AuthSettings struct {
	// JWTSecret is the HMAC secret shared with the identity provider.
	// When empty, authentication is disabled and requests run as anonymous
	// (local development only).
	JWTSecret string
	// Issuer and Audience are enforced on token claims when set.
	Issuer   string
	Audience string
	// PHIEncryptionKey protects patient identifiers at rest. The cipher
	// derives its AES key from this secret, so any non-empty string works.
	PHIEncryptionKey string `validate:"required"`
}

// Validate checks that all fields in AuthSettings are valid
func (s *AuthSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for AuthSettings: %w", err)
	}

	return nil
}

// Enabled reports whether bearer token verification is active.
func (s *AuthSettings) Enabled() bool {
	return s.JWTSecret != ""
}
