package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Environment constants
const (
	EnvironmentDev  = "dev"
	EnvironmentProd = "prod"
)

// ServerSettings holds the HTTP server runtime contract
type ServerSettings struct {
	// Port the server binds on all interfaces. Populated from the PORT
	// environment variable and defaults to "8000" when unset.
	Port        string `validate:"required,numeric"`
	Environment string `validate:"required,oneof=dev prod"`
	// FrontendURL is always part of the allowed CORS origins.
	FrontendURL string `validate:"required,url"`
}

// Validate checks that all fields in ServerSettings are valid
func (s *ServerSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for ServerSettings: %w", err)
	}

	return nil
}

// CORSOrigins returns the allowed origins for the configured environment.
// Local frontend development is only whitelisted in dev.
func (s *ServerSettings) CORSOrigins() []string {
	origins := []string{s.FrontendURL}
	if s.Environment == EnvironmentDev {
		origins = append(origins, "http://localhost:3000")
	}
	return origins
}
