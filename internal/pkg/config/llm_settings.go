package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// LLM provider constants
const (
	OpenAIProvider = "openai"
)

// LLM tier constants
const (
	// LLMTierPrimary serves complex reasoning (orchestrator, diagnostician, auditor).
	LLMTierPrimary = "primary"
	// LLMTierFast serves routing and template generation (concierge, liaison).
	LLMTierFast = "fast"
)

// LLMSettings holds provider-agnostic settings for the chat model gateway
type LLMSettings struct {
	Provider     string  `validate:"required,oneof=openai"`
	BaseURL      string  `validate:"required,url"`
	APIKey       string
	PrimaryModel string  `validate:"required"`
	FastModel    string  `validate:"required"`
	Temperature  float64 `validate:"gte=0,lte=2"`
	MaxTokens    int     `validate:"gt=0"`
}

// Validate checks that all fields in LLMSettings are valid
func (s *LLMSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for LLMSettings: %w", err)
	}

	return nil
}

// ModelForTier resolves the configured model name for a tier.
func (s *LLMSettings) ModelForTier(tier string) (string, error) {
	switch tier {
	case LLMTierPrimary:
		return s.PrimaryModel, nil
	case LLMTierFast:
		return s.FastModel, nil
	default:
		return "", fmt.Errorf("unsupported LLM tier: %s", tier)
	}
}
