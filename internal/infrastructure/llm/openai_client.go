// Package llm implements the outbound chat completion gateway over the
// OpenAI-compatible HTTP API.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/auradentalai/agentic-dentist-api/internal/domain/agents"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/config"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/logger"
)

const defaultRequestTimeout = 60 * time.Second

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

type openAIChatModel struct {
	settings   *config.LLMSettings
	httpClient *http.Client
	logger     logger.Logger
}

// NewOpenAIChatModel creates a ChatModel backed by an OpenAI-compatible
// chat completions endpoint.
func NewOpenAIChatModel(settings *config.LLMSettings, logger logger.Logger) (agents.ChatModel, error) {
	if settings == nil {
		return nil, fmt.Errorf("LLM settings cannot be nil")
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid LLM settings: %w", err)
	}

	return &openAIChatModel{
		settings:   settings,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		logger:     logger,
	}, nil
}

func (c *openAIChatModel) Complete(ctx context.Context, tier, systemPrompt, userPrompt string) (string, error) {
	model, err := c.settings.ModelForTier(tier)
	if err != nil {
		return "", err
	}

	payload := chatCompletionRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: c.settings.Temperature,
		MaxTokens:   c.settings.MaxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode chat completion request: %w", err)
	}

	url := c.settings.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.settings.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.settings.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read chat completion response: %w", err)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", fmt.Errorf("failed to decode chat completion response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		if completion.Error != nil {
			return "", fmt.Errorf("chat completion rejected (status %d): %s", resp.StatusCode, completion.Error.Message)
		}
		return "", fmt.Errorf("chat completion rejected with status %d", resp.StatusCode)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	choice := completion.Choices[0]
	if choice.FinishReason == "length" {
		c.logger.Warn(fmt.Sprintf("Chat completion for model %s truncated at max_tokens", model))
	}

	c.logger.Info(fmt.Sprintf("Chat completion succeeded for tier %s with model %s", tier, model))
	return choice.Message.Content, nil
}
