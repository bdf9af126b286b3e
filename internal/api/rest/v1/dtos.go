package v1

import (
	"errors"
	"fmt"

	"github.com/auradentalai/agentic-dentist-api/internal/domain/agents"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse represents the structure of an error response
type ErrorResponse struct {
	Message string `json:"message"`
}

// AgentRunRequest asks for one specific agent to run outside the
// orchestrator's routing.
type AgentRunRequest struct {
	Agent       string              `json:"agent" validate:"required,oneof=concierge diagnostician liaison auditor"`
	WorkspaceID string              `json:"workspace_id" validate:"required,uuid4"`
	PatientRef  string              `json:"patient_ref,omitempty" validate:"omitempty,uuid4"`
	Intent      string              `json:"intent,omitempty"`
	Payload     agents.EventPayload `json:"payload"`
}

// Validate for validating AgentRunRequest struct
func (r *AgentRunRequest) Validate() error {
	validate := validator.New()

	err := validate.Struct(r)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation failed: %v", messages)
		}
		return fmt.Errorf("validation error: %w", err)
	}

	return nil
}

// AgentRunResponse reports the outcome of a direct agent run.
type AgentRunResponse struct {
	RunID      string      `json:"run_id"`
	Agent      string      `json:"agent"`
	Status     string      `json:"status"`
	Output     interface{} `json:"output"`
	Steps      int         `json:"steps"`
	DurationMs int64       `json:"duration_ms"`
}

// AgentDescriptor describes one agent in the swarm status response.
type AgentDescriptor struct {
	Name     string   `json:"name"`
	Status   string   `json:"status"`
	Model    string   `json:"model"`
	Channels []string `json:"channels"`
}

// OrchestratorDescriptor describes the routing engine in the status response.
type OrchestratorDescriptor struct {
	Status   string   `json:"status"`
	Engine   string   `json:"engine"`
	Patterns []string `json:"patterns"`
}

// AgentStatusResponse reports the readiness of the agent swarm.
type AgentStatusResponse struct {
	Agents       []AgentDescriptor      `json:"agents"`
	Orchestrator OrchestratorDescriptor `json:"orchestrator"`
}

// HealthResponse reports service health and the active configuration.
type HealthResponse struct {
	Status            string   `json:"status"`
	Environment       string   `json:"environment"`
	LLMProvider       string   `json:"llm_provider"`
	LLMModelPrimary   string   `json:"llm_model_primary"`
	LLMModelFast      string   `json:"llm_model_fast"`
	DatabaseConnected bool     `json:"database_connected"`
	Agents            []string `json:"agents"`
}

// RootResponse describes the service on the bare root path.
type RootResponse struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Status  string   `json:"status"`
	Agents  []string `json:"agents"`
}

// Voice webhook payloads. Field names follow the voice platform's wire
// format, which uses camelCase.

// VoiceCustomer identifies the calling phone number.
type VoiceCustomer struct {
	Number string `json:"number,omitempty"`
}

// VoiceCall carries call identity and routing metadata.
type VoiceCall struct {
	ID       string            `json:"id,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Customer VoiceCustomer     `json:"customer,omitempty"`
}

// VoiceFunctionCall is a tool invocation requested mid-call. Parameters are
// loosely typed because the voice platform sends whatever the tool schema
// declares, strings for dates and names but plain numbers for durations.
type VoiceFunctionCall struct {
	Name       string                 `json:"name"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// VoiceMessage is the inner envelope of every voice webhook event.
type VoiceMessage struct {
	Type            string             `json:"type"`
	Call            VoiceCall          `json:"call,omitempty"`
	FunctionCall    *VoiceFunctionCall `json:"functionCall,omitempty"`
	Status          string             `json:"status,omitempty"`
	Summary         string             `json:"summary,omitempty"`
	Transcript      string             `json:"transcript,omitempty"`
	DurationSeconds float64            `json:"durationSeconds,omitempty"`
}

// VoiceWebhookRequest is the outer envelope of every voice webhook event.
type VoiceWebhookRequest struct {
	Message VoiceMessage `json:"message"`
}

// VoiceAssistantModel configures the in-call model.
type VoiceAssistantModel struct {
	Provider     string      `json:"provider"`
	Model        string      `json:"model"`
	SystemPrompt string      `json:"systemPrompt"`
	Temperature  float64     `json:"temperature"`
	Tools        []VoiceTool `json:"tools,omitempty"`
}

// VoiceTool declares one callable function to the voice platform.
type VoiceTool struct {
	Type     string            `json:"type"`
	Function VoiceToolFunction `json:"function"`
}

// VoiceToolFunction is the JSON-schema description of a voice tool.
type VoiceToolFunction struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// VoiceAssistantVoice selects the synthesized voice.
type VoiceAssistantVoice struct {
	Provider string `json:"provider"`
	VoiceID  string `json:"voiceId"`
}

// VoiceAssistantTranscriber selects the speech-to-text engine.
type VoiceAssistantTranscriber struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Language string `json:"language"`
}

// VoiceAssistantConfig is returned on assistant-request events.
type VoiceAssistantConfig struct {
	Model        VoiceAssistantModel       `json:"model"`
	ServerURL    string                    `json:"serverUrl,omitempty"`
	Voice        VoiceAssistantVoice       `json:"voice"`
	FirstMessage string                    `json:"firstMessage"`
	Transcriber  VoiceAssistantTranscriber `json:"transcriber"`
	Metadata     map[string]string         `json:"metadata,omitempty"`
}

// VoiceAssistantResponse wraps the assistant config envelope.
type VoiceAssistantResponse struct {
	Assistant VoiceAssistantConfig `json:"assistant"`
}

// VoiceFunctionResponse wraps the result of a mid-call tool invocation. The
// result is a JSON string the voice model reads back to the caller.
type VoiceFunctionResponse struct {
	Result string `json:"result"`
}

// VoiceAckResponse acknowledges fire-and-forget webhook events.
type VoiceAckResponse struct {
	OK bool `json:"ok"`
}
