//go:build unit
// +build unit

package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auradentalai/agentic-dentist-api/internal/domain/agents"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/config"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const testWorkspaceID = "6f1b6f3a-96ae-4fd7-ae24-9a38bbbf24f9"

func newAgentHandlerForTest(t *testing.T) (AgentHandler, *MockOrchestratorService, *MockConciergeService, *MockAuditorService) {
	t.Helper()

	mockOrchestrator := new(MockOrchestratorService)
	mockConcierge := new(MockConciergeService)
	mockDiagnostician := new(MockDiagnosticianService)
	mockLiaison := new(MockLiaisonService)
	mockAuditor := new(MockAuditorService)
	mockMemberships := new(MockMembershipRepository)
	log := testutil.SetupTestLogger(t)

	llmSettings := &config.LLMSettings{
		Provider:     "openai",
		BaseURL:      "https://api.openai.com/v1",
		APIKey:       "test-key",
		PrimaryModel: "gpt-4o",
		FastModel:    "gpt-4o-mini",
		Temperature:  0.1,
		MaxTokens:    2000,
	}

	handler := NewAgentHandler(mockOrchestrator, mockConcierge, mockDiagnostician,
		mockLiaison, mockAuditor, mockMemberships, llmSettings, log)

	return handler, mockOrchestrator, mockConcierge, mockAuditor
}

func TestAgentHandler_Trigger_Success(t *testing.T) {
	handler, mockOrchestrator, _, _ := newAgentHandlerForTest(t)

	mockOrchestrator.
		On("RunInteraction", mock.Anything, mock.AnythingOfType("*agents.TriggerEvent")).
		Return(&agents.InteractionResult{
			InteractionID: "interaction-1",
			Intent:        "general_inquiry",
			AgentsUsed:    []string{agents.AgentConcierge},
			Steps:         2,
		}, nil)

	requestBody := `{"event_type": "inbound_sms", "workspace_id": "` + testWorkspaceID + `", "payload": {"text": "What are your opening hours?", "channel": "sms"}}`

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/agents/trigger", bytes.NewBufferString(requestBody))
	req.Header.Set("Content-Type", "application/json")

	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Trigger(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "general_inquiry")
	assert.Contains(t, w.Body.String(), agents.AgentConcierge)
	mockOrchestrator.AssertExpectations(t)
}

func TestAgentHandler_Trigger_InvalidEventType(t *testing.T) {
	handler, mockOrchestrator, _, _ := newAgentHandlerForTest(t)

	requestBody := `{"event_type": "carrier_pigeon", "workspace_id": "` + testWorkspaceID + `"}`

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/agents/trigger", bytes.NewBufferString(requestBody))
	req.Header.Set("Content-Type", "application/json")

	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Trigger(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockOrchestrator.AssertNotCalled(t, "RunInteraction")
}

func TestAgentHandler_Trigger_MissingWorkspace(t *testing.T) {
	handler, mockOrchestrator, _, _ := newAgentHandlerForTest(t)

	requestBody := `{"event_type": "inbound_sms", "payload": {"text": "hello"}}`

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/agents/trigger", bytes.NewBufferString(requestBody))
	req.Header.Set("Content-Type", "application/json")

	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Trigger(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "WorkspaceID")
	mockOrchestrator.AssertNotCalled(t, "RunInteraction")
}

func TestAgentHandler_RunAgent_ConciergeCompleted(t *testing.T) {
	handler, _, mockConcierge, _ := newAgentHandlerForTest(t)

	mockConcierge.
		On("Run", mock.Anything, testWorkspaceID, "", "general_inquiry", mock.AnythingOfType("*agents.EventPayload")).
		Return(&agents.ConciergeResult{
			RefinedIntent: "general_inquiry",
			Confidence:    0.9,
			CanHandle:     true,
			Response:      "We are open Monday to Friday, 8am to 5pm.",
		}, nil)

	requestBody := `{"agent": "concierge", "workspace_id": "` + testWorkspaceID + `", "intent": "general_inquiry", "payload": {"text": "What are your hours?", "channel": "web_chat"}}`

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/agents/run", bytes.NewBufferString(requestBody))
	req.Header.Set("Content-Type", "application/json")

	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.RunAgent(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response AgentRunResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, agents.AgentConcierge, response.Agent)
	assert.Equal(t, agents.RunStatusCompleted, response.Status)
	assert.Equal(t, 1, response.Steps)
	assert.NotEmpty(t, response.RunID)
	mockConcierge.AssertExpectations(t)
}

func TestAgentHandler_RunAgent_ConciergeEscalated(t *testing.T) {
	handler, _, mockConcierge, _ := newAgentHandlerForTest(t)

	mockConcierge.
		On("Run", mock.Anything, testWorkspaceID, "", "", mock.AnythingOfType("*agents.EventPayload")).
		Return(&agents.ConciergeResult{
			RefinedIntent:    "emergency",
			Escalate:         true,
			EscalationReason: "Patient reports severe pain",
		}, nil)

	requestBody := `{"agent": "concierge", "workspace_id": "` + testWorkspaceID + `", "payload": {"text": "My tooth is killing me", "channel": "phone"}}`

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/agents/run", bytes.NewBufferString(requestBody))
	req.Header.Set("Content-Type", "application/json")

	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.RunAgent(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response AgentRunResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, agents.RunStatusEscalated, response.Status)
}

func TestAgentHandler_RunAgent_AuditorError(t *testing.T) {
	handler, _, _, mockAuditor := newAgentHandlerForTest(t)

	mockAuditor.
		On("Run", mock.Anything, testWorkspaceID, "", mock.AnythingOfType("*agents.AgentOutputs")).
		Return(&agents.AuditorResult{Err: true, Notes: "model unavailable"}, nil)

	requestBody := `{"agent": "auditor", "workspace_id": "` + testWorkspaceID + `"}`

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/agents/run", bytes.NewBufferString(requestBody))
	req.Header.Set("Content-Type", "application/json")

	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.RunAgent(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response AgentRunResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, agents.RunStatusError, response.Status)
	mockAuditor.AssertExpectations(t)
}

func TestAgentHandler_RunAgent_UnknownAgent(t *testing.T) {
	handler, _, _, _ := newAgentHandlerForTest(t)

	requestBody := `{"agent": "receptionist", "workspace_id": "` + testWorkspaceID + `"}`

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/agents/run", bytes.NewBufferString(requestBody))
	req.Header.Set("Content-Type", "application/json")

	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.RunAgent(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAgentHandler_Status(t *testing.T) {
	handler, _, _, _ := newAgentHandlerForTest(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/agents/status", nil)

	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Status(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response AgentStatusResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response.Agents, 4)
	assert.Equal(t, agents.AgentConcierge, response.Agents[0].Name)
	assert.Equal(t, "gpt-4o-mini", response.Agents[0].Model)
	assert.Equal(t, "gpt-4o", response.Agents[1].Model)
	assert.Equal(t, "ready", response.Orchestrator.Status)
}
