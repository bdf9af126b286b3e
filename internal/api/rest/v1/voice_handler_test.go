//go:build unit
// +build unit

package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/auradentalai/agentic-dentist-api/internal/domain/agents"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/audit"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/scheduling"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/config"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newVoiceHandlerForTest(t *testing.T) (VoiceHandler, *MockOrchestratorService, *MockBookingService, *MockAvailabilityService, *MockAuditRecorder) {
	t.Helper()

	mockOrchestrator := new(MockOrchestratorService)
	mockBooking := new(MockBookingService)
	mockAvailability := new(MockAvailabilityService)
	mockAudit := new(MockAuditRecorder)
	log := testutil.SetupTestLogger(t)

	cfg := &config.RestConfig{
		Server: config.ServerSettings{
			Port:        "8000",
			Environment: config.EnvironmentDev,
			FrontendURL: "https://agentic-dentist.vercel.app",
		},
		LLM: config.LLMSettings{
			Provider:     "openai",
			BaseURL:      "https://api.openai.com/v1",
			APIKey:       "test-key",
			PrimaryModel: "gpt-4o",
			FastModel:    "gpt-4o-mini",
			Temperature:  0.1,
			MaxTokens:    2000,
		},
		DefaultWorkspaceID: testWorkspaceID,
	}

	handler := NewVoiceHandler(mockOrchestrator, mockBooking, mockAvailability, mockAudit, cfg, log)

	return handler, mockOrchestrator, mockBooking, mockAvailability, mockAudit
}

func postWebhook(t *testing.T, handler VoiceHandler, payload string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/vapi/webhook", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")

	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Webhook(c)
	return w
}

func TestVoiceHandler_AssistantRequest(t *testing.T) {
	handler, _, _, _, _ := newVoiceHandlerForTest(t)

	w := postWebhook(t, handler, `{"message": {"type": "assistant-request", "call": {"id": "call-1"}}}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var response VoiceAssistantResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", response.Assistant.Model.Model)
	assert.Equal(t, 0.3, response.Assistant.Model.Temperature)
	assert.Len(t, response.Assistant.Model.Tools, 6)
	assert.Equal(t, "11labs", response.Assistant.Voice.Provider)
	assert.Equal(t, "nova-2", response.Assistant.Transcriber.Model)
	assert.NotEmpty(t, response.Assistant.FirstMessage)
	// Calls without workspace metadata fall back to the default workspace.
	assert.Equal(t, testWorkspaceID, response.Assistant.Metadata["workspace_id"])
}

func TestVoiceHandler_FunctionCall_CheckAvailability(t *testing.T) {
	handler, _, _, mockAvailability, _ := newVoiceHandlerForTest(t)

	expectedDate, _ := time.Parse("2006-01-02", "2026-09-01")
	mockAvailability.
		On("CheckAvailability", mock.Anything, testWorkspaceID, expectedDate, 30).
		Return([]scheduling.Slot{
			{Start: "09:00", End: "09:30"},
			{Start: "09:30", End: "10:00"},
		}, nil)

	w := postWebhook(t, handler, `{"message": {"type": "function-call", "call": {"id": "call-1"}, "functionCall": {"name": "check_availability", "parameters": {"date": "2026-09-01"}}}}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var response VoiceFunctionResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Contains(t, response.Result, `"available":true`)
	assert.Contains(t, response.Result, "09:00")
	mockAvailability.AssertExpectations(t)
}

func TestVoiceHandler_FunctionCall_NumericDuration(t *testing.T) {
	handler, _, _, mockAvailability, _ := newVoiceHandlerForTest(t)

	expectedDate, _ := time.Parse("2006-01-02", "2026-09-01")
	mockAvailability.
		On("CheckAvailability", mock.Anything, testWorkspaceID, expectedDate, 45).
		Return([]scheduling.Slot{{Start: "10:00", End: "10:45"}}, nil)

	// duration_minutes arrives as a JSON number, per the tool schema.
	w := postWebhook(t, handler, `{"message": {"type": "function-call", "call": {}, "functionCall": {"name": "check_availability", "parameters": {"date": "2026-09-01", "duration_minutes": 45}}}}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var response VoiceFunctionResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Contains(t, response.Result, `"available":true`)
	mockAvailability.AssertExpectations(t)
}

func TestToolDuration(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]interface{}
		want   int
	}{
		{"JSON number", map[string]interface{}{"duration_minutes": float64(45)}, 45},
		{"quoted number", map[string]interface{}{"duration_minutes": "60"}, 60},
		{"missing", map[string]interface{}{}, 30},
		{"zero", map[string]interface{}{"duration_minutes": float64(0)}, 30},
		{"garbage", map[string]interface{}{"duration_minutes": "soon"}, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toolDuration(tt.params))
		})
	}
}

func TestVoiceHandler_FunctionCall_CheckAvailability_NoSlots(t *testing.T) {
	handler, _, _, mockAvailability, _ := newVoiceHandlerForTest(t)

	mockAvailability.
		On("CheckAvailability", mock.Anything, testWorkspaceID, mock.Anything, 30).
		Return([]scheduling.Slot{}, nil)

	w := postWebhook(t, handler, `{"message": {"type": "function-call", "call": {}, "functionCall": {"name": "check_availability", "parameters": {"date": "2026-09-06"}}}}`)

	var response VoiceFunctionResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Contains(t, response.Result, `"available":false`)
	assert.Contains(t, response.Result, "no openings")
}

func TestVoiceHandler_FunctionCall_BookAppointment(t *testing.T) {
	handler, _, mockBooking, _, _ := newVoiceHandlerForTest(t)

	start, _ := time.Parse("2006-01-02 15:04", "2026-09-01 09:00")
	mockBooking.
		On("Book", mock.Anything, mock.MatchedBy(func(req *scheduling.BookingRequest) bool {
			return req.WorkspaceID == testWorkspaceID &&
				req.Start.Equal(start) &&
				req.AppointmentType == "cleaning" &&
				req.Source == scheduling.SourcePhone
		})).
		Return(&scheduling.BookingResult{
			Success: true,
			Appointment: &scheduling.Appointment{
				ID:              "appt-1",
				AppointmentType: "cleaning",
				StartTime:       start,
			},
		}, nil)

	w := postWebhook(t, handler, `{"message": {"type": "function-call", "call": {}, "functionCall": {"name": "book_appointment", "parameters": {"date": "2026-09-01", "time": "09:00", "appointment_type": "cleaning"}}}}`)

	var response VoiceFunctionResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Contains(t, response.Result, `"booked":true`)
	assert.Contains(t, response.Result, "2026-09-01")
	mockBooking.AssertExpectations(t)
}

func TestVoiceHandler_FunctionCall_CancelWithSuggestions(t *testing.T) {
	handler, _, mockBooking, _, _ := newVoiceHandlerForTest(t)

	cancelledStart, _ := time.Parse("2006-01-02 15:04", "2026-09-01 10:00")
	mockBooking.
		On("Cancel", mock.Anything, testWorkspaceID, "", "patient-1", "").
		Return(&scheduling.CancellationResult{
			Success: true,
			Cancelled: &scheduling.Appointment{
				ID:              "appt-1",
				AppointmentType: "exam",
				StartTime:       cancelledStart,
			},
			SuggestedRebooking: []scheduling.DayAvailability{
				{Date: "2026-09-02", DayName: "Wednesday", Slots: []scheduling.Slot{{Start: "09:00", End: "09:30"}}},
			},
		}, nil)

	w := postWebhook(t, handler, `{"message": {"type": "function-call", "call": {"metadata": {"patient_ref": "patient-1"}}, "functionCall": {"name": "cancel_appointment", "parameters": {}}}}`)

	var response VoiceFunctionResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Contains(t, response.Result, `"cancelled":true`)
	assert.Contains(t, response.Result, "Would you like to reschedule")
	assert.Contains(t, response.Result, "Wednesday")
	mockBooking.AssertExpectations(t)
}

func TestVoiceHandler_FunctionCall_RescheduleWithoutPatientRef(t *testing.T) {
	handler, _, mockBooking, _, _ := newVoiceHandlerForTest(t)

	w := postWebhook(t, handler, `{"message": {"type": "function-call", "call": {}, "functionCall": {"name": "reschedule_appointment", "parameters": {"new_date": "2026-09-02", "new_time": "10:00"}}}}`)

	var response VoiceFunctionResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Contains(t, response.Result, `"rescheduled":false`)
	assert.Contains(t, response.Result, "verify your identity")
	mockBooking.AssertNotCalled(t, "Reschedule")
}

func TestVoiceHandler_FunctionCall_UnknownFunction(t *testing.T) {
	handler, _, _, _, _ := newVoiceHandlerForTest(t)

	w := postWebhook(t, handler, `{"message": {"type": "function-call", "call": {}, "functionCall": {"name": "order_pizza", "parameters": {}}}}`)

	var response VoiceFunctionResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Contains(t, response.Result, "Unknown function")
}

func TestVoiceHandler_StatusUpdate_RecordsAudit(t *testing.T) {
	handler, _, _, _, mockAudit := newVoiceHandlerForTest(t)

	mockAudit.
		On("Record", mock.Anything, mock.MatchedBy(func(event *audit.Event) bool {
			return event.Action == "call_in-progress" &&
				event.ActorType == audit.ActorSystem &&
				event.ActorID == "vapi" &&
				event.Metadata["phone_number"] == "+15550100"
		})).
		Return(nil)

	w := postWebhook(t, handler, `{"message": {"type": "status-update", "status": "in-progress", "call": {"id": "call-1", "customer": {"number": "+15550100"}}}}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)
	mockAudit.AssertExpectations(t)
}

func TestVoiceHandler_EndOfCallReport_RunsPostCallInteraction(t *testing.T) {
	handler, mockOrchestrator, _, _, mockAudit := newVoiceHandlerForTest(t)

	mockAudit.
		On("Record", mock.Anything, mock.MatchedBy(func(event *audit.Event) bool {
			return event.Action == "call_completed" && event.ResourceID == "call-1"
		})).
		Return(nil)

	mockOrchestrator.
		On("RunInteraction", mock.Anything, mock.MatchedBy(func(event *agents.TriggerEvent) bool {
			return event.EventType == "inbound_call" &&
				event.Payload.PostCall &&
				event.Payload.CallID == "call-1" &&
				event.Payload.Text == "Patient called to confirm their cleaning."
		})).
		Return(nil, nil)

	w := postWebhook(t, handler, `{"message": {"type": "end-of-call-report", "call": {"id": "call-1"}, "summary": "Patient called to confirm their cleaning.", "durationSeconds": 92.5}}`)

	assert.Equal(t, http.StatusOK, w.Code)
	mockOrchestrator.AssertExpectations(t)
	mockAudit.AssertExpectations(t)
}

func TestVoiceHandler_UnknownEventType_Acks(t *testing.T) {
	handler, _, _, _, _ := newVoiceHandlerForTest(t)

	w := postWebhook(t, handler, `{"message": {"type": "speech-update"}}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)
}
