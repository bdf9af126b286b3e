package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/auradentalai/agentic-dentist-api/internal/domain/agents"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/audit"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/scheduling"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/config"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Voice webhook event types
const (
	voiceEventAssistantRequest = "assistant-request"
	voiceEventFunctionCall     = "function-call"
	voiceEventStatusUpdate     = "status-update"
	voiceEventEndOfCallReport  = "end-of-call-report"
)

const voiceSystemPrompt = `You are the Concierge AI assistant for a dental practice. You are the first point of contact for patients calling in.

Your responsibilities:
- Greet the patient warmly and professionally
- Identify who they are (ask for name or appointment reference)
- Determine the reason for their call
- Use your tools to take REAL action on appointments

You have these tools:
- check_availability: Check open slots for a specific date
- find_next_available: Find the next available appointment slots
- book_appointment: Book a new appointment
- cancel_appointment: Cancel an existing appointment (will also suggest reschedule dates)
- reschedule_appointment: Move an appointment to a new date/time
- get_patient_appointments: Look up a patient's upcoming appointments

Key behaviors:
- Be warm, empathetic, and efficient
- Keep responses concise, this is a phone call
- When cancelling, ALWAYS offer available reschedule dates from the tool result
- When booking, confirm date/time before finalizing
- If someone is in pain or mentions an emergency, prioritize getting them help
- NEVER mention that you are an AI unless directly asked`

const voiceFirstMessage = "Hello! Thank you for calling. This is the dental practice AI assistant. How can I help you today?"

// voiceTools declares the scheduling functions the in-call model may invoke.
var voiceTools = []VoiceTool{
	{
		Type: "function",
		Function: VoiceToolFunction{
			Name:        "check_availability",
			Description: "Check available appointment slots for a specific date",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"date": map[string]interface{}{
						"type":        "string",
						"description": "Date to check in YYYY-MM-DD format",
					},
					"duration_minutes": map[string]interface{}{
						"type":        "integer",
						"description": "Duration of appointment in minutes (default 30)",
						"default":     30,
					},
				},
				"required": []string{"date"},
			},
		},
	},
	{
		Type: "function",
		Function: VoiceToolFunction{
			Name:        "find_next_available",
			Description: "Find the next available appointment slots across the next 14 days",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"duration_minutes": map[string]interface{}{
						"type":        "integer",
						"description": "Duration needed in minutes (default 30)",
						"default":     30,
					},
				},
				"required": []string{},
			},
		},
	},
	{
		Type: "function",
		Function: VoiceToolFunction{
			Name:        "book_appointment",
			Description: "Book a new appointment at a specific date and time",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"date": map[string]interface{}{
						"type":        "string",
						"description": "Appointment date in YYYY-MM-DD format",
					},
					"time": map[string]interface{}{
						"type":        "string",
						"description": "Appointment time in HH:MM format (24-hour)",
					},
					"appointment_type": map[string]interface{}{
						"type":        "string",
						"description": "Type: cleaning, exam, filling, crown, root_canal, extraction, consultation, emergency, follow_up, general",
						"default":     "general",
					},
				},
				"required": []string{"date", "time"},
			},
		},
	},
	{
		Type: "function",
		Function: VoiceToolFunction{
			Name:        "cancel_appointment",
			Description: "Cancel a patient's next upcoming appointment. Will return suggested reschedule dates.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"reason": map[string]interface{}{
						"type":        "string",
						"description": "Reason for cancellation",
						"default":     "Patient requested cancellation",
					},
				},
				"required": []string{},
			},
		},
	},
	{
		Type: "function",
		Function: VoiceToolFunction{
			Name:        "reschedule_appointment",
			Description: "Reschedule an appointment to a new date and time",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"new_date": map[string]interface{}{
						"type":        "string",
						"description": "New date in YYYY-MM-DD format",
					},
					"new_time": map[string]interface{}{
						"type":        "string",
						"description": "New time in HH:MM format (24-hour)",
					},
				},
				"required": []string{"new_date", "new_time"},
			},
		},
	},
	{
		Type: "function",
		Function: VoiceToolFunction{
			Name:        "get_patient_appointments",
			Description: "Look up a patient's upcoming appointments",
			Parameters: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
				"required":   []string{},
			},
		},
	},
}

// VoiceHandler processes webhook events from the voice platform
type VoiceHandler interface {
	Webhook(ctx *gin.Context)
}

type voiceHandler struct {
	orchestrator  agents.OrchestratorService
	booking       scheduling.BookingService
	availability  scheduling.AvailabilityService
	auditRecorder audit.Recorder
	config        *config.RestConfig
	logger        logger.Logger
}

// NewVoiceHandler creates a new VoiceHandler
func NewVoiceHandler(
	orchestrator agents.OrchestratorService,
	booking scheduling.BookingService,
	availability scheduling.AvailabilityService,
	auditRecorder audit.Recorder,
	config *config.RestConfig,
	logger logger.Logger,
) VoiceHandler {
	return &voiceHandler{
		orchestrator:  orchestrator,
		booking:       booking,
		availability:  availability,
		auditRecorder: auditRecorder,
		config:        config,
		logger:        logger,
	}
}

// Webhook handles the POST request from the voice platform
// @Summary Voice platform webhook
// @Description Handles assistant-request, function-call, status-update and end-of-call-report events from the voice platform.
// @Tags Voice
// @Accept json
// @Produce json
// @Param requestBody body VoiceWebhookRequest true "Voice Webhook Event"
// @Success 200 {object} interface{}
// @Failure 400 {object} ErrorResponse
// @Router /vapi/webhook [post]
func (handler *voiceHandler) Webhook(ctx *gin.Context) {
	var request VoiceWebhookRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("invalid webhook payload: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}

	message := request.Message

	switch message.Type {
	case voiceEventAssistantRequest:
		handler.handleAssistantRequest(ctx, &message)
	case voiceEventFunctionCall:
		handler.handleFunctionCall(ctx, &message)
	case voiceEventStatusUpdate:
		handler.handleStatusUpdate(ctx, &message)
	case voiceEventEndOfCallReport:
		handler.handleEndOfCallReport(ctx, &message)
	default:
		ctx.JSON(http.StatusOK, VoiceAckResponse{OK: true})
	}
}

func (handler *voiceHandler) handleAssistantRequest(ctx *gin.Context, message *VoiceMessage) {
	metadata := message.Call.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	if metadata["workspace_id"] == "" {
		metadata["workspace_id"] = handler.config.DefaultWorkspaceID
	}

	ctx.JSON(http.StatusOK, VoiceAssistantResponse{
		Assistant: VoiceAssistantConfig{
			Model: VoiceAssistantModel{
				Provider:     handler.config.LLM.Provider,
				Model:        handler.config.LLM.FastModel,
				SystemPrompt: voiceSystemPrompt,
				Temperature:  0.3,
				Tools:        voiceTools,
			},
			Voice: VoiceAssistantVoice{
				Provider: "11labs",
				VoiceID:  "21m00Tcm4TlvDq8ikWAM",
			},
			FirstMessage: voiceFirstMessage,
			Transcriber: VoiceAssistantTranscriber{
				Provider: "deepgram",
				Model:    "nova-2",
				Language: "en",
			},
			Metadata: metadata,
		},
	})
}

func (handler *voiceHandler) handleFunctionCall(ctx *gin.Context, message *VoiceMessage) {
	if message.FunctionCall == nil {
		ctx.JSON(http.StatusOK, VoiceFunctionResponse{Result: voiceJSON(map[string]interface{}{
			"error": "missing function call",
		})})
		return
	}

	workspaceID := handler.workspaceFor(message)
	patientRef := message.Call.Metadata["patient_ref"]

	handler.logger.Info("Voice function call:", message.FunctionCall.Name, "workspace:", workspaceID)

	result := handler.runTool(ctx.Request.Context(), message.FunctionCall.Name, message.FunctionCall.Parameters, workspaceID, patientRef)
	ctx.JSON(http.StatusOK, VoiceFunctionResponse{Result: result})
}

func (handler *voiceHandler) handleStatusUpdate(ctx *gin.Context, message *VoiceMessage) {
	workspaceID := handler.workspaceFor(message)

	if workspaceID != "" {
		phoneNumber := message.Call.Customer.Number
		if phoneNumber == "" {
			phoneNumber = "unknown"
		}
		handler.recordCallEvent(ctx.Request.Context(), workspaceID, "call_"+message.Status, message.Call.ID, map[string]string{
			"status":       message.Status,
			"phone_number": phoneNumber,
		})
	}

	ctx.JSON(http.StatusOK, VoiceAckResponse{OK: true})
}

func (handler *voiceHandler) handleEndOfCallReport(ctx *gin.Context, message *VoiceMessage) {
	workspaceID := handler.workspaceFor(message)

	if workspaceID != "" {
		handler.recordCallEvent(ctx.Request.Context(), workspaceID, "call_completed", message.Call.ID, map[string]string{
			"duration_seconds": strconv.FormatFloat(message.DurationSeconds, 'f', -1, 64),
			"summary":          clip(message.Summary, 500),
		})

		// Post-call processing: run the full swarm on the call summary.
		text := message.Summary
		if text == "" {
			text = clip(message.Transcript, 1000)
		}
		event := &agents.TriggerEvent{
			EventType:   agents.EventInboundCall,
			WorkspaceID: workspaceID,
			Payload: agents.EventPayload{
				Text:     text,
				Channel:  "phone",
				CallID:   message.Call.ID,
				PostCall: true,
			},
		}
		if _, err := handler.orchestrator.RunInteraction(ctx.Request.Context(), event); err != nil {
			handler.logger.Error("Post-call orchestrator error:", err)
		}
	}

	ctx.JSON(http.StatusOK, VoiceAckResponse{OK: true})
}

// runTool executes one scheduling tool during a live call and returns a JSON
// string the voice model reads back to the caller.
func (handler *voiceHandler) runTool(ctx context.Context, name string, params map[string]interface{}, workspaceID, patientRef string) string {
	switch name {
	case "check_availability":
		rawDate := toolString(params, "date")
		date, err := time.Parse("2006-01-02", rawDate)
		if err != nil {
			return voiceToolError(fmt.Errorf("invalid date %q", rawDate))
		}
		slots, err := handler.availability.CheckAvailability(ctx, workspaceID, date, toolDuration(params))
		if err != nil {
			return voiceToolError(err)
		}
		if len(slots) == 0 {
			return voiceJSON(map[string]interface{}{
				"available": false,
				"message":   fmt.Sprintf("I'm sorry, there are no openings on %s. Would you like me to check another date?", rawDate),
			})
		}
		shown := slots
		if len(shown) > 6 {
			shown = shown[:6]
		}
		return voiceJSON(map[string]interface{}{
			"available": true,
			"date":      rawDate,
			"slots":     shown,
			"message":   fmt.Sprintf("On %s, I have these openings: %s", rawDate, joinSlotStarts(shown)),
		})

	case "find_next_available":
		days, err := handler.availability.FindNextAvailable(ctx, workspaceID, toolDuration(params), 14, 3)
		if err != nil {
			return voiceToolError(err)
		}
		if len(days) == 0 {
			return voiceJSON(map[string]interface{}{
				"found":   false,
				"message": "I'm sorry, I couldn't find any available slots in the next two weeks. Let me connect you with the front desk.",
			})
		}
		var parts []string
		for _, day := range days {
			shown := day.Slots
			if len(shown) > 2 {
				shown = shown[:2]
			}
			parts = append(parts, fmt.Sprintf("%s %s: %s", day.DayName, day.Date, joinSlotStarts(shown)))
		}
		return voiceJSON(map[string]interface{}{
			"found":   true,
			"options": days,
			"message": fmt.Sprintf("Here are the next available slots: %s. Which works best for you?", strings.Join(parts, "; ")),
		})

	case "book_appointment":
		start, err := parseDateTime(toolString(params, "date"), toolString(params, "time"))
		if err != nil {
			return voiceToolError(err)
		}
		appointmentType := toolString(params, "appointment_type")
		if appointmentType == "" {
			appointmentType = "general"
		}
		req := &scheduling.BookingRequest{
			WorkspaceID:     workspaceID,
			Start:           start,
			AppointmentType: appointmentType,
			Source:          scheduling.SourcePhone,
		}
		if patientRef != "" {
			req.PatientID = &patientRef
		}
		result, err := handler.booking.Book(ctx, req)
		if err != nil {
			return voiceToolError(err)
		}
		if result.Success {
			appt := result.Appointment
			return voiceJSON(map[string]interface{}{
				"booked": true,
				"message": fmt.Sprintf("I've booked your %s appointment for %s at %s. You'll receive a confirmation shortly.",
					appt.AppointmentType, appt.StartTime.Format("2006-01-02"), appt.StartTime.Format("15:04")),
			})
		}
		errMsg := result.Error
		if errMsg == "" {
			errMsg = "Sorry, I couldn't book that slot."
		}
		return voiceJSON(map[string]interface{}{
			"booked":          false,
			"message":         errMsg,
			"available_slots": result.AvailableSlots,
		})

	case "cancel_appointment":
		reason := toolString(params, "reason")
		result, err := handler.booking.Cancel(ctx, workspaceID, "", patientRef, reason)
		if err != nil {
			return voiceToolError(err)
		}
		if result.Success {
			cancelled := result.Cancelled
			msg := fmt.Sprintf("I've cancelled your %s appointment on %s at %s.",
				cancelled.AppointmentType, cancelled.StartTime.Format("2006-01-02"), cancelled.StartTime.Format("15:04"))
			if len(result.SuggestedRebooking) > 0 {
				var parts []string
				for i, day := range result.SuggestedRebooking {
					if i == 3 {
						break
					}
					shown := day.Slots
					if len(shown) > 2 {
						shown = shown[:2]
					}
					parts = append(parts, fmt.Sprintf("%s %s: %s", day.DayName, day.Date, joinSlotStarts(shown)))
				}
				msg += fmt.Sprintf(" Would you like to reschedule? I have openings on: %s", strings.Join(parts, "; "))
			}
			return voiceJSON(map[string]interface{}{"cancelled": true, "message": msg})
		}
		errMsg := result.Error
		if errMsg == "" {
			errMsg = "I couldn't find an appointment to cancel."
		}
		return voiceJSON(map[string]interface{}{"cancelled": false, "message": errMsg})

	case "reschedule_appointment":
		if patientRef == "" {
			return voiceJSON(map[string]interface{}{
				"rescheduled": false,
				"message":     "I need to verify your identity first. Can you provide your patient reference number?",
			})
		}
		appointments, err := handler.booking.PatientAppointments(ctx, workspaceID, patientRef, true)
		if err != nil {
			return voiceToolError(err)
		}
		if len(appointments) == 0 {
			return voiceJSON(map[string]interface{}{
				"rescheduled": false,
				"message":     "I don't see any upcoming appointments on file.",
			})
		}
		newStart, err := parseDateTime(toolString(params, "new_date"), toolString(params, "new_time"))
		if err != nil {
			return voiceToolError(err)
		}
		result, err := handler.booking.Reschedule(ctx, workspaceID, appointments[0].ID, newStart)
		if err != nil {
			return voiceToolError(err)
		}
		if result.Success {
			moved := result.Appointment
			return voiceJSON(map[string]interface{}{
				"rescheduled": true,
				"message": fmt.Sprintf("Done! I've moved your appointment from %s at %s to %s at %s.",
					result.OldStartTime.Format("2006-01-02"), result.OldStartTime.Format("15:04"),
					moved.StartTime.Format("2006-01-02"), moved.StartTime.Format("15:04")),
			})
		}
		errMsg := result.Error
		if errMsg == "" {
			errMsg = "That time isn't available."
		}
		return voiceJSON(map[string]interface{}{"rescheduled": false, "message": errMsg})

	case "get_patient_appointments":
		if patientRef == "" {
			return voiceJSON(map[string]interface{}{
				"found":   false,
				"message": "I need your patient reference number to look up your appointments.",
			})
		}
		appointments, err := handler.booking.PatientAppointments(ctx, workspaceID, patientRef, true)
		if err != nil {
			return voiceToolError(err)
		}
		if len(appointments) == 0 {
			return voiceJSON(map[string]interface{}{
				"found":   false,
				"message": "I don't see any upcoming appointments on file.",
			})
		}
		var descriptions []string
		for _, appt := range appointments {
			descriptions = append(descriptions, fmt.Sprintf("%s on %s at %s",
				appt.AppointmentType, appt.StartTime.Format("2006-01-02"), appt.StartTime.Format("15:04")))
		}
		return voiceJSON(map[string]interface{}{
			"found":        true,
			"appointments": appointments,
			"message":      fmt.Sprintf("I found %d upcoming appointment(s): %s", len(appointments), strings.Join(descriptions, ", ")),
		})

	case "transfer_to_human":
		reason := toolString(params, "reason")
		if reason == "" {
			reason = "patient request"
		}
		event := &audit.Event{
			ID:              uuid.NewString(),
			WorkspaceID:     workspaceID,
			ActorType:       audit.ActorAgent,
			ActorID:         "concierge_voice",
			Action:          "transfer_to_human",
			Metadata:        map[string]string{"reason": reason},
			DateTimeCreated: time.Now().UTC(),
		}
		if err := handler.auditRecorder.Record(ctx, event); err != nil {
			handler.logger.Warn("Failed to record transfer audit event:", err)
		}
		return voiceJSON(map[string]interface{}{"transferred": true, "message": "Transferring you now."})

	default:
		return voiceJSON(map[string]interface{}{"error": fmt.Sprintf("Unknown function: %s", name)})
	}
}

func (handler *voiceHandler) workspaceFor(message *VoiceMessage) string {
	if id := message.Call.Metadata["workspace_id"]; id != "" {
		return id
	}
	return handler.config.DefaultWorkspaceID
}

func (handler *voiceHandler) recordCallEvent(ctx context.Context, workspaceID, action, callID string, metadata map[string]string) {
	event := &audit.Event{
		ID:              uuid.NewString(),
		WorkspaceID:     workspaceID,
		ActorType:       audit.ActorSystem,
		ActorID:         "vapi",
		Action:          action,
		ResourceType:    "call",
		ResourceID:      callID,
		Metadata:        metadata,
		DateTimeCreated: time.Now().UTC(),
	}
	if err := handler.auditRecorder.Record(ctx, event); err != nil {
		handler.logger.Warn("Failed to record call audit event:", err)
	}
}

// toolString reads a string-typed tool parameter, empty when absent or
// sent as another type.
func toolString(params map[string]interface{}, key string) string {
	if value, ok := params[key].(string); ok {
		return value
	}
	return ""
}

// toolDuration reads duration_minutes, which the voice platform sends as a
// JSON number but some models quote as a string.
func toolDuration(params map[string]interface{}) int {
	switch raw := params["duration_minutes"].(type) {
	case float64:
		if raw > 0 {
			return int(raw)
		}
	case string:
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return scheduling.DefaultDurationMinutes
}

func parseDateTime(date, clock string) (time.Time, error) {
	parsed, err := time.Parse("2006-01-02 15:04", date+" "+clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q", date, clock)
	}
	return parsed.UTC(), nil
}

func joinSlotStarts(slots []scheduling.Slot) string {
	starts := make([]string, 0, len(slots))
	for _, slot := range slots {
		starts = append(starts, slot.Start)
	}
	return strings.Join(starts, ", ")
}

func voiceJSON(payload map[string]interface{}) string {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return `{"error":"internal encoding failure"}`
	}
	return string(encoded)
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func voiceToolError(err error) string {
	return voiceJSON(map[string]interface{}{
		"error":   true,
		"message": fmt.Sprintf("I'm sorry, I encountered an issue. Let me connect you with the front desk. Error: %s", err.Error()),
	})
}
