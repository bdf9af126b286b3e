package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/auradentalai/agentic-dentist-api/internal/domain/agents"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/audit"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/phi"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/scheduling"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/config"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/logger"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/utils"

	"github.com/google/uuid"
)

const conciergeSystemPrompt = `You are the Concierge agent for a dental practice. You are the first point of contact.

Scheduling tools have already been run for you. Their results appear in the interaction context below. Treat them as ground truth for what was looked up, booked or cancelled.

Your job:
1. Identify the patient from the verification results in the context
2. Classify the intent of the interaction
3. Report the actions the tools took and what should happen next
4. Respond with structured JSON

PATIENT IDENTIFICATION RULES:
- A patient is identified only when the context shows a verified patient reference
- If the context shows multiple matching patients, ask the caller to clarify
- If the context shows no matching patient, tell the caller they may need to register as a new patient
- NEVER report a booking without a verified patient reference

Intent categories:
- appointment_request: wants to book a visit
- appointment_confirm: confirming an existing visit
- schedule_change: cancel or reschedule
- clinical_question: symptom, treatment, pain
- billing_inquiry: balance, insurance
- emergency: severe pain, trauma
- general_inquiry: hours, directions, policies

Respond ONLY with a JSON object:
{
    "patient_identified": true/false,
    "patient_ref": "patient ID if found or null",
    "refined_intent": "one of the intents above",
    "confidence": 0.0-1.0,
    "can_handle": true/false,
    "response": "what to say to the patient",
    "action_taken": "what tool was used and result",
    "escalate": false,
    "escalation_reason": null,
    "notes": "context for the next agent"
}

CRITICAL RULES:
- NEVER access or display patient PII (DOB, phone, email). Name is OK for verification
- Only reference patients by their reference token in downstream systems
- Only set escalate=true for real emergencies (severe pain, trauma, bleeding)
- When you can't handle a request (clinical, billing), set can_handle=false but escalate=false
- When cancelling, ALWAYS include the suggested reschedule dates from the tool result
- Be warm, professional, efficient`

// conciergeService implements the ConciergeService interface. It runs real
// scheduling tools before consulting the model, so the model reasons over
// actual state instead of promising actions it cannot take.
type conciergeService struct {
	chatModel     agents.ChatModel
	booking       scheduling.BookingService
	availability  scheduling.AvailabilityService
	auditRecorder audit.Recorder
	logger        logger.Logger
}

// NewConciergeService creates a new instance of ConciergeService
func NewConciergeService(
	chatModel agents.ChatModel,
	booking scheduling.BookingService,
	availability scheduling.AvailabilityService,
	auditRecorder audit.Recorder,
	logger logger.Logger,
) (agents.ConciergeService, error) {
	return &conciergeService{
		chatModel:     chatModel,
		booking:       booking,
		availability:  availability,
		auditRecorder: auditRecorder,
		logger:        logger,
	}, nil
}

// Run executes the Concierge agent for one interaction.
func (s *conciergeService) Run(ctx context.Context, workspaceID, patientRef, intent string, payload *agents.EventPayload) (*agents.ConciergeResult, error) {
	if payload == nil {
		payload = &agents.EventPayload{}
	}

	contextParts := []string{fmt.Sprintf("Workspace: %s", workspaceID)}
	if patientRef != "" {
		contextParts = append(contextParts, fmt.Sprintf("Patient ref: %s", patientRef))
	}
	if intent != "" {
		contextParts = append(contextParts, fmt.Sprintf("Initial intent classification: %s", intent))
	}
	if payload.Text != "" {
		// Inbound text is the one place raw patient input enters an agent
		// context, so identifiers get masked before the prompt is built.
		contextParts = append(contextParts, fmt.Sprintf("Patient message: %s", phi.MaskText(payload.Text)))
	}
	if payload.Channel != "" {
		contextParts = append(contextParts, fmt.Sprintf("Channel: %s", payload.Channel))
	}

	toolResults := &agents.ToolResults{}
	var toolContext []string
	text := strings.ToLower(payload.Text)

	// Name verification comes first: nothing else may act on an
	// unverified caller.
	if payload.PatientName != "" && patientRef == "" {
		match, err := s.booking.LookupPatientByName(ctx, workspaceID, payload.PatientName)
		if err != nil {
			toolContext = append(toolContext, fmt.Sprintf("Patient lookup failed: %v", err))
		} else {
			lookup := &agents.PatientLookup{Found: match.Found}
			switch {
			case match.Found:
				patientRef = match.Patient.ID
				lookup.PatientRef = match.Patient.ID
				lookup.FullName = match.Patient.FullName
				contextParts = append(contextParts, fmt.Sprintf("Patient ref: %s", patientRef))
				toolContext = append(toolContext, fmt.Sprintf("Patient verified: %s (ID: %s)", match.Patient.FullName, patientRef))
			case len(match.Candidates) > 0:
				var names []string
				for _, c := range match.Candidates {
					names = append(names, c.FullName)
					lookup.Candidates = append(lookup.Candidates, c.FullName)
				}
				toolContext = append(toolContext, fmt.Sprintf(
					"Multiple patients match '%s': %s. Ask the caller to clarify.",
					payload.PatientName, strings.Join(names, ", ")))
			default:
				toolContext = append(toolContext, fmt.Sprintf(
					"No patient named '%s' found. They may need to register as a new patient first.",
					payload.PatientName))
			}
			toolResults.PatientLookup = lookup
		}
	}

	if patientRef != "" && containsAny(text, "cancel", "reschedule", "move", "change", "appointment") {
		appointments, err := s.booking.PatientAppointments(ctx, workspaceID, patientRef, true)
		if err != nil {
			toolContext = append(toolContext, fmt.Sprintf("Failed to fetch appointments: %v", err))
		} else {
			views := make([]agents.AppointmentView, 0, len(appointments))
			for _, appt := range appointments {
				views = append(views, appointmentView(appt))
				toolContext = append(toolContext, fmt.Sprintf(
					"  - ID: %s | %s | %s at %s | Status: %s",
					appt.ID, appt.AppointmentType,
					appt.StartTime.Format("2006-01-02"), appt.StartTime.Format("15:04"),
					appt.Status))
			}
			toolResults.PatientAppointments = views
			if len(views) == 0 {
				toolContext = append(toolContext, "Patient has no upcoming appointments.")
			}
		}
	}

	if containsAny(text, "book", "schedule", "appointment", "available", "opening", "reschedule", "next") {
		days, err := s.availability.FindNextAvailable(ctx, workspaceID, scheduling.DefaultDurationMinutes, 14, 3)
		if err != nil {
			toolContext = append(toolContext, fmt.Sprintf("Failed to check availability: %v", err))
		} else if len(days) == 0 {
			toolContext = append(toolContext, "No available slots found in the next 14 days.")
		} else {
			toolResults.Availability = days
			toolContext = append(toolContext, "Next available slots (30 min):")
			for _, day := range days {
				toolContext = append(toolContext, fmt.Sprintf("  - %s %s: %s", day.DayName, day.Date, slotStarts(day.Slots)))
			}
		}
	}

	if patientRef != "" && strings.Contains(text, "cancel") {
		cancellation, err := s.booking.Cancel(ctx, workspaceID, "", patientRef, "Patient requested cancellation via Concierge")
		if err != nil {
			toolContext = append(toolContext, fmt.Sprintf("Cancellation failed: %v", err))
		} else {
			view := &agents.CancellationView{
				Success:            cancellation.Success,
				Error:              cancellation.Error,
				SuggestedRebooking: cancellation.SuggestedRebooking,
			}
			if cancellation.Success {
				view.Cancelled = appointmentViewPtr(cancellation.Cancelled)
				toolContext = append(toolContext, fmt.Sprintf(
					"CANCELLED appointment: %s on %s at %s",
					cancellation.Cancelled.AppointmentType,
					cancellation.Cancelled.StartTime.Format("2006-01-02"),
					cancellation.Cancelled.StartTime.Format("15:04")))
				if len(cancellation.SuggestedRebooking) > 0 {
					toolContext = append(toolContext, "Suggested reschedule options:")
					for _, day := range cancellation.SuggestedRebooking {
						toolContext = append(toolContext, fmt.Sprintf("  - %s %s: %s", day.DayName, day.Date, slotStarts(day.Slots)))
					}
				}
			} else {
				toolContext = append(toolContext, fmt.Sprintf("Could not cancel: %s", cancellation.Error))
			}
			toolResults.Cancellation = view
		}
	}

	interactionContext := strings.Join(append(contextParts, toolContext...), "\n")
	userPrompt := fmt.Sprintf("Process this interaction:\n\n%s", interactionContext)

	reply, err := s.chatModel.Complete(ctx, config.LLMTierFast, conciergeSystemPrompt, userPrompt)
	if err != nil {
		s.logger.Error(fmt.Sprintf("Concierge completion failed: %v", err))
		return &agents.ConciergeResult{
			PatientRef:       patientRef,
			RefinedIntent:    "error",
			ToolResults:      toolResults,
			EscalationReason: fmt.Sprintf("Concierge error: %v", err),
			Err:              true,
		}, nil
	}

	result, parseErr := decodeConciergeReply(reply)
	if parseErr != nil {
		s.logger.Warn(fmt.Sprintf("Concierge reply was not valid JSON: %v", parseErr))
		fallbackIntent := intent
		if fallbackIntent == "" {
			fallbackIntent = agents.IntentUnknown
		}
		return &agents.ConciergeResult{
			PatientRef:    patientRef,
			RefinedIntent: fallbackIntent,
			ToolResults:   toolResults,
			Notes:         fmt.Sprintf("Failed to parse model response: %s", truncate(reply, 200)),
			Err:           true,
		}, nil
	}

	// Tool results are authoritative; the model does not get to restate them.
	result.ToolResults = toolResults

	event := &audit.Event{
		ID:          uuid.NewString(),
		WorkspaceID: workspaceID,
		ActorType:   audit.ActorAgent,
		ActorID:     agents.AgentConcierge,
		Action:      "intent_classified",
		Metadata: map[string]string{
			"intent":       result.RefinedIntent,
			"confidence":   fmt.Sprintf("%.2f", result.Confidence),
			"can_handle":   fmt.Sprintf("%t", result.CanHandle),
			"action_taken": result.ActionTaken,
			"tools_used":   strings.Join(toolResults.Used(), ","),
		},
		DateTimeCreated: time.Now().UTC(),
	}
	if patientRef != "" {
		event.ResourceType = "patient"
		event.ResourceID = patientRef
	}
	if err := s.auditRecorder.Record(ctx, event); err != nil {
		s.logger.Warn(fmt.Sprintf("Failed to record concierge audit event: %v", err))
	}

	return result, nil
}

func decodeConciergeReply(reply string) (*agents.ConciergeResult, error) {
	raw, err := utils.ExtractJSONObject(reply)
	if err != nil {
		return nil, err
	}
	var result agents.ConciergeResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func appointmentView(appt *scheduling.Appointment) agents.AppointmentView {
	return agents.AppointmentView{
		ID:              appt.ID,
		AppointmentType: appt.AppointmentType,
		Date:            appt.StartTime.Format("2006-01-02"),
		Time:            appt.StartTime.Format("15:04"),
		Status:          appt.Status,
	}
}

func appointmentViewPtr(appt *scheduling.Appointment) *agents.AppointmentView {
	if appt == nil {
		return nil
	}
	view := appointmentView(appt)
	return &view
}

func slotStarts(slots []scheduling.Slot) string {
	starts := make([]string, len(slots))
	for i, slot := range slots {
		starts[i] = slot.Start
	}
	return strings.Join(starts, ", ")
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
