package agents

import (
	"errors"
	"fmt"

	"github.com/auradentalai/agentic-dentist-api/internal/domain/scheduling"
	"github.com/go-playground/validator/v10"
)

// EventPayload carries channel-specific data attached to a trigger event.
type EventPayload struct {
	// Text is the inbound message or call transcript/summary.
	Text string `json:"text,omitempty"`
	// Channel names the inbound medium: phone, sms, web_chat.
	Channel string `json:"channel,omitempty"`
	// Intent is a caller-supplied pre-classification, when available.
	Intent string `json:"intent,omitempty"`
	// Agent targets a specific agent for manual triggers.
	Agent string `json:"agent,omitempty"`
	// JobType names the scheduled job kind (e.g. recall_campaign).
	JobType string `json:"job_type,omitempty"`
	// PatientName is a caller-provided name for identity verification.
	// It never leaves the scheduling layer.
	PatientName string `json:"patient_name,omitempty"`
	// CallID references the originating voice call.
	CallID string `json:"call_id,omitempty"`
	// PostCall marks events generated from an end-of-call report.
	PostCall bool `json:"post_call,omitempty"`
}

// TriggerEvent is an inbound event that starts an interaction.
type TriggerEvent struct {
	EventType   string       `json:"event_type" validate:"required,oneof=inbound_call inbound_sms web_chat manual_trigger scheduled_job system_event"`
	WorkspaceID string       `json:"workspace_id" validate:"required,uuid4"`
	PatientRef  string       `json:"patient_ref,omitempty" validate:"omitempty,uuid4"`
	ProviderRef string       `json:"provider_ref,omitempty" validate:"omitempty,uuid4"`
	Payload     EventPayload `json:"payload"`
}

// Validate for validating TriggerEvent struct
func (e *TriggerEvent) Validate() error {
	validate := validator.New()

	err := validate.Struct(e)
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

// ToolResults collects the outputs of scheduling tools an agent exercised
// while preparing its context.
type ToolResults struct {
	PatientLookup       *PatientLookup               `json:"patient_lookup,omitempty"`
	PatientAppointments []AppointmentView            `json:"patient_appointments,omitempty"`
	Availability        []scheduling.DayAvailability `json:"availability,omitempty"`
	Cancellation        *CancellationView            `json:"cancellation,omitempty"`
}

// Used lists the names of tools that produced a result.
func (tr *ToolResults) Used() []string {
	if tr == nil {
		return nil
	}
	var used []string
	if tr.PatientLookup != nil {
		used = append(used, "patient_lookup")
	}
	if tr.PatientAppointments != nil {
		used = append(used, "patient_appointments")
	}
	if tr.Availability != nil {
		used = append(used, "availability")
	}
	if tr.Cancellation != nil {
		used = append(used, "cancellation")
	}
	return used
}

// PatientLookup is the result of verifying a caller-provided name.
type PatientLookup struct {
	Found      bool     `json:"found"`
	PatientRef string   `json:"patient_ref,omitempty"`
	FullName   string   `json:"full_name,omitempty"`
	Candidates []string `json:"candidates,omitempty"`
}

// AppointmentView is the PHI-free appointment projection shared with agents.
type AppointmentView struct {
	ID              string `json:"id"`
	AppointmentType string `json:"appointment_type"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Status          string `json:"status"`
}

// CancellationView summarizes a cancellation and reschedule suggestions.
type CancellationView struct {
	Success            bool                         `json:"success"`
	Error              string                       `json:"error,omitempty"`
	Cancelled          *AppointmentView             `json:"cancelled_appointment,omitempty"`
	SuggestedRebooking []scheduling.DayAvailability `json:"suggested_reschedule,omitempty"`
}

// ConciergeResult is the structured output of the Concierge agent.
type ConciergeResult struct {
	PatientIdentified bool         `json:"patient_identified"`
	PatientRef        string       `json:"patient_ref,omitempty"`
	RefinedIntent     string       `json:"refined_intent"`
	Confidence        float64      `json:"confidence"`
	CanHandle         bool         `json:"can_handle"`
	Response          string       `json:"response,omitempty"`
	ActionTaken       string       `json:"action_taken,omitempty"`
	ToolResults       *ToolResults `json:"tool_results,omitempty"`
	Escalate          bool         `json:"escalate"`
	EscalationReason  string       `json:"escalation_reason,omitempty"`
	Notes             string       `json:"notes,omitempty"`
	Err               bool         `json:"error,omitempty"`
}

// BriefingCard is the Diagnostician's pre-appointment summary.
type BriefingCard struct {
	PatientRef        string   `json:"patient_ref"`
	Summary           string   `json:"summary"`
	Alerts            []string `json:"alerts"`
	PendingTreatments []string `json:"pending_treatments"`
	TreatmentGaps     []string `json:"treatment_gaps"`
	RiskFlags         []string `json:"risk_flags"`
	LastVisit         string   `json:"last_visit"`
	NextRecommended   string   `json:"next_recommended"`
}

// DiagnosticianResult is the structured output of the Diagnostician agent.
type DiagnosticianResult struct {
	BriefingCard *BriefingCard `json:"briefing_card"`
	Confidence   float64       `json:"confidence"`
	DataQuality  string        `json:"data_quality"`
	Notes        string        `json:"notes,omitempty"`
	Err          bool          `json:"error,omitempty"`
}

// OutboundMessage is one communication drafted by the Liaison. PHI is never
// present in the template body; placeholders are substituted at send time by
// the secure delivery layer.
type OutboundMessage struct {
	Channel          string `json:"channel"`
	RecipientRef     string `json:"recipient_ref"`
	TemplateType     string `json:"template_type"`
	Subject          string `json:"subject,omitempty"`
	Body             string `json:"body"`
	Language         string `json:"language"`
	Urgency          string `json:"urgency"`
	SendAt           string `json:"send_at"`
	RequiresApproval bool   `json:"requires_approval"`
}

// LiaisonResult is the structured output of the Liaison agent.
type LiaisonResult struct {
	Messages   []OutboundMessage `json:"messages"`
	CampaignID string            `json:"campaign_id,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	Err        bool              `json:"error,omitempty"`
}

// AuditFinding is a single compliance finding.
type AuditFinding struct {
	Severity       string `json:"severity"`
	Category       string `json:"category"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
}

// AuditReport is the Auditor's compliance verdict.
type AuditReport struct {
	Status              string         `json:"status"`
	ChecksPerformed     []string       `json:"checks_performed"`
	Findings            []AuditFinding `json:"findings"`
	ComplianceScore     int            `json:"compliance_score"`
	PHIExposureDetected bool           `json:"phi_exposure_detected"`
	BillingIssues       []string       `json:"billing_issues"`
}

// AuditorResult is the structured output of the Auditor agent.
type AuditorResult struct {
	AuditReport *AuditReport `json:"audit_result"`
	BalanceInfo string       `json:"balance_info,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	Err         bool         `json:"error,omitempty"`
}

// AgentOutputs accumulates each agent's result across one interaction.
type AgentOutputs struct {
	Concierge     *ConciergeResult     `json:"concierge,omitempty"`
	Diagnostician *DiagnosticianResult `json:"diagnostician,omitempty"`
	Liaison       *LiaisonResult       `json:"liaison,omitempty"`
	Auditor       *AuditorResult       `json:"auditor,omitempty"`
}

// Has reports whether the named agent has already produced output.
func (o *AgentOutputs) Has(agent string) bool {
	switch agent {
	case AgentConcierge:
		return o.Concierge != nil
	case AgentDiagnostician:
		return o.Diagnostician != nil
	case AgentLiaison:
		return o.Liaison != nil
	case AgentAuditor:
		return o.Auditor != nil
	default:
		return false
	}
}

// AgentsUsed lists agents that produced output, in routing order.
func (o *AgentOutputs) AgentsUsed() []string {
	var used []string
	for _, name := range AllAgents {
		if o.Has(name) {
			used = append(used, name)
		}
	}
	return used
}

// InteractionState is the full state tracked across one interaction.
type InteractionState struct {
	InteractionID    string
	WorkspaceID      string
	PatientRef       string
	ProviderRef      string
	TriggerType      string
	Intent           string
	Payload          EventPayload
	Outputs          AgentOutputs
	CurrentAgent     string
	Escalated        bool
	EscalationReason string
	Completed        bool
	Steps            int
}

// InteractionResult is returned to callers once an interaction finalizes.
type InteractionResult struct {
	InteractionID    string       `json:"interaction_id"`
	Intent           string       `json:"intent"`
	AgentsUsed       []string     `json:"agents_used"`
	Outputs          AgentOutputs `json:"agent_outputs"`
	Escalated        bool         `json:"escalated"`
	EscalationReason string       `json:"escalation_reason,omitempty"`
	Steps            int          `json:"steps"`
	DurationMs       int64        `json:"duration_ms"`
}
