package agents

// Agent name constants
const (
	AgentConcierge     = "concierge"
	AgentDiagnostician = "diagnostician"
	AgentLiaison       = "liaison"
	AgentAuditor       = "auditor"
)

// AllAgents lists every agent in routing order.
var AllAgents = []string{AgentConcierge, AgentDiagnostician, AgentLiaison, AgentAuditor}

// Trigger event type constants
const (
	EventInboundCall   = "inbound_call"
	EventInboundSMS    = "inbound_sms"
	EventWebChat       = "web_chat"
	EventManualTrigger = "manual_trigger"
	EventScheduledJob  = "scheduled_job"
	EventSystemEvent   = "system_event"
)

// Intent constants produced by classification and refinement
const (
	IntentAppointmentRequest = "appointment_request"
	IntentAppointmentConfirm = "appointment_confirm"
	IntentScheduleChange     = "schedule_change"
	IntentClinicalQuestion   = "clinical_question"
	IntentTreatmentPlan      = "treatment_plan"
	IntentChartReview        = "chart_review"
	IntentBillingInquiry     = "billing_inquiry"
	IntentInsuranceQuestion  = "insurance_question"
	IntentEmergency          = "emergency"
	IntentGeneralInquiry     = "general_inquiry"
	IntentRecallCampaign     = "recall_campaign"
	IntentManual             = "manual"
	IntentUnknown            = "unknown"
)

// Run status constants
const (
	RunStatusCompleted = "completed"
	RunStatusEscalated = "escalated"
	RunStatusError     = "error"
)

// MaxInteractionSteps caps how many routing hops a single interaction may
// take before the orchestrator force-finalizes it.
const MaxInteractionSteps = 10
