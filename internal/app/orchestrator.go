package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/auradentalai/agentic-dentist-api/internal/domain/agents"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/audit"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/logger"

	"github.com/google/uuid"
)

// routing targets returned by routeToAgent
const routeFinalize = "finalize"

// orchestratorService implements the OrchestratorService interface as a
// conditional-routing state machine: classify the intent, then repeatedly
// pick the next agent from the accumulated outputs until nothing remains
// to run.
type orchestratorService struct {
	concierge     agents.ConciergeService
	diagnostician agents.DiagnosticianService
	liaison       agents.LiaisonService
	auditor       agents.AuditorService
	auditRecorder audit.Recorder
	logger        logger.Logger
}

// NewOrchestratorService creates a new instance of OrchestratorService
func NewOrchestratorService(
	concierge agents.ConciergeService,
	diagnostician agents.DiagnosticianService,
	liaison agents.LiaisonService,
	auditor agents.AuditorService,
	auditRecorder audit.Recorder,
	logger logger.Logger,
) (agents.OrchestratorService, error) {
	return &orchestratorService{
		concierge:     concierge,
		diagnostician: diagnostician,
		liaison:       liaison,
		auditor:       auditor,
		auditRecorder: auditRecorder,
		logger:        logger,
	}, nil
}

// RunInteraction runs a complete interaction through the agent swarm.
func (s *orchestratorService) RunInteraction(ctx context.Context, event *agents.TriggerEvent) (*agents.InteractionResult, error) {
	if event == nil {
		return nil, fmt.Errorf("trigger event cannot be nil")
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}

	state := &agents.InteractionState{
		InteractionID: uuid.NewString(),
		WorkspaceID:   event.WorkspaceID,
		PatientRef:    event.PatientRef,
		ProviderRef:   event.ProviderRef,
		TriggerType:   event.EventType,
		Payload:       event.Payload,
	}

	started := time.Now()

	s.classifyIntent(state)

	for state.Steps < agents.MaxInteractionSteps {
		next := s.routeToAgent(state)
		if next == routeFinalize {
			break
		}
		if err := s.runAgent(ctx, state, next); err != nil {
			return nil, err
		}
	}

	s.finalize(ctx, state)

	return &agents.InteractionResult{
		InteractionID:    state.InteractionID,
		Intent:           state.Intent,
		AgentsUsed:       state.Outputs.AgentsUsed(),
		Outputs:          state.Outputs,
		Escalated:        state.Escalated,
		EscalationReason: state.EscalationReason,
		Steps:            state.Steps,
		DurationMs:       time.Since(started).Milliseconds(),
	}, nil
}

// classifyIntent derives the interaction intent from the trigger type and
// payload. Inbound text is keyword-classified; the Concierge refines it.
func (s *orchestratorService) classifyIntent(state *agents.InteractionState) {
	payload := state.Payload

	switch state.TriggerType {
	case agents.EventInboundCall:
		state.Intent = payload.Intent
		if state.Intent == "" {
			state.Intent = agents.IntentAppointmentRequest
		}
	case agents.EventWebChat:
		// Web chat arrives unclassified; the Concierge refines it from the
		// conversation itself.
		state.Intent = agents.IntentUnknown
	case agents.EventInboundSMS:
		text := strings.ToLower(payload.Text)
		switch {
		case containsAny(text, "cancel", "reschedule", "move"):
			state.Intent = agents.IntentScheduleChange
		case containsAny(text, "confirm", "yes"):
			state.Intent = agents.IntentAppointmentConfirm
		case containsAny(text, "bill", "pay", "charge", "insurance"):
			state.Intent = agents.IntentBillingInquiry
		default:
			state.Intent = agents.IntentGeneralInquiry
		}
	case agents.EventManualTrigger:
		state.Intent = payload.Intent
		if state.Intent == "" {
			state.Intent = agents.IntentManual
		}
	case agents.EventScheduledJob:
		state.Intent = payload.JobType
		if state.Intent == "" {
			state.Intent = agents.IntentRecallCampaign
		}
	default:
		state.Intent = agents.IntentUnknown
	}

	state.Steps++
}

// routeToAgent decides which agent runs next based on intent and the outputs
// accumulated so far.
func (s *orchestratorService) routeToAgent(state *agents.InteractionState) string {
	if state.Escalated {
		return routeFinalize
	}

	outputs := &state.Outputs
	inbound := state.TriggerType == agents.EventInboundCall ||
		state.TriggerType == agents.EventInboundSMS ||
		state.TriggerType == agents.EventWebChat

	// Inbound interactions always begin with the Concierge.
	if inbound && !outputs.Has(agents.AgentConcierge) {
		return agents.AgentConcierge
	}

	if outputs.Concierge != nil {
		refined := outputs.Concierge.RefinedIntent
		if refined == "" {
			refined = state.Intent
		}

		switch refined {
		case agents.IntentClinicalQuestion, agents.IntentTreatmentPlan, agents.IntentChartReview:
			if !outputs.Has(agents.AgentDiagnostician) {
				return agents.AgentDiagnostician
			}
		case agents.IntentBillingInquiry, agents.IntentInsuranceQuestion:
			if !outputs.Has(agents.AgentAuditor) {
				return agents.AgentAuditor
			}
		}

		// A specialist ran; the Liaison turns its output into communications.
		if (outputs.Has(agents.AgentDiagnostician) || outputs.Has(agents.AgentAuditor)) &&
			!outputs.Has(agents.AgentLiaison) {
			return agents.AgentLiaison
		}
	}

	// Manual triggers go directly to the named agent.
	if state.TriggerType == agents.EventManualTrigger {
		target := state.Payload.Agent
		if target == "" {
			target = agents.AgentConcierge
		}
		if isKnownAgent(target) && !outputs.Has(target) {
			return target
		}
	}

	// Scheduled jobs are outbound work for the Liaison.
	if state.TriggerType == agents.EventScheduledJob && !outputs.Has(agents.AgentLiaison) {
		return agents.AgentLiaison
	}

	return routeFinalize
}

func (s *orchestratorService) runAgent(ctx context.Context, state *agents.InteractionState, agent string) error {
	state.CurrentAgent = agent
	state.Steps++

	switch agent {
	case agents.AgentConcierge:
		result, err := s.concierge.Run(ctx, state.WorkspaceID, state.PatientRef, state.Intent, &state.Payload)
		if err != nil {
			return fmt.Errorf("concierge failed: %w", err)
		}
		state.Outputs.Concierge = result
		if result.PatientRef != "" {
			state.PatientRef = result.PatientRef
		}
		if result.Escalate {
			state.Escalated = true
			state.EscalationReason = result.EscalationReason
			if state.EscalationReason == "" {
				state.EscalationReason = "Concierge escalated"
			}
		}
	case agents.AgentDiagnostician:
		result, err := s.diagnostician.Run(ctx, state.WorkspaceID, state.PatientRef, &state.Outputs)
		if err != nil {
			return fmt.Errorf("diagnostician failed: %w", err)
		}
		state.Outputs.Diagnostician = result
	case agents.AgentLiaison:
		result, err := s.liaison.Run(ctx, state.WorkspaceID, state.PatientRef, &state.Outputs)
		if err != nil {
			return fmt.Errorf("liaison failed: %w", err)
		}
		state.Outputs.Liaison = result
	case agents.AgentAuditor:
		result, err := s.auditor.Run(ctx, state.WorkspaceID, state.PatientRef, &state.Outputs)
		if err != nil {
			return fmt.Errorf("auditor failed: %w", err)
		}
		state.Outputs.Auditor = result
	default:
		return fmt.Errorf("unknown agent: %s", agent)
	}

	return nil
}

func (s *orchestratorService) finalize(ctx context.Context, state *agents.InteractionState) {
	state.Completed = true

	event := &audit.Event{
		ID:           uuid.NewString(),
		WorkspaceID:  state.WorkspaceID,
		ActorType:    audit.ActorAgent,
		ActorID:      "orchestrator",
		Action:       "interaction_completed",
		ResourceType: "interaction",
		ResourceID:   state.InteractionID,
		Metadata: map[string]string{
			"trigger_type": state.TriggerType,
			"intent":       state.Intent,
			"agents_used":  strings.Join(state.Outputs.AgentsUsed(), ","),
			"escalated":    fmt.Sprintf("%t", state.Escalated),
			"steps":        fmt.Sprintf("%d", state.Steps),
		},
		DateTimeCreated: time.Now().UTC(),
	}
	if err := s.auditRecorder.Record(ctx, event); err != nil {
		s.logger.Warn(fmt.Sprintf("Failed to record interaction audit event: %v", err))
	}

	s.logger.Info(fmt.Sprintf(
		"Interaction %s completed: intent=%s agents=%s steps=%d escalated=%t",
		state.InteractionID, state.Intent,
		strings.Join(state.Outputs.AgentsUsed(), ","), state.Steps, state.Escalated))
}

func isKnownAgent(name string) bool {
	for _, agent := range agents.AllAgents {
		if agent == name {
			return true
		}
	}
	return false
}
