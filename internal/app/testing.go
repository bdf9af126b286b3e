//go:build integration
// +build integration

package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/auradentalai/agentic-dentist-api/internal/domain/agents"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/scheduling"
	"github.com/auradentalai/agentic-dentist-api/internal/infrastructure/persistence"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/testutil"

	"github.com/stretchr/testify/require"
)

// scriptedChatModel returns canned replies keyed by agent, recognized from
// the system prompt. Tests exercise the swarm without a live model.
type scriptedChatModel struct {
	replies map[string]string
	calls   []string
	prompts map[string]string
}

func (m *scriptedChatModel) Complete(_ context.Context, _, systemPrompt, userPrompt string) (string, error) {
	for agent, marker := range map[string]string{
		agents.AgentConcierge:     "Concierge agent",
		agents.AgentDiagnostician: "Diagnostician agent",
		agents.AgentLiaison:       "Liaison agent",
		agents.AgentAuditor:       "Auditor agent",
	} {
		if containsAny(systemPrompt, marker) {
			m.calls = append(m.calls, agent)
			m.prompts[agent] = userPrompt
			if reply, ok := m.replies[agent]; ok {
				return reply, nil
			}
			return "", fmt.Errorf("no scripted reply for agent %s", agent)
		}
	}
	return "", fmt.Errorf("unrecognized system prompt")
}

// Default scripted agent replies. Tests override per scenario.
const (
	scriptedConciergeReply = `{
		"patient_identified": false,
		"patient_ref": null,
		"refined_intent": "general_inquiry",
		"confidence": 0.9,
		"can_handle": true,
		"response": "We are open Monday through Friday, 8am to 5pm.",
		"action_taken": null,
		"escalate": false,
		"escalation_reason": null,
		"notes": "Answered directly."
	}`

	scriptedDiagnosticianReply = `{
		"briefing_card": {
			"patient_ref": "ref-123",
			"summary": "Routine patient, one overdue cleaning.",
			"alerts": [],
			"pending_treatments": ["crown #14"],
			"treatment_gaps": ["cleaning overdue by 3 months"],
			"risk_flags": [],
			"last_visit": "unknown",
			"next_recommended": "Schedule hygiene appointment"
		},
		"confidence": 0.7,
		"data_quality": "partial",
		"notes": "Template briefing."
	}`

	scriptedLiaisonReply = `{
		"messages": [
			{
				"channel": "sms",
				"recipient_ref": "ref-123",
				"template_type": "recall",
				"body": "Hi {patient_name}, you are due for a cleaning. Reply STOP to opt out.",
				"language": "en",
				"urgency": "low",
				"send_at": "now",
				"requires_approval": false
			}
		],
		"notes": "Recall drafted."
	}`

	scriptedAuditorReply = `{
		"audit_result": {
			"status": "pass",
			"checks_performed": ["phi_scan"],
			"findings": [],
			"compliance_score": 98,
			"phi_exposure_detected": false,
			"billing_issues": []
		},
		"balance_info": "No outstanding balance",
		"notes": "Clean audit."
	}`
)

func newScriptedChatModel() *scriptedChatModel {
	return &scriptedChatModel{
		prompts: map[string]string{},
		replies: map[string]string{
			agents.AgentConcierge:     scriptedConciergeReply,
			agents.AgentDiagnostician: scriptedDiagnosticianReply,
			agents.AgentLiaison:       scriptedLiaisonReply,
			agents.AgentAuditor:       scriptedAuditorReply,
		},
	}
}

// TestServices holds all application services and dependencies for testing
type TestServices struct {
	Availability  scheduling.AvailabilityService
	Booking       scheduling.BookingService
	Concierge     agents.ConciergeService
	Diagnostician agents.DiagnosticianService
	Liaison       agents.LiaisonService
	Auditor       agents.AuditorService
	Orchestrator  agents.OrchestratorService

	ChatModel *scriptedChatModel
	DBContext *persistence.TestContext
}

// SetupTestServices initializes all application services for integration tests
func SetupTestServices(t *testing.T, dbType string) *TestServices {
	t.Helper()

	logger := testutil.SetupTestLogger(t)
	dbContext := persistence.SetupTestDB(t, dbType)
	chatModel := newScriptedChatModel()

	availability, err := NewAvailabilityService(dbContext.AppointmentRepo, logger)
	require.NoError(t, err)

	booking, err := NewBookingService(dbContext.AppointmentRepo, dbContext.PatientRepo, availability, dbContext.AuditRepo, logger)
	require.NoError(t, err)

	concierge, err := NewConciergeService(chatModel, booking, availability, dbContext.AuditRepo, logger)
	require.NoError(t, err)

	diagnostician, err := NewDiagnosticianService(chatModel, dbContext.AuditRepo, logger)
	require.NoError(t, err)

	liaison, err := NewLiaisonService(chatModel, dbContext.AuditRepo, logger)
	require.NoError(t, err)

	auditor, err := NewAuditorService(chatModel, dbContext.AuditRepo, logger)
	require.NoError(t, err)

	orchestrator, err := NewOrchestratorService(concierge, diagnostician, liaison, auditor, dbContext.AuditRepo, logger)
	require.NoError(t, err)

	return &TestServices{
		Availability:  availability,
		Booking:       booking,
		Concierge:     concierge,
		Diagnostician: diagnostician,
		Liaison:       liaison,
		Auditor:       auditor,
		Orchestrator:  orchestrator,
		ChatModel:     chatModel,
		DBContext:     dbContext,
	}
}
