//go:build integration
// +build integration

package app

import (
	"context"
	"testing"
	"time"

	"github.com/auradentalai/agentic-dentist-api/internal/domain/agents"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/scheduling"
	"github.com/auradentalai/agentic-dentist-api/internal/infrastructure/persistence"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConciergeService_VerifiesPatientByName(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	workspaceID := uuid.NewString()

	patient := persistence.CreateTestPatient(t, workspaceID, "Maria Gonzalez")
	require.NoError(t, services.DBContext.PatientRepo.Create(ctx, patient))

	result, err := services.Concierge.Run(ctx, workspaceID, "", agents.IntentAppointmentRequest, &agents.EventPayload{
		Text:        "Hi, I'd like to book a cleaning",
		PatientName: "Maria Gonzalez",
		Channel:     "phone",
	})
	require.NoError(t, err)
	require.NotNil(t, result.ToolResults)

	lookup := result.ToolResults.PatientLookup
	require.NotNil(t, lookup)
	assert.True(t, lookup.Found)
	assert.Equal(t, patient.ID, lookup.PatientRef)

	// "book" in the message pre-fetches availability.
	assert.NotEmpty(t, result.ToolResults.Availability)
	assert.Contains(t, result.ToolResults.Used(), "patient_lookup")
	assert.Contains(t, result.ToolResults.Used(), "availability")
}

func TestConciergeService_UnknownPatientName(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)

	result, err := services.Concierge.Run(context.Background(), uuid.NewString(), "", "", &agents.EventPayload{
		Text:        "I want to book",
		PatientName: "Ghost Patient",
	})
	require.NoError(t, err)
	require.NotNil(t, result.ToolResults.PatientLookup)
	assert.False(t, result.ToolResults.PatientLookup.Found)
	assert.Empty(t, result.ToolResults.PatientLookup.PatientRef)
}

func TestConciergeService_CancelsUpcomingAppointment(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	workspaceID := uuid.NewString()

	patient := persistence.CreateTestPatient(t, workspaceID, "John Smith")
	require.NoError(t, services.DBContext.PatientRepo.Create(ctx, patient))

	start := nextBusinessDay(t).Add(11 * time.Hour)
	booked, err := services.Booking.Book(ctx, &scheduling.BookingRequest{
		WorkspaceID:     workspaceID,
		PatientID:       &patient.ID,
		Start:           start,
		AppointmentType: "exam",
	})
	require.NoError(t, err)
	require.True(t, booked.Success)

	result, err := services.Concierge.Run(ctx, workspaceID, patient.ID, agents.IntentScheduleChange, &agents.EventPayload{
		Text: "I need to cancel my appointment",
	})
	require.NoError(t, err)

	cancellation := result.ToolResults.Cancellation
	require.NotNil(t, cancellation)
	assert.True(t, cancellation.Success)
	require.NotNil(t, cancellation.Cancelled)
	assert.Equal(t, booked.Appointment.ID, cancellation.Cancelled.ID)
	assert.NotEmpty(t, cancellation.SuggestedRebooking)

	// The patient's appointment list was fetched before cancellation.
	assert.Len(t, result.ToolResults.PatientAppointments, 1)
}

func TestConciergeService_MasksIdentifiersInPrompt(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)

	_, err := services.Concierge.Run(context.Background(), uuid.NewString(), "", agents.IntentGeneralInquiry, &agents.EventPayload{
		Text: "Call me back at 555-867-5309 or jane@example.com",
	})
	require.NoError(t, err)

	prompt := services.ChatModel.prompts[agents.AgentConcierge]
	require.NotEmpty(t, prompt)
	assert.NotContains(t, prompt, "555-867-5309")
	assert.NotContains(t, prompt, "jane@example.com")
	assert.Contains(t, prompt, "[phone]")
	assert.Contains(t, prompt, "[email]")
}

func TestConciergeService_MalformedModelReply(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	services.ChatModel.replies[agents.AgentConcierge] = "I am not JSON at all"

	result, err := services.Concierge.Run(context.Background(), uuid.NewString(), "", agents.IntentGeneralInquiry, &agents.EventPayload{
		Text: "hello",
	})
	require.NoError(t, err, "agent failures degrade, they do not abort the interaction")
	assert.True(t, result.Err)
	assert.Equal(t, agents.IntentGeneralInquiry, result.RefinedIntent)
}

func TestDiagnosticianService_GeneratesBriefingCard(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	workspaceID := uuid.NewString()

	prior := &agents.AgentOutputs{
		Concierge: &agents.ConciergeResult{
			RefinedIntent: agents.IntentClinicalQuestion,
			Notes:         "Patient reports cold sensitivity on the upper left.",
		},
	}

	result, err := services.Diagnostician.Run(context.Background(), workspaceID, "ref-123", prior)
	require.NoError(t, err)
	require.NotNil(t, result.BriefingCard)
	assert.Equal(t, "partial", result.DataQuality)
	assert.NotEmpty(t, result.BriefingCard.TreatmentGaps)

	events, err := services.DBContext.AuditRepo.ListByWorkspace(context.Background(), workspaceID, 10)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, "briefing_generated", events[0].Action)
	assert.Equal(t, agents.AgentDiagnostician, events[0].ActorID)
}

func TestLiaisonService_DraftsMessages(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)

	prior := &agents.AgentOutputs{
		Diagnostician: &agents.DiagnosticianResult{
			BriefingCard: &agents.BriefingCard{
				TreatmentGaps:   []string{"cleaning overdue"},
				NextRecommended: "Schedule hygiene appointment",
			},
		},
	}

	result, err := services.Liaison.Run(context.Background(), uuid.NewString(), "ref-123", prior)
	require.NoError(t, err)
	require.Len(t, result.Messages, 1)
	assert.Equal(t, "sms", result.Messages[0].Channel)
	assert.Contains(t, result.Messages[0].Body, "{patient_name}", "PII stays as a placeholder")
}

func TestAuditorService_ReviewsPriorOutputs(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	workspaceID := uuid.NewString()

	prior := &agents.AgentOutputs{
		Concierge: &agents.ConciergeResult{RefinedIntent: agents.IntentBillingInquiry},
		Liaison:   &agents.LiaisonResult{Messages: []agents.OutboundMessage{{Channel: "sms", Body: "hi"}}},
	}

	result, err := services.Auditor.Run(context.Background(), workspaceID, "", prior)
	require.NoError(t, err)
	require.NotNil(t, result.AuditReport)
	assert.Equal(t, "pass", result.AuditReport.Status)
	assert.Equal(t, 98, result.AuditReport.ComplianceScore)

	events, err := services.DBContext.AuditRepo.ListByWorkspace(context.Background(), workspaceID, 10)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, "compliance_audit", events[0].Action)
}
