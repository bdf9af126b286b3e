//go:build unit
// +build unit

package v1

import (
	"context"
	"time"

	"github.com/auradentalai/agentic-dentist-api/internal/domain/agents"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/audit"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/scheduling"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/workspace"

	"github.com/stretchr/testify/mock"
)

// MockOrchestratorService is a mock implementation of OrchestratorService
type MockOrchestratorService struct {
	mock.Mock
}

func (m *MockOrchestratorService) RunInteraction(ctx context.Context, event *agents.TriggerEvent) (*agents.InteractionResult, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agents.InteractionResult), args.Error(1)
}

// MockConciergeService is a mock implementation of ConciergeService
type MockConciergeService struct {
	mock.Mock
}

func (m *MockConciergeService) Run(ctx context.Context, workspaceID, patientRef, intent string, payload *agents.EventPayload) (*agents.ConciergeResult, error) {
	args := m.Called(ctx, workspaceID, patientRef, intent, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agents.ConciergeResult), args.Error(1)
}

// MockDiagnosticianService is a mock implementation of DiagnosticianService
type MockDiagnosticianService struct {
	mock.Mock
}

func (m *MockDiagnosticianService) Run(ctx context.Context, workspaceID, patientRef string, prior *agents.AgentOutputs) (*agents.DiagnosticianResult, error) {
	args := m.Called(ctx, workspaceID, patientRef, prior)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agents.DiagnosticianResult), args.Error(1)
}

// MockLiaisonService is a mock implementation of LiaisonService
type MockLiaisonService struct {
	mock.Mock
}

func (m *MockLiaisonService) Run(ctx context.Context, workspaceID, patientRef string, prior *agents.AgentOutputs) (*agents.LiaisonResult, error) {
	args := m.Called(ctx, workspaceID, patientRef, prior)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agents.LiaisonResult), args.Error(1)
}

// MockAuditorService is a mock implementation of AuditorService
type MockAuditorService struct {
	mock.Mock
}

func (m *MockAuditorService) Run(ctx context.Context, workspaceID, patientRef string, prior *agents.AgentOutputs) (*agents.AuditorResult, error) {
	args := m.Called(ctx, workspaceID, patientRef, prior)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agents.AuditorResult), args.Error(1)
}

// MockBookingService is a mock implementation of BookingService
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Book(ctx context.Context, req *scheduling.BookingRequest) (*scheduling.BookingResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scheduling.BookingResult), args.Error(1)
}

func (m *MockBookingService) Cancel(ctx context.Context, workspaceID, appointmentID, patientID, reason string) (*scheduling.CancellationResult, error) {
	args := m.Called(ctx, workspaceID, appointmentID, patientID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scheduling.CancellationResult), args.Error(1)
}

func (m *MockBookingService) Reschedule(ctx context.Context, workspaceID, appointmentID string, newStart time.Time) (*scheduling.RescheduleResult, error) {
	args := m.Called(ctx, workspaceID, appointmentID, newStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scheduling.RescheduleResult), args.Error(1)
}

func (m *MockBookingService) PatientAppointments(ctx context.Context, workspaceID, patientID string, upcomingOnly bool) ([]*scheduling.Appointment, error) {
	args := m.Called(ctx, workspaceID, patientID, upcomingOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*scheduling.Appointment), args.Error(1)
}

func (m *MockBookingService) LookupPatientByName(ctx context.Context, workspaceID, name string) (*scheduling.PatientMatch, error) {
	args := m.Called(ctx, workspaceID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scheduling.PatientMatch), args.Error(1)
}

// MockAvailabilityService is a mock implementation of AvailabilityService
type MockAvailabilityService struct {
	mock.Mock
}

func (m *MockAvailabilityService) CheckAvailability(ctx context.Context, workspaceID string, date time.Time, durationMinutes int) ([]scheduling.Slot, error) {
	args := m.Called(ctx, workspaceID, date, durationMinutes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]scheduling.Slot), args.Error(1)
}

func (m *MockAvailabilityService) FindNextAvailable(ctx context.Context, workspaceID string, durationMinutes, daysAhead, maxResults int) ([]scheduling.DayAvailability, error) {
	args := m.Called(ctx, workspaceID, durationMinutes, daysAhead, maxResults)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]scheduling.DayAvailability), args.Error(1)
}

// MockAuditRecorder is a mock implementation of audit.Recorder
type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) Record(ctx context.Context, event *audit.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockAuditRecorder) ListByWorkspace(ctx context.Context, workspaceID string, limit int) ([]*audit.Event, error) {
	args := m.Called(ctx, workspaceID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*audit.Event), args.Error(1)
}

// MockMembershipRepository is a mock implementation of MembershipRepository
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) Create(ctx context.Context, membership *workspace.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockMembershipRepository) GetActive(ctx context.Context, profileID, workspaceID string) (*workspace.Membership, error) {
	args := m.Called(ctx, profileID, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workspace.Membership), args.Error(1)
}
