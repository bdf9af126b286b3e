package scheduling

import (
	"context"
	"errors"
	"time"
)

// Lookup errors shared by repository implementations.
var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrPatientNotFound     = errors.New("patient not found")
)

// AppointmentRepository defines the interface for appointment persistence
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *Appointment) error
	List(ctx context.Context, query *AppointmentQuery) ([]*Appointment, error)
	GetByID(ctx context.Context, workspaceID, appointmentID string) (*Appointment, error)
	UpdateByID(ctx context.Context, appointment *Appointment) error
}

// PatientRepository defines the interface for patient persistence.
// Implementations are responsible for encrypting PHI columns at rest.
type PatientRepository interface {
	Create(ctx context.Context, patient *Patient) error
	GetByID(ctx context.Context, workspaceID, patientID string) (*Patient, error)
	// FindByName performs a case-insensitive match on the decrypted full
	// name within a workspace.
	FindByName(ctx context.Context, workspaceID, name string) ([]*Patient, error)
}

// AvailabilityService computes open slots against the business-hours grid.
type AvailabilityService interface {
	// CheckAvailability returns the open slots of the given duration on a
	// date. Non-business days yield no slots.
	CheckAvailability(ctx context.Context, workspaceID string, date time.Time, durationMinutes int) ([]Slot, error)

	// FindNextAvailable scans up to daysAhead days and returns at most
	// maxResults days with open slots (capped to three slots per day).
	FindNextAvailable(ctx context.Context, workspaceID string, durationMinutes, daysAhead, maxResults int) ([]DayAvailability, error)
}

// BookingService executes appointment state changes on behalf of agents
// and the voice channel.
type BookingService interface {
	// Book creates an appointment after revalidating the slot.
	Book(ctx context.Context, req *BookingRequest) (*BookingResult, error)

	// Cancel cancels by appointment ID when given, otherwise the patient's
	// next upcoming appointment, and suggests reschedule slots.
	Cancel(ctx context.Context, workspaceID, appointmentID, patientID, reason string) (*CancellationResult, error)

	// Reschedule moves an appointment to a new start after revalidating
	// the target slot.
	Reschedule(ctx context.Context, workspaceID, appointmentID string, newStart time.Time) (*RescheduleResult, error)

	// PatientAppointments lists a patient's non-cancelled appointments,
	// optionally restricted to upcoming ones.
	PatientAppointments(ctx context.Context, workspaceID, patientID string, upcomingOnly bool) ([]*Appointment, error)

	// LookupPatientByName verifies a caller-provided name against the
	// patient register.
	LookupPatientByName(ctx context.Context, workspaceID, name string) (*PatientMatch, error)
}

// BookingRequest carries the parameters for creating an appointment.
type BookingRequest struct {
	WorkspaceID     string
	PatientID       *string
	Start           time.Time
	AppointmentType string
	Title           string
	Notes           *string
	Source          string
}
