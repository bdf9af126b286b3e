//go:build integration
// +build integration

package app

import (
	"context"
	"testing"
	"time"

	"github.com/auradentalai/agentic-dentist-api/internal/domain/scheduling"
	"github.com/auradentalai/agentic-dentist-api/internal/infrastructure/persistence"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nextBusinessDay returns the next weekday strictly after today, at midnight UTC.
func nextBusinessDay(t *testing.T) time.Time {
	t.Helper()
	day := time.Now().UTC().AddDate(0, 0, 1)
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	for !scheduling.IsBusinessDay(day.Weekday()) {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

func TestAvailabilityService_CheckAvailability_EmptyDay(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	workspaceID := uuid.NewString()

	day := nextBusinessDay(t)
	slots, err := services.Availability.CheckAvailability(context.Background(), workspaceID, day, 30)
	require.NoError(t, err)

	// 8:00 through 16:30 on a 30 minute grid.
	require.Len(t, slots, 18)
	assert.Equal(t, "08:00", slots[0].Start)
	assert.Equal(t, "08:30", slots[0].End)
	assert.Equal(t, "16:30", slots[len(slots)-1].Start)
	assert.Equal(t, "17:00", slots[len(slots)-1].End)
}

func TestAvailabilityService_CheckAvailability_SkipsBookedSlots(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	workspaceID := uuid.NewString()

	day := nextBusinessDay(t)
	booked := persistence.CreateTestAppointment(t, workspaceID, nil, day.Add(9*time.Hour), "cleaning")
	require.NoError(t, services.DBContext.AppointmentRepo.Create(ctx, booked))

	slots, err := services.Availability.CheckAvailability(ctx, workspaceID, day, 30)
	require.NoError(t, err)

	// Cleaning runs 9:00 to 10:00, removing two 30 minute slots.
	require.Len(t, slots, 16)
	for _, slot := range slots {
		assert.NotEqual(t, "09:00", slot.Start)
		assert.NotEqual(t, "09:30", slot.Start)
	}
}

func TestAvailabilityService_CheckAvailability_Weekend(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)

	day := nextBusinessDay(t)
	for scheduling.IsBusinessDay(day.Weekday()) {
		day = day.AddDate(0, 0, 1)
	}

	slots, err := services.Availability.CheckAvailability(context.Background(), uuid.NewString(), day, 30)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestAvailabilityService_FindNextAvailable(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)

	days, err := services.Availability.FindNextAvailable(context.Background(), uuid.NewString(), 60, 14, 3)
	require.NoError(t, err)
	require.NotEmpty(t, days)
	assert.LessOrEqual(t, len(days), 3)

	for _, day := range days {
		assert.LessOrEqual(t, len(day.Slots), 3, "at most three slots per day")
		parsed, err := time.Parse("2006-01-02", day.Date)
		require.NoError(t, err)
		assert.True(t, scheduling.IsBusinessDay(parsed.Weekday()))
		assert.Equal(t, parsed.Weekday().String(), day.DayName)
	}
}

func TestBookingService_Book_Success(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	workspaceID := uuid.NewString()

	patient := persistence.CreateTestPatient(t, workspaceID, "Maria Gonzalez")
	require.NoError(t, services.DBContext.PatientRepo.Create(ctx, patient))

	start := nextBusinessDay(t).Add(9 * time.Hour)
	result, err := services.Booking.Book(ctx, &scheduling.BookingRequest{
		WorkspaceID:     workspaceID,
		PatientID:       &patient.ID,
		Start:           start,
		AppointmentType: "cleaning",
	})
	require.NoError(t, err)
	require.True(t, result.Success, result.Error)
	require.NotNil(t, result.Appointment)
	assert.Equal(t, 60, result.Appointment.DurationMinutes)
	assert.Equal(t, scheduling.StatusScheduled, result.Appointment.Status)
	assert.Equal(t, "Cleaning", result.Appointment.Title)
	assert.Equal(t, start.Add(60*time.Minute), result.Appointment.EndTime)

	events, err := services.DBContext.AuditRepo.ListByWorkspace(ctx, workspaceID, 10)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, "appointment_booked", events[0].Action)
}

func TestBookingService_Book_Conflict(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	workspaceID := uuid.NewString()

	start := nextBusinessDay(t).Add(9 * time.Hour)
	first, err := services.Booking.Book(ctx, &scheduling.BookingRequest{
		WorkspaceID:     workspaceID,
		Start:           start,
		AppointmentType: "exam",
	})
	require.NoError(t, err)
	require.True(t, first.Success)

	second, err := services.Booking.Book(ctx, &scheduling.BookingRequest{
		WorkspaceID:     workspaceID,
		Start:           start,
		AppointmentType: "exam",
	})
	require.NoError(t, err)
	assert.False(t, second.Success)
	assert.Equal(t, "This time slot is not available", second.Error)
	assert.NotEmpty(t, second.AvailableSlots, "alternatives offered on conflict")
}

func TestBookingService_Cancel_NextUpcomingForPatient(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	workspaceID := uuid.NewString()

	patient := persistence.CreateTestPatient(t, workspaceID, "John Smith")
	require.NoError(t, services.DBContext.PatientRepo.Create(ctx, patient))

	start := nextBusinessDay(t).Add(10 * time.Hour)
	booked, err := services.Booking.Book(ctx, &scheduling.BookingRequest{
		WorkspaceID:     workspaceID,
		PatientID:       &patient.ID,
		Start:           start,
		AppointmentType: "filling",
	})
	require.NoError(t, err)
	require.True(t, booked.Success)

	result, err := services.Booking.Cancel(ctx, workspaceID, "", patient.ID, "")
	require.NoError(t, err)
	require.True(t, result.Success, result.Error)
	assert.Equal(t, booked.Appointment.ID, result.Cancelled.ID)
	assert.Equal(t, scheduling.StatusCancelled, result.Cancelled.Status)
	assert.NotEmpty(t, result.SuggestedRebooking, "reschedule options offered")

	remaining, err := services.Booking.PatientAppointments(ctx, workspaceID, patient.ID, true)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestBookingService_Cancel_NotFound(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)

	result, err := services.Booking.Cancel(context.Background(), uuid.NewString(), uuid.NewString(), "", "")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Appointment not found", result.Error)

	result, err = services.Booking.Cancel(context.Background(), uuid.NewString(), "", "", "")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Need an appointment or patient reference", result.Error)
}

func TestBookingService_Reschedule(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	workspaceID := uuid.NewString()

	day := nextBusinessDay(t)
	booked, err := services.Booking.Book(ctx, &scheduling.BookingRequest{
		WorkspaceID:     workspaceID,
		Start:           day.Add(9 * time.Hour),
		AppointmentType: "exam",
	})
	require.NoError(t, err)
	require.True(t, booked.Success)

	// Move to a different day so the existing booking cannot block the target.
	newDay := day.AddDate(0, 0, 1)
	for !scheduling.IsBusinessDay(newDay.Weekday()) {
		newDay = newDay.AddDate(0, 0, 1)
	}
	newStart := newDay.Add(14 * time.Hour)

	result, err := services.Booking.Reschedule(ctx, workspaceID, booked.Appointment.ID, newStart)
	require.NoError(t, err)
	require.True(t, result.Success, result.Error)
	assert.Equal(t, newStart, result.Appointment.StartTime)
	assert.Equal(t, day.Add(9*time.Hour), result.OldStartTime)
}

func TestBookingService_LookupPatientByName(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	workspaceID := uuid.NewString()

	patient := persistence.CreateTestPatient(t, workspaceID, "Maria Gonzalez")
	require.NoError(t, services.DBContext.PatientRepo.Create(ctx, patient))

	match, err := services.Booking.LookupPatientByName(ctx, workspaceID, "Maria Gonzalez")
	require.NoError(t, err)
	require.True(t, match.Found)
	assert.Equal(t, patient.ID, match.Patient.ID)

	match, err = services.Booking.LookupPatientByName(ctx, workspaceID, "Nobody Here")
	require.NoError(t, err)
	assert.False(t, match.Found)
	assert.Empty(t, match.Candidates)
}
