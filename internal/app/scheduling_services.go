package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/auradentalai/agentic-dentist-api/internal/domain/agents"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/audit"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/scheduling"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/logger"

	"github.com/google/uuid"
)

// availabilityService implements the AvailabilityService interface against the
// business-hours slot grid
type availabilityService struct {
	appointmentRepo scheduling.AppointmentRepository
	logger          logger.Logger
}

// NewAvailabilityService creates a new instance of AvailabilityService
func NewAvailabilityService(appointmentRepo scheduling.AppointmentRepository, logger logger.Logger) (scheduling.AvailabilityService, error) {
	return &availabilityService{
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}, nil
}

// CheckAvailability returns the open slots of the given duration on a date.
// Non-business days yield no slots.
func (s *availabilityService) CheckAvailability(ctx context.Context, workspaceID string, date time.Time, durationMinutes int) ([]scheduling.Slot, error) {
	if !scheduling.IsBusinessDay(date.Weekday()) {
		return nil, nil
	}
	if durationMinutes <= 0 {
		durationMinutes = scheduling.DefaultDurationMinutes
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24*time.Hour - time.Second)

	query := scheduling.NewAppointmentQuery(workspaceID)
	query.StartTimeAfter = dayStart
	query.StartTimeBefore = dayEnd

	existing, err := s.appointmentRepo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments for %s: %w", dayStart.Format("2006-01-02"), err)
	}

	type interval struct{ start, end int }
	busy := make([]interval, 0, len(existing))
	for _, appt := range existing {
		busy = append(busy, interval{
			start: minutesOfDay(appt.StartTime),
			end:   minutesOfDay(appt.EndTime),
		})
	}

	var available []scheduling.Slot
	for slotStart := scheduling.BusinessHoursStart * 60; slotStart+durationMinutes <= scheduling.BusinessHoursEnd*60; slotStart += scheduling.SlotGridMinutes {
		slotEnd := slotStart + durationMinutes

		free := true
		for _, b := range busy {
			if slotStart < b.end && slotEnd > b.start {
				free = false
				break
			}
		}

		if free {
			available = append(available, scheduling.Slot{
				Start: formatMinutes(slotStart),
				End:   formatMinutes(slotEnd),
			})
		}
	}

	return available, nil
}

// FindNextAvailable scans upcoming business days for open slots, at most
// three per day.
func (s *availabilityService) FindNextAvailable(ctx context.Context, workspaceID string, durationMinutes, daysAhead, maxResults int) ([]scheduling.DayAvailability, error) {
	if daysAhead <= 0 {
		daysAhead = 14
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var results []scheduling.DayAvailability
	for dayOffset := 0; dayOffset < daysAhead; dayOffset++ {
		checkDate := today.AddDate(0, 0, dayOffset)

		if !scheduling.IsBusinessDay(checkDate.Weekday()) {
			continue
		}

		// Today is only useful while business hours are still open.
		if dayOffset == 0 && now.Hour() >= scheduling.BusinessHoursEnd {
			continue
		}

		slots, err := s.CheckAvailability(ctx, workspaceID, checkDate, durationMinutes)
		if err != nil {
			return nil, err
		}

		if dayOffset == 0 {
			currentMinutes := now.Hour()*60 + now.Minute()
			filtered := slots[:0]
			for _, slot := range slots {
				if parseSlotMinutes(slot.Start) > currentMinutes {
					filtered = append(filtered, slot)
				}
			}
			slots = filtered
		}

		if len(slots) > 0 {
			if len(slots) > 3 {
				slots = slots[:3]
			}
			results = append(results, scheduling.DayAvailability{
				Date:    checkDate.Format("2006-01-02"),
				DayName: checkDate.Weekday().String(),
				Slots:   slots,
			})
		}

		if len(results) >= maxResults {
			break
		}
	}

	return results, nil
}

// bookingService implements the BookingService interface for appointment
// state changes
type bookingService struct {
	appointmentRepo scheduling.AppointmentRepository
	patientRepo     scheduling.PatientRepository
	availability    scheduling.AvailabilityService
	auditRecorder   audit.Recorder
	logger          logger.Logger
}

// NewBookingService creates a new instance of BookingService
func NewBookingService(
	appointmentRepo scheduling.AppointmentRepository,
	patientRepo scheduling.PatientRepository,
	availability scheduling.AvailabilityService,
	auditRecorder audit.Recorder,
	logger logger.Logger,
) (scheduling.BookingService, error) {
	return &bookingService{
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		availability:    availability,
		auditRecorder:   auditRecorder,
		logger:          logger,
	}, nil
}

// Book creates an appointment after revalidating the slot against current
// availability. Conflicts return alternative slots for the same date.
func (s *bookingService) Book(ctx context.Context, req *scheduling.BookingRequest) (*scheduling.BookingResult, error) {
	if req == nil {
		return nil, fmt.Errorf("booking request cannot be nil")
	}

	appointmentType := req.AppointmentType
	if appointmentType == "" {
		appointmentType = "general"
	}
	duration := scheduling.DurationFor(appointmentType)
	start := req.Start.UTC()

	slots, err := s.availability.CheckAvailability(ctx, req.WorkspaceID, start, duration)
	if err != nil {
		return nil, err
	}

	requested := start.Format("15:04")
	if !slotOpen(slots, requested) {
		if len(slots) > 5 {
			slots = slots[:5]
		}
		return &scheduling.BookingResult{
			Success:        false,
			Error:          "This time slot is not available",
			AvailableSlots: slots,
		}, nil
	}

	title := req.Title
	if title == "" {
		title = humanizeAppointmentType(appointmentType)
	}
	source := req.Source
	if source == "" {
		source = scheduling.SourceConcierge
	}

	appointment := &scheduling.Appointment{
		ID:              uuid.NewString(),
		WorkspaceID:     req.WorkspaceID,
		PatientID:       req.PatientID,
		Title:           title,
		AppointmentType: appointmentType,
		StartTime:       start,
		EndTime:         start.Add(time.Duration(duration) * time.Minute),
		DurationMinutes: duration,
		Status:          scheduling.StatusScheduled,
		Source:          source,
		Notes:           req.Notes,
		DateTimeCreated: time.Now().UTC(),
	}

	if err := s.appointmentRepo.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	metadata := map[string]string{
		"date":   start.Format("2006-01-02"),
		"time":   requested,
		"type":   appointmentType,
		"source": source,
	}
	if req.PatientID != nil {
		metadata["patient_id"] = *req.PatientID
	}
	s.recordAudit(ctx, req.WorkspaceID, "appointment_booked", appointment.ID, metadata)

	return &scheduling.BookingResult{Success: true, Appointment: appointment}, nil
}

// Cancel cancels by appointment ID when given, otherwise the patient's next
// upcoming appointment, and offers reschedule suggestions.
func (s *bookingService) Cancel(ctx context.Context, workspaceID, appointmentID, patientID, reason string) (*scheduling.CancellationResult, error) {
	if reason == "" {
		reason = "Patient requested cancellation"
	}

	var appointment *scheduling.Appointment
	switch {
	case appointmentID != "":
		found, err := s.appointmentRepo.GetByID(ctx, workspaceID, appointmentID)
		if err != nil {
			if errors.Is(err, scheduling.ErrAppointmentNotFound) {
				return &scheduling.CancellationResult{Success: false, Error: "Appointment not found"}, nil
			}
			return nil, err
		}
		appointment = found
	case patientID != "":
		query := scheduling.NewAppointmentQuery(workspaceID)
		query.PatientID = patientID
		query.StartTimeAfter = time.Now().UTC()
		query.Limit = 1

		upcoming, err := s.appointmentRepo.List(ctx, query)
		if err != nil {
			return nil, err
		}
		if len(upcoming) == 0 {
			return &scheduling.CancellationResult{Success: false, Error: "Appointment not found"}, nil
		}
		appointment = upcoming[0]
	default:
		return &scheduling.CancellationResult{Success: false, Error: "Need an appointment or patient reference"}, nil
	}

	appointment.Status = scheduling.StatusCancelled
	appointment.CancellationReason = &reason
	if err := s.appointmentRepo.UpdateByID(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to cancel appointment: %w", err)
	}

	s.recordAudit(ctx, workspaceID, "appointment_cancelled", appointment.ID, map[string]string{
		"reason":        reason,
		"original_date": appointment.StartTime.Format(time.RFC3339),
		"type":          appointment.AppointmentType,
	})

	suggestions, err := s.availability.FindNextAvailable(ctx, workspaceID, appointment.DurationMinutes, 14, 3)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("Failed to compute reschedule suggestions: %v", err))
		suggestions = nil
	}

	return &scheduling.CancellationResult{
		Success:            true,
		Cancelled:          appointment,
		SuggestedRebooking: suggestions,
	}, nil
}

// Reschedule moves an appointment to a new start after revalidating the
// target slot.
func (s *bookingService) Reschedule(ctx context.Context, workspaceID, appointmentID string, newStart time.Time) (*scheduling.RescheduleResult, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, workspaceID, appointmentID)
	if err != nil {
		if errors.Is(err, scheduling.ErrAppointmentNotFound) {
			return &scheduling.RescheduleResult{Success: false, Error: "Appointment not found"}, nil
		}
		return nil, err
	}

	newStart = newStart.UTC()
	slots, err := s.availability.CheckAvailability(ctx, workspaceID, newStart, appointment.DurationMinutes)
	if err != nil {
		return nil, err
	}

	requested := newStart.Format("15:04")
	if !slotOpen(slots, requested) {
		if len(slots) > 5 {
			slots = slots[:5]
		}
		return &scheduling.RescheduleResult{
			Success:        false,
			Error:          "The requested time is not available",
			AvailableSlots: slots,
		}, nil
	}

	oldStart := appointment.StartTime
	appointment.StartTime = newStart
	appointment.EndTime = newStart.Add(time.Duration(appointment.DurationMinutes) * time.Minute)
	appointment.Status = scheduling.StatusScheduled
	if err := s.appointmentRepo.UpdateByID(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to reschedule appointment: %w", err)
	}

	s.recordAudit(ctx, workspaceID, "appointment_rescheduled", appointment.ID, map[string]string{
		"old_date": oldStart.Format("2006-01-02"),
		"old_time": oldStart.Format("15:04"),
		"new_date": newStart.Format("2006-01-02"),
		"new_time": requested,
	})

	return &scheduling.RescheduleResult{
		Success:      true,
		Appointment:  appointment,
		OldStartTime: oldStart,
	}, nil
}

// PatientAppointments lists a patient's non-cancelled appointments.
func (s *bookingService) PatientAppointments(ctx context.Context, workspaceID, patientID string, upcomingOnly bool) ([]*scheduling.Appointment, error) {
	query := scheduling.NewAppointmentQuery(workspaceID)
	query.PatientID = patientID
	if upcomingOnly {
		query.StartTimeAfter = time.Now().UTC()
	}

	return s.appointmentRepo.List(ctx, query)
}

// LookupPatientByName verifies a caller-provided name against the patient
// register. A single match verifies the caller; multiple matches are returned
// as candidates for clarification.
func (s *bookingService) LookupPatientByName(ctx context.Context, workspaceID, name string) (*scheduling.PatientMatch, error) {
	if strings.TrimSpace(name) == "" {
		return &scheduling.PatientMatch{Found: false}, nil
	}

	patients, err := s.patientRepo.FindByName(ctx, workspaceID, name)
	if err != nil {
		return nil, err
	}

	switch len(patients) {
	case 0:
		return &scheduling.PatientMatch{Found: false}, nil
	case 1:
		return &scheduling.PatientMatch{Found: true, Patient: patients[0]}, nil
	default:
		return &scheduling.PatientMatch{Found: false, Candidates: patients}, nil
	}
}

func (s *bookingService) recordAudit(ctx context.Context, workspaceID, action, appointmentID string, metadata map[string]string) {
	event := &audit.Event{
		ID:              uuid.NewString(),
		WorkspaceID:     workspaceID,
		ActorType:       audit.ActorAgent,
		ActorID:         agents.AgentConcierge,
		Action:          action,
		ResourceType:    "appointment",
		ResourceID:      appointmentID,
		Metadata:        metadata,
		DateTimeCreated: time.Now().UTC(),
	}
	if err := s.auditRecorder.Record(ctx, event); err != nil {
		s.logger.Warn(fmt.Sprintf("Failed to record audit event %s: %v", action, err))
	}
}

func minutesOfDay(t time.Time) int {
	return t.UTC().Hour()*60 + t.UTC().Minute()
}

func formatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func parseSlotMinutes(hhmm string) int {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &h, &m); err != nil {
		return 0
	}
	return h*60 + m
}

func slotOpen(slots []scheduling.Slot, start string) bool {
	for _, slot := range slots {
		if slot.Start == start {
			return true
		}
	}
	return false
}

func humanizeAppointmentType(appointmentType string) string {
	words := strings.Split(strings.ReplaceAll(appointmentType, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
