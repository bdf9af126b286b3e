package scheduling

import "time"

// AppointmentDurations maps appointment types to default durations (minutes).
var AppointmentDurations = map[string]int{
	"cleaning":     60,
	"exam":         30,
	"filling":      45,
	"crown":        90,
	"root_canal":   90,
	"extraction":   60,
	"whitening":    60,
	"consultation": 30,
	"emergency":    30,
	"follow_up":    15,
	"general":      30,
}

// DefaultDurationMinutes applies when the appointment type is unknown.
const DefaultDurationMinutes = 30

// DurationFor returns the default duration for an appointment type.
func DurationFor(appointmentType string) int {
	if d, ok := AppointmentDurations[appointmentType]; ok {
		return d
	}
	return DefaultDurationMinutes
}

// Business hours: Mon-Fri, 08:00-17:00, on a 30 minute slot grid.
const (
	BusinessHoursStart = 8
	BusinessHoursEnd   = 17
	SlotGridMinutes    = 30
)

// IsBusinessDay reports whether appointments can be booked on the weekday.
func IsBusinessDay(d time.Weekday) bool {
	return d >= time.Monday && d <= time.Friday
}

// Slot is a bookable time window, HH:MM formatted.
type Slot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DayAvailability groups open slots for one date.
type DayAvailability struct {
	Date    string `json:"date"`
	DayName string `json:"day_name"`
	Slots   []Slot `json:"slots"`
}

// BookingResult reports the outcome of a booking attempt. On conflict,
// AvailableSlots carries alternatives for the same date.
type BookingResult struct {
	Success        bool         `json:"success"`
	Error          string       `json:"error,omitempty"`
	Appointment    *Appointment `json:"appointment,omitempty"`
	AvailableSlots []Slot       `json:"available_slots,omitempty"`
}

// CancellationResult reports a cancellation plus reschedule suggestions.
type CancellationResult struct {
	Success            bool              `json:"success"`
	Error              string            `json:"error,omitempty"`
	Cancelled          *Appointment      `json:"cancelled_appointment,omitempty"`
	SuggestedRebooking []DayAvailability `json:"suggested_reschedule,omitempty"`
}

// RescheduleResult reports a reschedule outcome.
type RescheduleResult struct {
	Success        bool         `json:"success"`
	Error          string       `json:"error,omitempty"`
	Appointment    *Appointment `json:"rescheduled,omitempty"`
	OldStartTime   time.Time    `json:"old_start_time,omitempty"`
	AvailableSlots []Slot       `json:"available_slots,omitempty"`
}

// PatientMatch is the result of a lookup by name.
type PatientMatch struct {
	Found      bool
	Patient    *Patient
	Candidates []*Patient
}
