package scheduling

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Appointment status constants
const (
	StatusScheduled = "scheduled"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

// Appointment source constants
const (
	SourceConcierge = "concierge"
	SourcePhone     = "phone"
	SourceFrontDesk = "front_desk"
)

// Appointment entity
type Appointment struct {
	ID                 string    `validate:"required,uuid4"`
	WorkspaceID        string    `validate:"required,uuid4"`
	PatientID          *string   `validate:"omitempty,uuid4"`
	Title              string    `validate:"required,min=1,max=255"`
	AppointmentType    string    `validate:"required,min=1,max=50"`
	StartTime          time.Time `validate:"required"`
	EndTime            time.Time `validate:"required"`
	DurationMinutes    int       `validate:"required,min=1"`
	Status             string    `validate:"required,oneof=scheduled confirmed completed cancelled no_show"`
	Source             string    `validate:"required,min=1,max=50"`
	Notes              *string   `validate:"omitempty,max=2000"`
	CancellationReason *string   `validate:"omitempty,max=500"`
	DateTimeCreated    time.Time `validate:"required"`
}

// Validate for validating Appointment struct
func (a *Appointment) Validate() error {
	validate := validator.New()

	err := validate.Struct(a)
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

	if !a.EndTime.After(a.StartTime) {
		return fmt.Errorf("appointment end time must be after start time")
	}

	return nil
}
