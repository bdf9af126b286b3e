package scheduling

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// AppointmentQuery filters appointment listings
type AppointmentQuery struct {
	WorkspaceID     string    `validate:"required,uuid4"`
	PatientID       string    `validate:"omitempty,uuid4"`
	StartTimeAfter  time.Time // zero value means unbounded
	StartTimeBefore time.Time
	ExcludeStatus   string `validate:"omitempty,oneof=scheduled confirmed completed cancelled no_show"`

	Limit     int    `validate:"omitempty,min=1,max=500"`
	Offset    int    `validate:"omitempty,min=0"`
	SortBy    string `validate:"omitempty,oneof=start_time date_time_created"`
	SortOrder string `validate:"omitempty,oneof=asc desc"`
}

// NewAppointmentQuery creates an AppointmentQuery with default pagination
// and sorting, excluding cancelled appointments.
func NewAppointmentQuery(workspaceID string) *AppointmentQuery {
	return &AppointmentQuery{
		WorkspaceID:   workspaceID,
		ExcludeStatus: StatusCancelled,
		Limit:         100,
		Offset:        0,
		SortBy:        "start_time",
		SortOrder:     "asc",
	}
}

// Validate for validating AppointmentQuery struct
func (q *AppointmentQuery) Validate() error {
	validate := validator.New()

	err := validate.Struct(q)
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

	return nil
}
