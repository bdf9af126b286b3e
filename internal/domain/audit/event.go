// Package audit defines the immutable audit trail written by every actor in
// the system: users, agents and the system itself.
package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Actor type constants
const (
	ActorUser   = "user"
	ActorAgent  = "agent"
	ActorSystem = "system"
)

// Event is one append-only audit record. Events are never updated or
// deleted once written.
type Event struct {
	ID              string            `validate:"required,uuid4"`
	WorkspaceID     string            `validate:"required,uuid4"`
	ActorType       string            `validate:"required,oneof=user agent system"`
	ActorID         string            `validate:"required,min=1,max=255"`
	Action          string            `validate:"required,min=1,max=255"`
	ResourceType    string            `validate:"omitempty,max=100"`
	ResourceID      string            `validate:"omitempty,max=255"`
	Metadata        map[string]string `validate:"-"`
	DateTimeCreated time.Time         `validate:"required"`
}

// Validate for validating Event struct
func (e *Event) Validate() error {
	validate := validator.New()

	err := validate.Struct(e)
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

// Recorder appends events to the audit trail.
type Recorder interface {
	Record(ctx context.Context, event *Event) error
	// ListByWorkspace returns the most recent events for a workspace,
	// newest first.
	ListByWorkspace(ctx context.Context, workspaceID string, limit int) ([]*Event, error)
}
