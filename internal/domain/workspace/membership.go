// Package workspace defines clinic workspaces and user membership, the
// authorization boundary every request is checked against.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Membership status constants
const (
	StatusActive  = "active"
	StatusInvited = "invited"
	StatusRevoked = "revoked"
)

// Membership role constants
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleViewer = "viewer"
)

// ErrNotAMember is returned when a user has no active membership in the
// requested workspace.
var ErrNotAMember = errors.New("not a member of this workspace")

// Membership links a user profile to a clinic workspace.
type Membership struct {
	ID              string    `validate:"required,uuid4"`
	ProfileID       string    `validate:"required,min=1,max=255"`
	WorkspaceID     string    `validate:"required,uuid4"`
	Role            string    `validate:"required,oneof=owner admin staff viewer"`
	Status          string    `validate:"required,oneof=active invited revoked"`
	DateTimeCreated time.Time `validate:"required"`
}

// Validate for validating Membership struct
func (m *Membership) Validate() error {
	validate := validator.New()

	err := validate.Struct(m)
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

// MembershipRepository defines the interface for membership lookups
type MembershipRepository interface {
	Create(ctx context.Context, membership *Membership) error
	// GetActive returns the active membership of a profile in a workspace,
	// or ErrNotAMember.
	GetActive(ctx context.Context, profileID, workspaceID string) (*Membership, error)
}
