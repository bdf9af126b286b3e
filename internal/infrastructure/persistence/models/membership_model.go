package models

import (
	"time"

	"github.com/auradentalai/agentic-dentist-api/internal/domain/workspace"
)

// MembershipModel is the GORM database model for clinic memberships
type MembershipModel struct {
	ID              string    `gorm:"primaryKey;type:uuid"`
	ProfileID       string    `gorm:"not null;index;type:varchar(255)"`
	WorkspaceID     string    `gorm:"not null;index;type:uuid"`
	Role            string    `gorm:"not null;type:varchar(20)"`
	Status          string    `gorm:"not null;type:varchar(20)"`
	DateTimeCreated time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (MembershipModel) TableName() string {
	return "clinic_memberships"
}

// ToDomain converts GORM model to domain entity
func (m *MembershipModel) ToDomain() *workspace.Membership {
	return &workspace.Membership{
		ID:              m.ID,
		ProfileID:       m.ProfileID,
		WorkspaceID:     m.WorkspaceID,
		Role:            m.Role,
		Status:          m.Status,
		DateTimeCreated: m.DateTimeCreated,
	}
}

// FromDomain converts domain entity to GORM model
func (m *MembershipModel) FromDomain(mb *workspace.Membership) {
	m.ID = mb.ID
	m.ProfileID = mb.ProfileID
	m.WorkspaceID = mb.WorkspaceID
	m.Role = mb.Role
	m.Status = mb.Status
	m.DateTimeCreated = mb.DateTimeCreated
}
