package models

import (
	"encoding/json"
	"time"

	"github.com/auradentalai/agentic-dentist-api/internal/domain/audit"
)

// AuditEventModel is the GORM database model for the append-only audit log
type AuditEventModel struct {
	ID              string    `gorm:"primaryKey;type:uuid"`
	WorkspaceID     string    `gorm:"not null;index;type:uuid"`
	ActorType       string    `gorm:"not null;type:varchar(20)"`
	ActorID         string    `gorm:"not null;type:varchar(255)"`
	Action          string    `gorm:"not null;type:varchar(255);index"`
	ResourceType    string    `gorm:"type:varchar(100)"`
	ResourceID      string    `gorm:"type:varchar(255)"`
	Metadata        string    `gorm:"type:text"`
	DateTimeCreated time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for GORM
func (AuditEventModel) TableName() string {
	return "audit_log"
}

// ToDomain converts GORM model to domain entity
func (m *AuditEventModel) ToDomain() (*audit.Event, error) {
	event := &audit.Event{
		ID:              m.ID,
		WorkspaceID:     m.WorkspaceID,
		ActorType:       m.ActorType,
		ActorID:         m.ActorID,
		Action:          m.Action,
		ResourceType:    m.ResourceType,
		ResourceID:      m.ResourceID,
		DateTimeCreated: m.DateTimeCreated,
	}

	if m.Metadata != "" {
		if err := json.Unmarshal([]byte(m.Metadata), &event.Metadata); err != nil {
			return nil, err
		}
	}

	return event, nil
}

// FromDomain converts domain entity to GORM model
func (m *AuditEventModel) FromDomain(e *audit.Event) error {
	m.ID = e.ID
	m.WorkspaceID = e.WorkspaceID
	m.ActorType = e.ActorType
	m.ActorID = e.ActorID
	m.Action = e.Action
	m.ResourceType = e.ResourceType
	m.ResourceID = e.ResourceID
	m.DateTimeCreated = e.DateTimeCreated

	if e.Metadata != nil {
		raw, err := json.Marshal(e.Metadata)
		if err != nil {
			return err
		}
		m.Metadata = string(raw)
	}

	return nil
}
