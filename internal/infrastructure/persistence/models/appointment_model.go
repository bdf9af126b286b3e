package models

import (
	"time"

	"github.com/auradentalai/agentic-dentist-api/internal/domain/scheduling"
)

// AppointmentModel is the GORM database model for appointments (infrastructure concern)
type AppointmentModel struct {
	ID                 string    `gorm:"primaryKey;type:uuid"`
	WorkspaceID        string    `gorm:"not null;index;type:uuid"`
	PatientID          *string   `gorm:"type:uuid;index"`
	Title              string    `gorm:"not null;type:varchar(255)"`
	AppointmentType    string    `gorm:"not null;type:varchar(50)"`
	StartTime          time.Time `gorm:"not null;index"`
	EndTime            time.Time `gorm:"not null"`
	DurationMinutes    int       `gorm:"not null"`
	Status             string    `gorm:"not null;type:varchar(20);index"`
	Source             string    `gorm:"not null;type:varchar(50)"`
	Notes              *string   `gorm:"type:text"`
	CancellationReason *string   `gorm:"type:varchar(500)"`
	DateTimeCreated    time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (AppointmentModel) TableName() string {
	return "appointments"
}

// ToDomain converts GORM model to domain entity
func (m *AppointmentModel) ToDomain() *scheduling.Appointment {
	return &scheduling.Appointment{
		ID:                 m.ID,
		WorkspaceID:        m.WorkspaceID,
		PatientID:          m.PatientID,
		Title:              m.Title,
		AppointmentType:    m.AppointmentType,
		StartTime:          m.StartTime,
		EndTime:            m.EndTime,
		DurationMinutes:    m.DurationMinutes,
		Status:             m.Status,
		Source:             m.Source,
		Notes:              m.Notes,
		CancellationReason: m.CancellationReason,
		DateTimeCreated:    m.DateTimeCreated,
	}
}

// FromDomain converts domain entity to GORM model
func (m *AppointmentModel) FromDomain(a *scheduling.Appointment) {
	m.ID = a.ID
	m.WorkspaceID = a.WorkspaceID
	m.PatientID = a.PatientID
	m.Title = a.Title
	m.AppointmentType = a.AppointmentType
	m.StartTime = a.StartTime
	m.EndTime = a.EndTime
	m.DurationMinutes = a.DurationMinutes
	m.Status = a.Status
	m.Source = a.Source
	m.Notes = a.Notes
	m.CancellationReason = a.CancellationReason
	m.DateTimeCreated = a.DateTimeCreated
}
