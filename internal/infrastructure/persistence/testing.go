//go:build integration
// +build integration

package persistence

import (
	"strings"
	"testing"
	"time"

	"github.com/auradentalai/agentic-dentist-api/internal/domain/audit"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/scheduling"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/workspace"
	"github.com/auradentalai/agentic-dentist-api/internal/infrastructure/cryptography"
	"github.com/auradentalai/agentic-dentist-api/internal/infrastructure/persistence/models"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/config"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestContext holds the test database and repositories
type TestContext struct {
	DB              *gorm.DB
	AppointmentRepo scheduling.AppointmentRepository
	PatientRepo     scheduling.PatientRepository
	AuditRepo       audit.Recorder
	MembershipRepo  workspace.MembershipRepository
}

// SetupTestDB initializes a test database with automatic cleanup
func SetupTestDB(t *testing.T, dbType string) *TestContext {
	t.Helper()

	var settings config.DatabaseSettings
	var cleanupFunc func()

	switch dbType {
	case config.SqliteDbType:
		settings = config.DatabaseSettings{
			Type: config.SqliteDbType,
			DSN:  ":memory:",
		}
		cleanupFunc = func() {
			// SQLite in-memory cleanup is automatic
		}

	case config.PostgresDbType:
		uniqueDBName := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
		settings = config.DatabaseSettings{
			Type:   config.PostgresDbType,
			DSN:    "user=postgres password=postgres host=localhost port=5432 sslmode=disable",
			DBName: uniqueDBName,
		}
		cleanupFunc = func() {
			adminDSN := "user=postgres password=postgres host=localhost port=5432 dbname=postgres sslmode=disable"
			_ = DropDatabase(adminDSN, uniqueDBName)
		}

	default:
		t.Fatalf("Unsupported database type: %s", dbType)
	}

	db, err := NewDBConnection(settings)
	require.NoError(t, err, "Failed to create database connection")

	t.Cleanup(func() {
		_ = CloseDB(db)
		cleanupFunc()
	})

	err = db.AutoMigrate(
		&models.AppointmentModel{},
		&models.PatientModel{},
		&models.AuditEventModel{},
		&models.MembershipModel{},
	)
	require.NoError(t, err, "Failed to migrate schema")

	log := testutil.SetupTestLogger(t)

	cipher, err := cryptography.NewPHICipher("test-phi-secret", log)
	require.NoError(t, err, "Failed to create PHI cipher")

	appointmentRepo, err := NewGormAppointmentRepository(db, log)
	require.NoError(t, err, "Failed to create appointment repository")

	patientRepo, err := NewGormPatientRepository(db, cipher, log)
	require.NoError(t, err, "Failed to create patient repository")

	auditRepo, err := NewGormAuditRepository(db, log)
	require.NoError(t, err, "Failed to create audit repository")

	membershipRepo, err := NewGormMembershipRepository(db, log)
	require.NoError(t, err, "Failed to create membership repository")

	return &TestContext{
		DB:              db,
		AppointmentRepo: appointmentRepo,
		PatientRepo:     patientRepo,
		AuditRepo:       auditRepo,
		MembershipRepo:  membershipRepo,
	}
}

// CreateTestPatient creates a test patient with default values
func CreateTestPatient(t *testing.T, workspaceID, fullName string) *scheduling.Patient {
	t.Helper()

	return &scheduling.Patient{
		ID:              uuid.NewString(),
		WorkspaceID:     workspaceID,
		ExternalRef:     "pat_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		FullName:        fullName,
		Phone:           "555-0100",
		Email:           "patient@example.com",
		PreferredLang:   "en",
		DateTimeCreated: time.Now().UTC(),
	}
}

// CreateTestAppointment creates a scheduled test appointment
func CreateTestAppointment(t *testing.T, workspaceID string, patientID *string, start time.Time, appointmentType string) *scheduling.Appointment {
	t.Helper()

	duration := scheduling.DurationFor(appointmentType)

	return &scheduling.Appointment{
		ID:              uuid.NewString(),
		WorkspaceID:     workspaceID,
		PatientID:       patientID,
		Title:           strings.ReplaceAll(appointmentType, "_", " "),
		AppointmentType: appointmentType,
		StartTime:       start,
		EndTime:         start.Add(time.Duration(duration) * time.Minute),
		DurationMinutes: duration,
		Status:          scheduling.StatusScheduled,
		Source:          scheduling.SourceConcierge,
		DateTimeCreated: time.Now().UTC(),
	}
}

// CreateTestMembership creates an active test membership
func CreateTestMembership(t *testing.T, profileID, workspaceID string) *workspace.Membership {
	t.Helper()

	return &workspace.Membership{
		ID:              uuid.NewString(),
		ProfileID:       profileID,
		WorkspaceID:     workspaceID,
		Role:            workspace.RoleStaff,
		Status:          workspace.StatusActive,
		DateTimeCreated: time.Now().UTC(),
	}
}
