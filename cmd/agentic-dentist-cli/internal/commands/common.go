package commands

import (
	"encoding/json"
	"fmt"

	"github.com/auradentalai/agentic-dentist-api/internal/app"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/agents"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/audit"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/scheduling"
	"github.com/auradentalai/agentic-dentist-api/internal/infrastructure/cryptography"
	"github.com/auradentalai/agentic-dentist-api/internal/infrastructure/llm"
	"github.com/auradentalai/agentic-dentist-api/internal/infrastructure/persistence"
	"github.com/auradentalai/agentic-dentist-api/internal/infrastructure/persistence/models"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/config"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/logger"
)

func setupLogger() (logger.Logger, error) {
	settings := &config.LoggerSettings{
		LogLevel: "info",
		LogType:  "console",
		FilePath: "",
	}

	if err := logger.InitLogger(settings); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	loggerInstance, err := logger.GetLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to get logger instance: %w", err)
	}

	return loggerInstance, nil
}

// cliServices bundles the services CLI commands operate on. Commands talk
// to the same database and model provider as the REST process, resolved
// from the same environment variables.
type cliServices struct {
	availability scheduling.AvailabilityService
	booking      scheduling.BookingService
	orchestrator agents.OrchestratorService
	concierge    agents.ConciergeService
	auditTrail   audit.Recorder
	logger       logger.Logger
}

func setupServices() (*cliServices, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	cfg, err := config.InitializeRestConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}

	if err := db.AutoMigrate(
		&models.AppointmentModel{},
		&models.PatientModel{},
		&models.AuditEventModel{},
		&models.MembershipModel{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	appointmentRepo, err := persistence.NewGormAppointmentRepository(db, loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to create appointment repository: %w", err)
	}

	phiCipher, err := cryptography.NewPHICipher(cfg.Auth.PHIEncryptionKey, loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to create PHI cipher: %w", err)
	}

	patientRepo, err := persistence.NewGormPatientRepository(db, phiCipher, loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to create patient repository: %w", err)
	}

	auditRepo, err := persistence.NewGormAuditRepository(db, loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to create audit repository: %w", err)
	}

	chatModel, err := llm.NewOpenAIChatModel(&cfg.LLM, loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model client: %w", err)
	}

	availabilityService, err := app.NewAvailabilityService(appointmentRepo, loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to create availability service: %w", err)
	}

	bookingService, err := app.NewBookingService(appointmentRepo, patientRepo, availabilityService, auditRepo, loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking service: %w", err)
	}

	conciergeService, err := app.NewConciergeService(chatModel, bookingService, availabilityService, auditRepo, loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to create concierge service: %w", err)
	}

	diagnosticianService, err := app.NewDiagnosticianService(chatModel, auditRepo, loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to create diagnostician service: %w", err)
	}

	liaisonService, err := app.NewLiaisonService(chatModel, auditRepo, loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to create liaison service: %w", err)
	}

	auditorService, err := app.NewAuditorService(chatModel, auditRepo, loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to create auditor service: %w", err)
	}

	orchestratorService, err := app.NewOrchestratorService(conciergeService, diagnosticianService, liaisonService, auditorService, auditRepo, loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to create orchestrator service: %w", err)
	}

	return &cliServices{
		availability: availabilityService,
		booking:      bookingService,
		orchestrator: orchestratorService,
		concierge:    conciergeService,
		auditTrail:   auditRepo,
		logger:       loggerInstance,
	}, nil
}

// printJSON writes a result to stdout as indented JSON.
func printJSON(value interface{}) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}
