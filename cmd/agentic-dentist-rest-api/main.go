// cmd/agentic-dentist-rest-api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "github.com/auradentalai/agentic-dentist-api/internal/api/rest/v1"
	"github.com/auradentalai/agentic-dentist-api/internal/app"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/agents"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/audit"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/scheduling"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/workspace"
	"github.com/auradentalai/agentic-dentist-api/internal/infrastructure/cryptography"
	"github.com/auradentalai/agentic-dentist-api/internal/infrastructure/llm"
	"github.com/auradentalai/agentic-dentist-api/internal/infrastructure/persistence"
	"github.com/auradentalai/agentic-dentist-api/internal/infrastructure/persistence/models"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/config"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/logger"
	"github.com/gin-contrib/cors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	restConfig, err := config.InitializeRestConfig()
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	// Initialize logger
	if err := logger.InitLogger(&restConfig.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log, err := logger.GetLogger()
	if err != nil {
		return fmt.Errorf("failed to get logger: %w", err)
	}

	// Initialize application dependencies
	deps, err := initializeDependencies(restConfig, log)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	// Setup and start server with graceful shutdown
	return startServerWithGracefulShutdown(restConfig, deps, log)
}

// appDependencies holds all initialized application components
type appDependencies struct {
	db           *gorm.DB
	services     *appServices
	repositories *appRepositories
}

type appRepositories struct {
	appointments scheduling.AppointmentRepository
	patients     scheduling.PatientRepository
	auditTrail   audit.Recorder
	memberships  workspace.MembershipRepository
}

type appServices struct {
	availability  scheduling.AvailabilityService
	booking       scheduling.BookingService
	concierge     agents.ConciergeService
	diagnostician agents.DiagnosticianService
	liaison       agents.LiaisonService
	auditor       agents.AuditorService
	orchestrator  agents.OrchestratorService
}

// initializeDependencies sets up all application components
func initializeDependencies(cfg *config.RestConfig, log logger.Logger) (*appDependencies, error) {
	// Initialize database
	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}

	// Run migrations
	if err := db.AutoMigrate(
		&models.AppointmentModel{},
		&models.PatientModel{},
		&models.AuditEventModel{},
		&models.MembershipModel{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	log.Info("Database migrations completed successfully")

	// Initialize repositories
	repositories, err := initializeRepositories(db, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	// Initialize the chat model client
	chatModel, err := llm.NewOpenAIChatModel(&cfg.LLM, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model client: %w", err)
	}

	// Initialize services
	services, err := initializeApplicationServices(chatModel, repositories, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &appDependencies{
		db:           db,
		services:     services,
		repositories: repositories,
	}, nil
}

// initializeRepositories sets up the persistence layer
func initializeRepositories(db *gorm.DB, cfg *config.RestConfig, log logger.Logger) (*appRepositories, error) {
	appointmentRepo, err := persistence.NewGormAppointmentRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create appointment repository: %w", err)
	}

	phiCipher, err := cryptography.NewPHICipher(cfg.Auth.PHIEncryptionKey, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create PHI cipher: %w", err)
	}

	patientRepo, err := persistence.NewGormPatientRepository(db, phiCipher, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create patient repository: %w", err)
	}

	auditRepo, err := persistence.NewGormAuditRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create audit repository: %w", err)
	}

	membershipRepo, err := persistence.NewGormMembershipRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create membership repository: %w", err)
	}

	log.Info("Repositories initialized successfully")
	return &appRepositories{
		appointments: appointmentRepo,
		patients:     patientRepo,
		auditTrail:   auditRepo,
		memberships:  membershipRepo,
	}, nil
}

// initializeApplicationServices sets up all application services
func initializeApplicationServices(chatModel agents.ChatModel, repos *appRepositories, log logger.Logger) (*appServices, error) {
	availabilityService, err := app.NewAvailabilityService(repos.appointments, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create availability service: %w", err)
	}

	bookingService, err := app.NewBookingService(repos.appointments, repos.patients, availabilityService, repos.auditTrail, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking service: %w", err)
	}

	conciergeService, err := app.NewConciergeService(chatModel, bookingService, availabilityService, repos.auditTrail, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create concierge service: %w", err)
	}

	diagnosticianService, err := app.NewDiagnosticianService(chatModel, repos.auditTrail, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create diagnostician service: %w", err)
	}

	liaisonService, err := app.NewLiaisonService(chatModel, repos.auditTrail, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create liaison service: %w", err)
	}

	auditorService, err := app.NewAuditorService(chatModel, repos.auditTrail, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create auditor service: %w", err)
	}

	orchestratorService, err := app.NewOrchestratorService(conciergeService, diagnosticianService, liaisonService, auditorService, repos.auditTrail, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create orchestrator service: %w", err)
	}

	log.Info("Application services initialized successfully")
	return &appServices{
		availability:  availabilityService,
		booking:       bookingService,
		concierge:     conciergeService,
		diagnostician: diagnosticianService,
		liaison:       liaisonService,
		auditor:       auditorService,
		orchestrator:  orchestratorService,
	}, nil
}

// startServerWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func startServerWithGracefulShutdown(cfg *config.RestConfig, deps *appDependencies, log logger.Logger) error {
	// Setup router
	r := gin.Default()

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup API routes
	v1.SetupRoutes(r,
		cfg,
		deps.db,
		deps.services.orchestrator,
		deps.services.concierge,
		deps.services.diagnostician,
		deps.services.liaison,
		deps.services.auditor,
		deps.services.booking,
		deps.services.availability,
		deps.repositories.auditTrail,
		deps.repositories.memberships,
		log,
	)

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attack
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting server on port ", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or server error
	select {
	case err := <-serverErrors:
		return err
	case sig := <-quit:
		log.Info("Received signal %v, initiating graceful shutdown", sig)
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	log.Info("Shutting down server...")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
