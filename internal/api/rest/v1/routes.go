package v1

import (
	"github.com/auradentalai/agentic-dentist-api/internal/domain/agents"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/audit"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/scheduling"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/workspace"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/config"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes sets up all the API routes for version 1.
func SetupRoutes(r *gin.Engine,
	cfg *config.RestConfig,
	db *gorm.DB,
	orchestratorService agents.OrchestratorService,
	conciergeService agents.ConciergeService,
	diagnosticianService agents.DiagnosticianService,
	liaisonService agents.LiaisonService,
	auditorService agents.AuditorService,
	bookingService scheduling.BookingService,
	availabilityService scheduling.AvailabilityService,
	auditRecorder audit.Recorder,
	membershipRepo workspace.MembershipRepository,
	log logger.Logger) {

	// Service descriptor and health check stay unauthenticated so load
	// balancers and uptime monitors can reach them.
	healthHandler := NewHealthHandler(db, cfg, log)
	r.GET("/", healthHandler.Root)
	r.GET("/health", healthHandler.Health)

	v1 := r.Group(BasePath) // lookup in version file

	// Agent Routes
	agentHandler := NewAgentHandler(orchestratorService, conciergeService, diagnosticianService,
		liaisonService, auditorService, membershipRepo, &cfg.LLM, log)
	agentRoutes := v1.Group("/agents")
	agentRoutes.Use(AuthMiddleware(&cfg.Auth, log))
	agentRoutes.POST("/trigger", agentHandler.Trigger)
	agentRoutes.POST("/run", agentHandler.RunAgent)
	agentRoutes.GET("/status", agentHandler.Status)

	// Voice Routes. The voice platform cannot attach bearer tokens, so the
	// webhook authenticates by workspace metadata instead of JWT.
	voiceHandler := NewVoiceHandler(orchestratorService, bookingService, availabilityService,
		auditRecorder, cfg, log)
	v1.POST("/vapi/webhook", voiceHandler.Webhook)
}
