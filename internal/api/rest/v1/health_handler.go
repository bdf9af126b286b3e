package v1

import (
	"net/http"

	"github.com/auradentalai/agentic-dentist-api/internal/domain/agents"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/config"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const serviceName = "Agentic Dentist API"
const serviceVersion = "1.0.0"

// HealthHandler exposes service liveness and descriptor endpoints
type HealthHandler interface {
	Health(ctx *gin.Context)
	Root(ctx *gin.Context)
}

type healthHandler struct {
	db     *gorm.DB
	config *config.RestConfig
	logger logger.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *gorm.DB, config *config.RestConfig, logger logger.Logger) HealthHandler {
	return &healthHandler{
		db:     db,
		config: config,
		logger: logger,
	}
}

// Health handles the GET request for the service health check
// @Summary Service health check
// @Description Reports service health, database connectivity and the active LLM configuration.
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (handler *healthHandler) Health(ctx *gin.Context) {
	status := "healthy"
	databaseConnected := true

	sqlDB, err := handler.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx.Request.Context())
	}
	if err != nil {
		handler.logger.Warn("Health check database ping failed:", err)
		status = "degraded"
		databaseConnected = false
	}

	ctx.JSON(http.StatusOK, HealthResponse{
		Status:            status,
		Environment:       handler.config.Server.Environment,
		LLMProvider:       handler.config.LLM.Provider,
		LLMModelPrimary:   handler.config.LLM.PrimaryModel,
		LLMModelFast:      handler.config.LLM.FastModel,
		DatabaseConnected: databaseConnected,
		Agents:            agents.AllAgents,
	})
}

// Root handles the GET request for the service descriptor
// @Summary Service descriptor
// @Description Returns the service name, version and the agents it runs.
// @Tags Health
// @Produce json
// @Success 200 {object} RootResponse
// @Router / [get]
func (handler *healthHandler) Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, RootResponse{
		Name:    serviceName,
		Version: serviceVersion,
		Status:  "running",
		Agents:  agents.AllAgents,
	})
}
