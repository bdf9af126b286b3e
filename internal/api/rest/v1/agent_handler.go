package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/auradentalai/agentic-dentist-api/internal/domain/agents"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/workspace"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/config"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AgentHandler defines the interface for handling agent-related operations
type AgentHandler interface {
	Trigger(ctx *gin.Context)
	RunAgent(ctx *gin.Context)
	Status(ctx *gin.Context)
}

// agentHandler struct holds the services
type agentHandler struct {
	orchestrator  agents.OrchestratorService
	concierge     agents.ConciergeService
	diagnostician agents.DiagnosticianService
	liaison       agents.LiaisonService
	auditor       agents.AuditorService
	guard         membershipGuard
	llmSettings   *config.LLMSettings
	logger        logger.Logger
}

// NewAgentHandler creates a new AgentHandler
func NewAgentHandler(
	orchestrator agents.OrchestratorService,
	concierge agents.ConciergeService,
	diagnostician agents.DiagnosticianService,
	liaison agents.LiaisonService,
	auditor agents.AuditorService,
	memberships workspace.MembershipRepository,
	llmSettings *config.LLMSettings,
	logger logger.Logger,
) AgentHandler {
	return &agentHandler{
		orchestrator:  orchestrator,
		concierge:     concierge,
		diagnostician: diagnostician,
		liaison:       liaison,
		auditor:       auditor,
		guard:         membershipGuard{memberships: memberships, logger: logger},
		llmSettings:   llmSettings,
		logger:        logger,
	}
}

// Trigger handles the POST request to run an event through the orchestrator
// @Summary Trigger the orchestrator with an event
// @Description Send a trigger event through the orchestrator, which classifies intent and routes it through the agent swarm.
// @Tags Agent
// @Accept json
// @Produce json
// @Param requestBody body agents.TriggerEvent true "Trigger Event"
// @Success 200 {object} agents.InteractionResult
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /agents/trigger [post]
func (handler *agentHandler) Trigger(ctx *gin.Context) {
	var event agents.TriggerEvent

	if err := ctx.ShouldBindJSON(&event); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("invalid trigger event: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}

	if err := event.Validate(); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("validation failed: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}

	if !handler.guard.verify(ctx, event.WorkspaceID) {
		return
	}

	result, err := handler.orchestrator.RunInteraction(ctx.Request.Context(), &event)
	if err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("error running interaction: %v", err.Error())
		ctx.JSON(http.StatusInternalServerError, errorResponse)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// RunAgent handles the POST request to run one agent directly
// @Summary Run a specific agent directly
// @Description Manually run a specific agent, bypassing orchestrator routing. Useful for testing and specific workflows.
// @Tags Agent
// @Accept json
// @Produce json
// @Param requestBody body AgentRunRequest true "Agent Run Request"
// @Success 200 {object} AgentRunResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /agents/run [post]
func (handler *agentHandler) RunAgent(ctx *gin.Context) {
	var request AgentRunRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("invalid agent run request: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}

	if err := request.Validate(); err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("validation failed: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}

	if !handler.guard.verify(ctx, request.WorkspaceID) {
		return
	}

	runID := uuid.NewString()
	started := time.Now()
	requestCtx := ctx.Request.Context()

	var output interface{}
	var failed, escalated bool

	switch request.Agent {
	case agents.AgentConcierge:
		result, err := handler.concierge.Run(requestCtx, request.WorkspaceID, request.PatientRef, request.Intent, &request.Payload)
		if err != nil {
			output = ErrorResponse{Message: err.Error()}
			failed = true
		} else {
			output = result
			failed = result.Err
			escalated = result.Escalate
		}
	case agents.AgentDiagnostician:
		result, err := handler.diagnostician.Run(requestCtx, request.WorkspaceID, request.PatientRef, &agents.AgentOutputs{})
		if err != nil {
			output = ErrorResponse{Message: err.Error()}
			failed = true
		} else {
			output = result
			failed = result.Err
		}
	case agents.AgentLiaison:
		result, err := handler.liaison.Run(requestCtx, request.WorkspaceID, request.PatientRef, &agents.AgentOutputs{})
		if err != nil {
			output = ErrorResponse{Message: err.Error()}
			failed = true
		} else {
			output = result
			failed = result.Err
		}
	case agents.AgentAuditor:
		result, err := handler.auditor.Run(requestCtx, request.WorkspaceID, request.PatientRef, &agents.AgentOutputs{})
		if err != nil {
			output = ErrorResponse{Message: err.Error()}
			failed = true
		} else {
			output = result
			failed = result.Err
		}
	}

	status := agents.RunStatusCompleted
	if escalated {
		status = agents.RunStatusEscalated
	}
	if failed {
		status = agents.RunStatusError
	}

	ctx.JSON(http.StatusOK, AgentRunResponse{
		RunID:      runID,
		Agent:      request.Agent,
		Status:     status,
		Output:     output,
		Steps:      1,
		DurationMs: time.Since(started).Milliseconds(),
	})
}

// Status handles the GET request for agent swarm readiness
// @Summary Get agent swarm status
// @Description Returns the current status of all agents and the orchestrator.
// @Tags Agent
// @Produce json
// @Success 200 {object} AgentStatusResponse
// @Router /agents/status [get]
func (handler *agentHandler) Status(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, AgentStatusResponse{
		Agents: []AgentDescriptor{
			{
				Name:     agents.AgentConcierge,
				Status:   "ready",
				Model:    handler.llmSettings.FastModel,
				Channels: []string{"phone", "sms", "web_chat"},
			},
			{
				Name:     agents.AgentDiagnostician,
				Status:   "ready",
				Model:    handler.llmSettings.PrimaryModel,
				Channels: []string{"internal"},
			},
			{
				Name:     agents.AgentLiaison,
				Status:   "ready",
				Model:    handler.llmSettings.FastModel,
				Channels: []string{"sms", "email", "phone"},
			},
			{
				Name:     agents.AgentAuditor,
				Status:   "ready",
				Model:    handler.llmSettings.PrimaryModel,
				Channels: []string{"event_stream"},
			},
		},
		Orchestrator: OrchestratorDescriptor{
			Status:   "ready",
			Engine:   "state-machine",
			Patterns: []string{"sequential", "conditional"},
		},
	})
}
