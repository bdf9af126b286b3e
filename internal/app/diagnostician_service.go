package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/auradentalai/agentic-dentist-api/internal/domain/agents"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/audit"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/config"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/logger"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/utils"

	"github.com/google/uuid"
)

const diagnosticianSystemPrompt = `You are the Diagnostician agent for a dental practice. You provide clinical intelligence.

Your capabilities:
1. Pre-appointment briefing cards (summary of patient history, pending treatments, alerts)
2. Treatment gap analysis (overdue cleanings, incomplete treatment plans)
3. Risk flagging (medical history concerns, drug interactions, allergy alerts)
4. Chart summarization for providers

You will receive:
- Patient reference ID. NEVER their real name
- Any prior agent outputs (from Concierge routing)
- Clinical context as available

Respond ONLY with a JSON object:
{
    "briefing_card": {
        "patient_ref": "the reference token",
        "summary": "2-3 sentence clinical summary",
        "alerts": ["list of clinical alerts"],
        "pending_treatments": ["list of pending items"],
        "treatment_gaps": ["overdue procedures"],
        "risk_flags": ["medical/drug/allergy concerns"],
        "last_visit": "date or unknown",
        "next_recommended": "what should happen next"
    },
    "confidence": 0.0-1.0,
    "data_quality": "good/partial/insufficient",
    "notes": "any notes for the provider or other agents"
}

CRITICAL RULES:
- NEVER include patient PII (name, DOB, SSN, phone, email) in any output
- Only reference patients by their reference token
- Flag insufficient data clearly. Never fabricate clinical information
- If data is insufficient, say so. Don't guess about medical history
- Use proper dental terminology (CDT codes, ADA classifications)`

// diagnosticianService implements the DiagnosticianService interface
type diagnosticianService struct {
	chatModel     agents.ChatModel
	auditRecorder audit.Recorder
	logger        logger.Logger
}

// NewDiagnosticianService creates a new instance of DiagnosticianService
func NewDiagnosticianService(chatModel agents.ChatModel, auditRecorder audit.Recorder, logger logger.Logger) (agents.DiagnosticianService, error) {
	return &diagnosticianService{
		chatModel:     chatModel,
		auditRecorder: auditRecorder,
		logger:        logger,
	}, nil
}

// Run executes the Diagnostician agent for one interaction.
func (s *diagnosticianService) Run(ctx context.Context, workspaceID, patientRef string, prior *agents.AgentOutputs) (*agents.DiagnosticianResult, error) {
	contextParts := []string{fmt.Sprintf("Workspace: %s", workspaceID)}
	if patientRef != "" {
		contextParts = append(contextParts, fmt.Sprintf("Patient ref: %s", patientRef))
	} else {
		contextParts = append(contextParts, "No specific patient. General analysis requested")
	}

	if prior != nil && prior.Concierge != nil {
		contextParts = append(contextParts, fmt.Sprintf("Concierge intent: %s", prior.Concierge.RefinedIntent))
		if prior.Concierge.Notes != "" {
			contextParts = append(contextParts, fmt.Sprintf("Concierge notes: %s", prior.Concierge.Notes))
		}
	}

	// TODO: feed real chart data once the clinical records table lands.
	contextParts = append(contextParts, "\n[Note: Clinical data integration pending. Generating template briefing]")

	userPrompt := fmt.Sprintf("Generate clinical intelligence:\n\n%s", strings.Join(contextParts, "\n"))

	reply, err := s.chatModel.Complete(ctx, config.LLMTierPrimary, diagnosticianSystemPrompt, userPrompt)
	if err != nil {
		s.logger.Error(fmt.Sprintf("Diagnostician completion failed: %v", err))
		return &agents.DiagnosticianResult{
			DataQuality: "error",
			Notes:       fmt.Sprintf("Diagnostician error: %v", err),
			Err:         true,
		}, nil
	}

	result, parseErr := decodeDiagnosticianReply(reply)
	if parseErr != nil {
		s.logger.Warn(fmt.Sprintf("Diagnostician reply was not valid JSON: %v", parseErr))
		return &agents.DiagnosticianResult{
			DataQuality: "error",
			Notes:       fmt.Sprintf("Diagnostician error: %v", parseErr),
			Err:         true,
		}, nil
	}

	alertsCount, gapsCount := 0, 0
	if result.BriefingCard != nil {
		alertsCount = len(result.BriefingCard.Alerts)
		gapsCount = len(result.BriefingCard.TreatmentGaps)
	}

	event := &audit.Event{
		ID:          uuid.NewString(),
		WorkspaceID: workspaceID,
		ActorType:   audit.ActorAgent,
		ActorID:     agents.AgentDiagnostician,
		Action:      "briefing_generated",
		Metadata: map[string]string{
			"data_quality": result.DataQuality,
			"alerts_count": fmt.Sprintf("%d", alertsCount),
			"gaps_count":   fmt.Sprintf("%d", gapsCount),
		},
		DateTimeCreated: time.Now().UTC(),
	}
	if patientRef != "" {
		event.ResourceType = "patient"
		event.ResourceID = patientRef
	}
	if err := s.auditRecorder.Record(ctx, event); err != nil {
		s.logger.Warn(fmt.Sprintf("Failed to record diagnostician audit event: %v", err))
	}

	return result, nil
}

func decodeDiagnosticianReply(reply string) (*agents.DiagnosticianResult, error) {
	raw, err := utils.ExtractJSONObject(reply)
	if err != nil {
		return nil, err
	}
	var result agents.DiagnosticianResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
