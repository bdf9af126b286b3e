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

const auditorSystemPrompt = `You are the Auditor agent for a dental practice. You ensure compliance and billing accuracy.

Your capabilities:
1. HIPAA compliance checks (PHI access patterns, consent verification)
2. CDT code verification (correct procedure codes, common miscoding patterns)
3. Pre-claim auditing (check claims before submission for errors)
4. Denial pattern analysis (identify trends in rejected claims)
5. Agent behavior monitoring (ensure other agents follow PHI rules)
6. Audit trail review (flag anomalies in system logs)

You will receive:
- Workspace context
- Prior agent outputs to review for compliance
- Specific audit requests

Respond ONLY with a JSON object:
{
    "audit_result": {
        "status": "pass|warning|fail",
        "checks_performed": ["list of checks"],
        "findings": [
            {
                "severity": "info|warning|critical",
                "category": "hipaa|billing|coding|behavior",
                "description": "what was found",
                "recommendation": "what to do about it"
            }
        ],
        "compliance_score": 0-100,
        "phi_exposure_detected": false,
        "billing_issues": []
    },
    "balance_info": null,
    "notes": "summary"
}

CRITICAL RULES:
- You are the last line of defense. Be thorough
- Flag ANY instance of PII appearing in agent outputs
- CDT code verification: check bundling rules, modifier requirements
- Zero tolerance for HIPAA violations
- Document everything. Your output is part of the audit trail`

// maxAuditedOutputBytes caps how much of each agent output the Auditor sees.
const maxAuditedOutputBytes = 2000

// auditorService implements the AuditorService interface
type auditorService struct {
	chatModel     agents.ChatModel
	auditRecorder audit.Recorder
	logger        logger.Logger
}

// NewAuditorService creates a new instance of AuditorService
func NewAuditorService(chatModel agents.ChatModel, auditRecorder audit.Recorder, logger logger.Logger) (agents.AuditorService, error) {
	return &auditorService{
		chatModel:     chatModel,
		auditRecorder: auditRecorder,
		logger:        logger,
	}, nil
}

// Run executes the Auditor agent over the prior agent outputs.
func (s *auditorService) Run(ctx context.Context, workspaceID, patientRef string, prior *agents.AgentOutputs) (*agents.AuditorResult, error) {
	contextParts := []string{fmt.Sprintf("Workspace: %s", workspaceID)}
	if patientRef != "" {
		contextParts = append(contextParts, fmt.Sprintf("Patient ref: %s", patientRef))
	}

	if prior != nil {
		sections := auditedOutputs(prior)
		if len(sections) > 0 {
			contextParts = append(contextParts, "\n--- Agent Outputs to Audit ---")
			contextParts = append(contextParts, sections...)
		}
	}

	userPrompt := fmt.Sprintf("Perform compliance audit:\n\n%s", strings.Join(contextParts, "\n"))

	reply, err := s.chatModel.Complete(ctx, config.LLMTierPrimary, auditorSystemPrompt, userPrompt)
	if err != nil {
		s.logger.Error(fmt.Sprintf("Auditor completion failed: %v", err))
		return auditorErrorResult(err), nil
	}

	result, parseErr := decodeAuditorReply(reply)
	if parseErr != nil {
		s.logger.Warn(fmt.Sprintf("Auditor reply was not valid JSON: %v", parseErr))
		return auditorErrorResult(parseErr), nil
	}

	report := result.AuditReport
	metadata := map[string]string{}
	if report != nil {
		metadata["status"] = report.Status
		metadata["compliance_score"] = fmt.Sprintf("%d", report.ComplianceScore)
		metadata["findings_count"] = fmt.Sprintf("%d", len(report.Findings))
		metadata["phi_exposure"] = fmt.Sprintf("%t", report.PHIExposureDetected)
	}

	event := &audit.Event{
		ID:              uuid.NewString(),
		WorkspaceID:     workspaceID,
		ActorType:       audit.ActorAgent,
		ActorID:         agents.AgentAuditor,
		Action:          "compliance_audit",
		ResourceType:    "interaction",
		Metadata:        metadata,
		DateTimeCreated: time.Now().UTC(),
	}
	if patientRef != "" {
		event.ResourceID = patientRef
	}
	if err := s.auditRecorder.Record(ctx, event); err != nil {
		s.logger.Warn(fmt.Sprintf("Failed to record auditor audit event: %v", err))
	}

	return result, nil
}

// auditedOutputs serializes each prior agent output for model review,
// truncated so one oversized output cannot crowd out the rest.
func auditedOutputs(prior *agents.AgentOutputs) []string {
	var sections []string
	appendSection := func(name string, v interface{}) {
		raw, err := json.Marshal(v)
		if err != nil {
			return
		}
		sections = append(sections, fmt.Sprintf("\n[%s]:\n%s", name, truncate(string(raw), maxAuditedOutputBytes)))
	}

	if prior.Concierge != nil {
		appendSection(agents.AgentConcierge, prior.Concierge)
	}
	if prior.Diagnostician != nil {
		appendSection(agents.AgentDiagnostician, prior.Diagnostician)
	}
	if prior.Liaison != nil {
		appendSection(agents.AgentLiaison, prior.Liaison)
	}
	return sections
}

func auditorErrorResult(cause error) *agents.AuditorResult {
	return &agents.AuditorResult{
		AuditReport: &agents.AuditReport{
			Status: "error",
			Findings: []agents.AuditFinding{
				{
					Severity:       "warning",
					Category:       "behavior",
					Description:    fmt.Sprintf("Auditor failed to run: %v", cause),
					Recommendation: "Manual review required",
				},
			},
		},
		Notes: fmt.Sprintf("Auditor error: %v", cause),
		Err:   true,
	}
}

func decodeAuditorReply(reply string) (*agents.AuditorResult, error) {
	raw, err := utils.ExtractJSONObject(reply)
	if err != nil {
		return nil, err
	}
	var result agents.AuditorResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
