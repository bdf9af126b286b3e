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

const liaisonSystemPrompt = `You are the Liaison agent for a dental practice. You handle all outbound communications.

Your capabilities:
1. Appointment reminders (24h, 48h, 1-week)
2. Recall campaigns (6-month cleaning, overdue treatment)
3. Post-op follow-up messages
4. Balance/billing notifications
5. General practice communications

You will receive:
- Patient reference token only, never a real name
- Communication type/context
- Prior agent outputs (from Concierge/Diagnostician)
- Preferred language for the patient

Respond ONLY with a JSON object:
{
    "messages": [
        {
            "channel": "sms|email|phone",
            "recipient_ref": "patient reference token",
            "template_type": "reminder|recall|post_op|balance|general",
            "subject": "email subject if email",
            "body": "message content",
            "language": "en|es|fr|etc",
            "urgency": "low|medium|high",
            "send_at": "now|scheduled datetime",
            "requires_approval": true/false
        }
    ],
    "campaign_id": "if part of a campaign",
    "notes": "any context"
}

CRITICAL RULES:
- NEVER include patient PII in message templates. Use placeholders like {patient_name}
- The actual PII substitution happens at send-time by the secure delivery layer
- Always include opt-out language for SMS
- Post-op messages must include emergency contact info
- Balance messages must include dispute instructions
- Multi-language: draft in patient's preferred language`

// liaisonService implements the LiaisonService interface
type liaisonService struct {
	chatModel     agents.ChatModel
	auditRecorder audit.Recorder
	logger        logger.Logger
}

// NewLiaisonService creates a new instance of LiaisonService
func NewLiaisonService(chatModel agents.ChatModel, auditRecorder audit.Recorder, logger logger.Logger) (agents.LiaisonService, error) {
	return &liaisonService{
		chatModel:     chatModel,
		auditRecorder: auditRecorder,
		logger:        logger,
	}, nil
}

// Run executes the Liaison agent for one interaction.
func (s *liaisonService) Run(ctx context.Context, workspaceID, patientRef string, prior *agents.AgentOutputs) (*agents.LiaisonResult, error) {
	contextParts := []string{fmt.Sprintf("Workspace: %s", workspaceID)}
	if patientRef != "" {
		contextParts = append(contextParts, fmt.Sprintf("Patient ref: %s", patientRef))
	}

	if prior != nil {
		if prior.Concierge != nil {
			intent := prior.Concierge.RefinedIntent
			if intent == "" {
				intent = agents.IntentGeneralInquiry
			}
			contextParts = append(contextParts, fmt.Sprintf("Intent: %s", intent))
			if prior.Concierge.Response != "" {
				contextParts = append(contextParts, fmt.Sprintf("Concierge response to patient: %s", prior.Concierge.Response))
			}
		}
		if prior.Diagnostician != nil && prior.Diagnostician.BriefingCard != nil {
			card := prior.Diagnostician.BriefingCard
			if len(card.TreatmentGaps) > 0 {
				contextParts = append(contextParts, fmt.Sprintf("Treatment gaps found: %s", strings.Join(card.TreatmentGaps, "; ")))
			}
			if card.NextRecommended != "" {
				contextParts = append(contextParts, fmt.Sprintf("Recommended next step: %s", card.NextRecommended))
			}
		}
		if prior.Auditor != nil && prior.Auditor.BalanceInfo != "" {
			contextParts = append(contextParts, fmt.Sprintf("Balance info: %s", prior.Auditor.BalanceInfo))
		}
	}

	userPrompt := fmt.Sprintf("Draft communications based on this context:\n\n%s", strings.Join(contextParts, "\n"))

	reply, err := s.chatModel.Complete(ctx, config.LLMTierFast, liaisonSystemPrompt, userPrompt)
	if err != nil {
		s.logger.Error(fmt.Sprintf("Liaison completion failed: %v", err))
		return &agents.LiaisonResult{
			Notes: fmt.Sprintf("Liaison error: %v", err),
			Err:   true,
		}, nil
	}

	result, parseErr := decodeLiaisonReply(reply)
	if parseErr != nil {
		s.logger.Warn(fmt.Sprintf("Liaison reply was not valid JSON: %v", parseErr))
		return &agents.LiaisonResult{
			Notes: fmt.Sprintf("Liaison error: %v", parseErr),
			Err:   true,
		}, nil
	}

	channels := map[string]bool{}
	for _, m := range result.Messages {
		channels[m.Channel] = true
	}
	channelList := make([]string, 0, len(channels))
	for c := range channels {
		channelList = append(channelList, c)
	}

	event := &audit.Event{
		ID:          uuid.NewString(),
		WorkspaceID: workspaceID,
		ActorType:   audit.ActorAgent,
		ActorID:     agents.AgentLiaison,
		Action:      "communications_drafted",
		Metadata: map[string]string{
			"message_count": fmt.Sprintf("%d", len(result.Messages)),
			"channels":      strings.Join(channelList, ","),
		},
		DateTimeCreated: time.Now().UTC(),
	}
	if patientRef != "" {
		event.ResourceType = "patient"
		event.ResourceID = patientRef
	}
	if err := s.auditRecorder.Record(ctx, event); err != nil {
		s.logger.Warn(fmt.Sprintf("Failed to record liaison audit event: %v", err))
	}

	return result, nil
}

func decodeLiaisonReply(reply string) (*agents.LiaisonResult, error) {
	raw, err := utils.ExtractJSONObject(reply)
	if err != nil {
		return nil, err
	}
	var result agents.LiaisonResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
