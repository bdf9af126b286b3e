package agents

import (
	"context"
)

// ChatModel is the provider-agnostic contract for LLM completion.
// All agent code calls this interface rather than a provider SDK,
// so swapping providers is a config change, not a rewrite.
type ChatModel interface {
	// Complete sends a system and user message pair to the model of the
	// given tier ("primary" or "fast") and returns the raw text reply.
	Complete(ctx context.Context, tier, systemPrompt, userPrompt string) (string, error)
}

// ConciergeService runs the first-contact agent: patient identification,
// intent refinement and real scheduling actions.
type ConciergeService interface {
	Run(ctx context.Context, workspaceID, patientRef, intent string, payload *EventPayload) (*ConciergeResult, error)
}

// DiagnosticianService runs the clinical intelligence agent.
type DiagnosticianService interface {
	Run(ctx context.Context, workspaceID, patientRef string, prior *AgentOutputs) (*DiagnosticianResult, error)
}

// LiaisonService runs the outbound communications agent.
type LiaisonService interface {
	Run(ctx context.Context, workspaceID, patientRef string, prior *AgentOutputs) (*LiaisonResult, error)
}

// AuditorService runs the compliance agent.
type AuditorService interface {
	Run(ctx context.Context, workspaceID, patientRef string, prior *AgentOutputs) (*AuditorResult, error)
}

// OrchestratorService coordinates agents through one complete interaction.
type OrchestratorService interface {
	// RunInteraction classifies the event intent, routes it through the
	// agent swarm until no agent remains to run, then finalizes.
	RunInteraction(ctx context.Context, event *TriggerEvent) (*InteractionResult, error)
}
