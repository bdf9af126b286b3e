package commands

import (
	"fmt"

	"github.com/auradentalai/agentic-dentist-api/internal/domain/agents"

	"github.com/spf13/cobra"
)

// AgentCommandHandler encapsulates logic for running agents via CLI.
type AgentCommandHandler struct {
	services *cliServices
}

// NewAgentCommandHandler initializes and returns an AgentCommandHandler instance
// with configured services.
func NewAgentCommandHandler() (*AgentCommandHandler, error) {
	services, err := setupServices()
	if err != nil {
		return nil, fmt.Errorf("failed to setup services: %w", err)
	}

	return &AgentCommandHandler{services: services}, nil
}

// TriggerCmd sends a trigger event through the orchestrator
func (commandHandler *AgentCommandHandler) TriggerCmd(cmd *cobra.Command, _ []string) {
	workspaceID, err := cmd.Flags().GetString("workspace-id")
	if err != nil {
		commandHandler.services.logger.Error("invalid workspace-id flag ", err)
		return
	}
	eventType, err := cmd.Flags().GetString("event-type")
	if err != nil {
		commandHandler.services.logger.Error("invalid event-type flag ", err)
		return
	}
	text, err := cmd.Flags().GetString("text")
	if err != nil {
		commandHandler.services.logger.Error("invalid text flag ", err)
		return
	}
	channel, err := cmd.Flags().GetString("channel")
	if err != nil {
		commandHandler.services.logger.Error("invalid channel flag ", err)
		return
	}
	intent, err := cmd.Flags().GetString("intent")
	if err != nil {
		commandHandler.services.logger.Error("invalid intent flag ", err)
		return
	}
	patientRef, err := cmd.Flags().GetString("patient-ref")
	if err != nil {
		commandHandler.services.logger.Error("invalid patient-ref flag ", err)
		return
	}

	event := &agents.TriggerEvent{
		EventType:   eventType,
		WorkspaceID: workspaceID,
		PatientRef:  patientRef,
		Payload: agents.EventPayload{
			Text:    text,
			Channel: channel,
			Intent:  intent,
		},
	}

	if err := event.Validate(); err != nil {
		commandHandler.services.logger.Error(err)
		return
	}

	result, err := commandHandler.services.orchestrator.RunInteraction(cmd.Context(), event)
	if err != nil {
		commandHandler.services.logger.Error(err)
		return
	}

	if err := printJSON(result); err != nil {
		commandHandler.services.logger.Error(err)
	}
}

// RunConciergeCmd runs the Concierge agent directly, bypassing routing
func (commandHandler *AgentCommandHandler) RunConciergeCmd(cmd *cobra.Command, _ []string) {
	workspaceID, err := cmd.Flags().GetString("workspace-id")
	if err != nil {
		commandHandler.services.logger.Error("invalid workspace-id flag ", err)
		return
	}
	patientRef, err := cmd.Flags().GetString("patient-ref")
	if err != nil {
		commandHandler.services.logger.Error("invalid patient-ref flag ", err)
		return
	}
	intent, err := cmd.Flags().GetString("intent")
	if err != nil {
		commandHandler.services.logger.Error("invalid intent flag ", err)
		return
	}
	text, err := cmd.Flags().GetString("text")
	if err != nil {
		commandHandler.services.logger.Error("invalid text flag ", err)
		return
	}
	channel, err := cmd.Flags().GetString("channel")
	if err != nil {
		commandHandler.services.logger.Error("invalid channel flag ", err)
		return
	}

	payload := &agents.EventPayload{Text: text, Channel: channel}

	result, err := commandHandler.services.concierge.Run(cmd.Context(), workspaceID, patientRef, intent, payload)
	if err != nil {
		commandHandler.services.logger.Error(err)
		return
	}

	if err := printJSON(result); err != nil {
		commandHandler.services.logger.Error(err)
	}
}

// ListAuditEventsCmd lists the most recent audit events in a workspace
func (commandHandler *AgentCommandHandler) ListAuditEventsCmd(cmd *cobra.Command, _ []string) {
	workspaceID, err := cmd.Flags().GetString("workspace-id")
	if err != nil {
		commandHandler.services.logger.Error("invalid workspace-id flag ", err)
		return
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		commandHandler.services.logger.Error("invalid limit flag ", err)
		return
	}

	events, err := commandHandler.services.auditTrail.ListByWorkspace(cmd.Context(), workspaceID, limit)
	if err != nil {
		commandHandler.services.logger.Error(err)
		return
	}

	if err := printJSON(events); err != nil {
		commandHandler.services.logger.Error(err)
	}
}

// InitAgentCommands registers agent commands with the root command.
func InitAgentCommands(rootCmd *cobra.Command) error {
	handler, err := NewAgentCommandHandler()

	if err != nil {
		return fmt.Errorf("failed to create agent command handler %w", err)
	}

	var triggerCmd = &cobra.Command{
		Use:   "trigger",
		Short: "Send a trigger event through the orchestrator",
		Run:   handler.TriggerCmd,
	}
	triggerCmd.Flags().StringP("workspace-id", "", "", "Workspace the event belongs to")
	triggerCmd.Flags().StringP("event-type", "", "manual_trigger", "Event type (inbound_call, inbound_sms, web_chat, manual_trigger, scheduled_job, system_event)")
	triggerCmd.Flags().StringP("text", "", "", "Inbound message text")
	triggerCmd.Flags().StringP("channel", "", "web_chat", "Inbound channel (phone, sms, web_chat)")
	triggerCmd.Flags().StringP("intent", "", "", "Pre-classified intent, if known")
	triggerCmd.Flags().StringP("patient-ref", "", "", "Patient reference token")
	rootCmd.AddCommand(triggerCmd)

	var runConciergeCmd = &cobra.Command{
		Use:   "run-concierge",
		Short: "Run the Concierge agent directly",
		Run:   handler.RunConciergeCmd,
	}
	runConciergeCmd.Flags().StringP("workspace-id", "", "", "Workspace to run in")
	runConciergeCmd.Flags().StringP("patient-ref", "", "", "Patient reference token")
	runConciergeCmd.Flags().StringP("intent", "", "", "Intent to refine")
	runConciergeCmd.Flags().StringP("text", "", "", "Inbound message text")
	runConciergeCmd.Flags().StringP("channel", "", "web_chat", "Inbound channel (phone, sms, web_chat)")
	rootCmd.AddCommand(runConciergeCmd)

	var listAuditEventsCmd = &cobra.Command{
		Use:   "list-audit-events",
		Short: "List the most recent audit events in a workspace",
		Run:   handler.ListAuditEventsCmd,
	}
	listAuditEventsCmd.Flags().StringP("workspace-id", "", "", "Workspace to list events for")
	listAuditEventsCmd.Flags().IntP("limit", "", 50, "Maximum number of events")
	rootCmd.AddCommand(listAuditEventsCmd)

	return nil
}
