// Package main is the entry point for the agentic-dentist-cli application.
// It initializes the root command, registers agent and scheduling sub-commands,
// then executes the command-line interface.
package main

import (
	"fmt"
	"log"
	"os"

	commands "github.com/auradentalai/agentic-dentist-api/cmd/agentic-dentist-cli/internal/commands"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "agentic-dentist-cli",
		Short: "Dental practice agent swarm CLI tool",
		Long: `agentic-dentist-cli is a command-line tool for operating the dental
practice agent swarm. Supports triggering orchestrated interactions, running
the Concierge agent directly, inspecting the audit trail, and performing
scheduling operations (availability checks, booking, cancellation).

Configuration is read from the same environment variables as the REST API:
- DB_TYPE, DB_DSN, DB_NAME
- OPENAI_API_KEY, LLM_MODEL_PRIMARY, LLM_MODEL_FAST
- PHI_ENCRYPTION_KEY
- DEFAULT_WORKSPACE_ID`,
	}

	// Initialize all command groups BEFORE executing
	if err := initializeCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize commands: %w", err)
	}

	// Execute root command ONCE after all commands are registered
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// initializeCommands registers all command groups with the root command.
func initializeCommands(rootCmd *cobra.Command) error {
	// Register agent commands
	if err := commands.InitAgentCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize agent commands: %w", err)
	}

	// Register scheduling commands
	if err := commands.InitSchedulingCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize scheduling commands: %w", err)
	}

	return nil
}

// init sets up any necessary initialization before main runs.
func init() {
	// Set log flags for better error messages
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	// Ensure proper exit codes on errors
	log.SetOutput(os.Stderr)
}
