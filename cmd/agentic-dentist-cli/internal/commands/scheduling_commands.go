package commands

import (
	"fmt"
	"time"

	"github.com/auradentalai/agentic-dentist-api/internal/domain/scheduling"

	"github.com/spf13/cobra"
)

// SchedulingCommandHandler encapsulates logic for scheduling operations via CLI.
type SchedulingCommandHandler struct {
	services *cliServices
}

// NewSchedulingCommandHandler initializes and returns a SchedulingCommandHandler
// instance with configured services.
func NewSchedulingCommandHandler() (*SchedulingCommandHandler, error) {
	services, err := setupServices()
	if err != nil {
		return nil, fmt.Errorf("failed to setup services: %w", err)
	}

	return &SchedulingCommandHandler{services: services}, nil
}

// CheckAvailabilityCmd lists open slots for a given date
func (commandHandler *SchedulingCommandHandler) CheckAvailabilityCmd(cmd *cobra.Command, _ []string) {
	workspaceID, err := cmd.Flags().GetString("workspace-id")
	if err != nil {
		commandHandler.services.logger.Error("invalid workspace-id flag ", err)
		return
	}
	dateValue, err := cmd.Flags().GetString("date")
	if err != nil {
		commandHandler.services.logger.Error("invalid date flag ", err)
		return
	}
	duration, err := cmd.Flags().GetInt("duration")
	if err != nil {
		commandHandler.services.logger.Error("invalid duration flag ", err)
		return
	}

	date, err := time.Parse("2006-01-02", dateValue)
	if err != nil {
		commandHandler.services.logger.Error("date must be YYYY-MM-DD ", err)
		return
	}

	slots, err := commandHandler.services.availability.CheckAvailability(cmd.Context(), workspaceID, date, duration)
	if err != nil {
		commandHandler.services.logger.Error(err)
		return
	}

	if err := printJSON(slots); err != nil {
		commandHandler.services.logger.Error(err)
	}
}

// FindNextAvailableCmd scans upcoming days for open slots
func (commandHandler *SchedulingCommandHandler) FindNextAvailableCmd(cmd *cobra.Command, _ []string) {
	workspaceID, err := cmd.Flags().GetString("workspace-id")
	if err != nil {
		commandHandler.services.logger.Error("invalid workspace-id flag ", err)
		return
	}
	duration, err := cmd.Flags().GetInt("duration")
	if err != nil {
		commandHandler.services.logger.Error("invalid duration flag ", err)
		return
	}
	daysAhead, err := cmd.Flags().GetInt("days-ahead")
	if err != nil {
		commandHandler.services.logger.Error("invalid days-ahead flag ", err)
		return
	}
	maxResults, err := cmd.Flags().GetInt("max-results")
	if err != nil {
		commandHandler.services.logger.Error("invalid max-results flag ", err)
		return
	}

	days, err := commandHandler.services.availability.FindNextAvailable(cmd.Context(), workspaceID, duration, daysAhead, maxResults)
	if err != nil {
		commandHandler.services.logger.Error(err)
		return
	}

	if err := printJSON(days); err != nil {
		commandHandler.services.logger.Error(err)
	}
}

// BookAppointmentCmd books an appointment at a specific date and time
func (commandHandler *SchedulingCommandHandler) BookAppointmentCmd(cmd *cobra.Command, _ []string) {
	workspaceID, err := cmd.Flags().GetString("workspace-id")
	if err != nil {
		commandHandler.services.logger.Error("invalid workspace-id flag ", err)
		return
	}
	dateValue, err := cmd.Flags().GetString("date")
	if err != nil {
		commandHandler.services.logger.Error("invalid date flag ", err)
		return
	}
	timeValue, err := cmd.Flags().GetString("time")
	if err != nil {
		commandHandler.services.logger.Error("invalid time flag ", err)
		return
	}
	appointmentType, err := cmd.Flags().GetString("type")
	if err != nil {
		commandHandler.services.logger.Error("invalid type flag ", err)
		return
	}
	patientRef, err := cmd.Flags().GetString("patient-ref")
	if err != nil {
		commandHandler.services.logger.Error("invalid patient-ref flag ", err)
		return
	}

	start, err := time.Parse("2006-01-02 15:04", dateValue+" "+timeValue)
	if err != nil {
		commandHandler.services.logger.Error("date/time must be YYYY-MM-DD and HH:MM ", err)
		return
	}

	request := &scheduling.BookingRequest{
		WorkspaceID:     workspaceID,
		Start:           start.UTC(),
		AppointmentType: appointmentType,
		Source:          scheduling.SourceFrontDesk,
	}
	if patientRef != "" {
		request.PatientID = &patientRef
	}

	result, err := commandHandler.services.booking.Book(cmd.Context(), request)
	if err != nil {
		commandHandler.services.logger.Error(err)
		return
	}

	if err := printJSON(result); err != nil {
		commandHandler.services.logger.Error(err)
	}
}

// CancelAppointmentCmd cancels an appointment by ID or the patient's next one
func (commandHandler *SchedulingCommandHandler) CancelAppointmentCmd(cmd *cobra.Command, _ []string) {
	workspaceID, err := cmd.Flags().GetString("workspace-id")
	if err != nil {
		commandHandler.services.logger.Error("invalid workspace-id flag ", err)
		return
	}
	appointmentID, err := cmd.Flags().GetString("appointment-id")
	if err != nil {
		commandHandler.services.logger.Error("invalid appointment-id flag ", err)
		return
	}
	patientRef, err := cmd.Flags().GetString("patient-ref")
	if err != nil {
		commandHandler.services.logger.Error("invalid patient-ref flag ", err)
		return
	}
	reason, err := cmd.Flags().GetString("reason")
	if err != nil {
		commandHandler.services.logger.Error("invalid reason flag ", err)
		return
	}

	result, err := commandHandler.services.booking.Cancel(cmd.Context(), workspaceID, appointmentID, patientRef, reason)
	if err != nil {
		commandHandler.services.logger.Error(err)
		return
	}

	if err := printJSON(result); err != nil {
		commandHandler.services.logger.Error(err)
	}
}

// InitSchedulingCommands registers scheduling commands with the root command.
func InitSchedulingCommands(rootCmd *cobra.Command) error {
	handler, err := NewSchedulingCommandHandler()

	if err != nil {
		return fmt.Errorf("failed to create scheduling command handler %w", err)
	}

	var checkAvailabilityCmd = &cobra.Command{
		Use:   "check-availability",
		Short: "List open slots for a date",
		Run:   handler.CheckAvailabilityCmd,
	}
	checkAvailabilityCmd.Flags().StringP("workspace-id", "", "", "Workspace to check in")
	checkAvailabilityCmd.Flags().StringP("date", "", "", "Date to check (YYYY-MM-DD)")
	checkAvailabilityCmd.Flags().IntP("duration", "", 30, "Appointment duration in minutes")
	rootCmd.AddCommand(checkAvailabilityCmd)

	var findNextAvailableCmd = &cobra.Command{
		Use:   "find-next-available",
		Short: "Find the next days with open slots",
		Run:   handler.FindNextAvailableCmd,
	}
	findNextAvailableCmd.Flags().StringP("workspace-id", "", "", "Workspace to check in")
	findNextAvailableCmd.Flags().IntP("duration", "", 30, "Appointment duration in minutes")
	findNextAvailableCmd.Flags().IntP("days-ahead", "", 14, "How many days to scan")
	findNextAvailableCmd.Flags().IntP("max-results", "", 3, "Maximum days to return")
	rootCmd.AddCommand(findNextAvailableCmd)

	var bookAppointmentCmd = &cobra.Command{
		Use:   "book-appointment",
		Short: "Book an appointment at a specific date and time",
		Run:   handler.BookAppointmentCmd,
	}
	bookAppointmentCmd.Flags().StringP("workspace-id", "", "", "Workspace to book in")
	bookAppointmentCmd.Flags().StringP("date", "", "", "Appointment date (YYYY-MM-DD)")
	bookAppointmentCmd.Flags().StringP("time", "", "", "Appointment time (HH:MM, 24-hour)")
	bookAppointmentCmd.Flags().StringP("type", "", "general", "Appointment type (cleaning, exam, filling, crown, root_canal, extraction, whitening, consultation, emergency, follow_up, general)")
	bookAppointmentCmd.Flags().StringP("patient-ref", "", "", "Patient reference token")
	rootCmd.AddCommand(bookAppointmentCmd)

	var cancelAppointmentCmd = &cobra.Command{
		Use:   "cancel-appointment",
		Short: "Cancel an appointment by ID or the patient's next one",
		Run:   handler.CancelAppointmentCmd,
	}
	cancelAppointmentCmd.Flags().StringP("workspace-id", "", "", "Workspace the appointment belongs to")
	cancelAppointmentCmd.Flags().StringP("appointment-id", "", "", "Appointment to cancel")
	cancelAppointmentCmd.Flags().StringP("patient-ref", "", "", "Patient whose next appointment should be cancelled")
	cancelAppointmentCmd.Flags().StringP("reason", "", "", "Cancellation reason")
	rootCmd.AddCommand(cancelAppointmentCmd)

	return nil
}
