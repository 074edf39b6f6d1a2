package main

import (
	"fmt"
	"log/slog"

	"github.com/acml/acmlctl/internal/events"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Manage community events",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events",
	RunE:  runEventsList,
}

var eventsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an event",
	RunE:  runEventsCreate,
}

var eventsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an event",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventsUpdate,
}

var eventsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an event",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventsDelete,
}

var eventFlags struct {
	title        string
	description  string
	start        string
	end          string
	location     string
	capacity     int
	status       string
	imageConsent bool
}

func addEventFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&eventFlags.title, "title", "", "event title")
	cmd.Flags().StringVar(&eventFlags.description, "description", "", "description")
	cmd.Flags().StringVar(&eventFlags.start, "start", "", "start time (RFC 3339)")
	cmd.Flags().StringVar(&eventFlags.end, "end", "", "end time (RFC 3339)")
	cmd.Flags().StringVar(&eventFlags.location, "location", "", "location")
	cmd.Flags().IntVar(&eventFlags.capacity, "capacity", 0, "maximum capacity (0 = unlimited)")
	cmd.Flags().StringVar(&eventFlags.status, "status", events.StatusDraft, "status (DRAFT, OPEN, CLOSED, COMPLETED, CANCELLED)")
	cmd.Flags().BoolVar(&eventFlags.imageConsent, "image-consent", false, "require image consent from attendees")
}

func init() {
	addEventFlags(eventsCreateCmd)
	addEventFlags(eventsUpdateCmd)

	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsCreateCmd)
	eventsCmd.AddCommand(eventsUpdateCmd)
	eventsCmd.AddCommand(eventsDeleteCmd)
	rootCmd.AddCommand(eventsCmd)
}

func eventInputFromFlags() events.EventInput {
	return events.EventInput{
		Title:                eventFlags.title,
		Description:          eventFlags.description,
		StartTime:            eventFlags.start,
		EndTime:              eventFlags.end,
		Location:             eventFlags.location,
		MaxCapacity:          eventFlags.capacity,
		Status:               eventFlags.status,
		ImageConsentRequired: eventFlags.imageConsent,
	}
}

func runEventsList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.Require(); err != nil {
		return err
	}

	list, err := a.events.List(cmd.Context())
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(list))
	for _, e := range list {
		capacity := "illimité"
		if e.MaxCapacity > 0 {
			capacity = fmt.Sprintf("%d/%d", e.CurrentRegistrations, e.MaxCapacity)
			if e.IsFull() {
				capacity += " (complet)"
			}
		}
		rows = append(rows, []string{shortID(e.ID), e.Title, e.StartTime, e.Location, capacity, statusLabel(e.Status)})
	}
	printTable([]string{"ID", "TITRE", "DÉBUT", "LIEU", "PLACES", "STATUT"}, rows)
	return nil
}

func runEventsCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.RequireStaff(); err != nil {
		return err
	}

	e, err := a.events.Create(cmd.Context(), eventInputFromFlags())
	if err != nil {
		return err
	}
	slog.Info("event created", "id", e.ID)

	fmt.Printf("Événement créé: %s (%s)\n", e.Title, shortID(e.ID))
	return nil
}

func runEventsUpdate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.RequireStaff(); err != nil {
		return err
	}

	e, err := a.events.Update(cmd.Context(), args[0], eventInputFromFlags())
	if err != nil {
		return err
	}
	slog.Info("event updated", "id", e.ID)

	fmt.Printf("Événement mis à jour: %s\n", shortID(e.ID))
	return nil
}

func runEventsDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.RequireStaff(); err != nil {
		return err
	}

	if !confirm("Supprimer cet événement ?") {
		return nil
	}
	if err := a.events.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	slog.Info("event deleted", "id", args[0])

	fmt.Println("Événement supprimé")
	return nil
}
