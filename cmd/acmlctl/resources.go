package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/acml/acmlctl/internal/console"
	"github.com/acml/acmlctl/internal/resources"
	"github.com/spf13/cobra"
)

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Manage shared resources and reservations",
}

var resourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List resources with their reservations",
	RunE:  runResourcesList,
}

var resourcesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a resource",
	RunE:  runResourcesCreate,
}

var resourcesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a resource",
	Args:  cobra.ExactArgs(1),
	RunE:  runResourcesDelete,
}

var reservationsCmd = &cobra.Command{
	Use:   "reservations",
	Short: "Manage reservations",
}

var reservationsCreateCmd = &cobra.Command{
	Use:   "create <resource-id>",
	Short: "Book a resource",
	Args:  cobra.ExactArgs(1),
	RunE:  runReservationsCreate,
}

var reservationsSetStatusCmd = &cobra.Command{
	Use:   "set-status <id> <status>",
	Short: "Approve, reject, or cancel a reservation",
	Args:  cobra.ExactArgs(2),
	RunE:  runReservationsSetStatus,
}

var reservationsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a reservation",
	Args:  cobra.ExactArgs(1),
	RunE:  runReservationsDelete,
}

var resourceFlags struct {
	name        string
	resType     string
	description string
	capacity    int
	available   bool
}

var reservationFlags struct {
	start string
	end   string
	notes string
}

func init() {
	resourcesCreateCmd.Flags().StringVar(&resourceFlags.name, "name", "", "resource name")
	resourcesCreateCmd.Flags().StringVar(&resourceFlags.resType, "type", resources.TypeRoom, "type (ROOM, EQUIPMENT, VEHICLE, OTHER)")
	resourcesCreateCmd.Flags().StringVar(&resourceFlags.description, "description", "", "description")
	resourcesCreateCmd.Flags().IntVar(&resourceFlags.capacity, "capacity", 0, "capacity")
	resourcesCreateCmd.Flags().BoolVar(&resourceFlags.available, "available", true, "resource is available")

	reservationsCreateCmd.Flags().StringVar(&reservationFlags.start, "start", "", "start time (RFC 3339)")
	reservationsCreateCmd.Flags().StringVar(&reservationFlags.end, "end", "", "end time (RFC 3339)")
	reservationsCreateCmd.Flags().StringVar(&reservationFlags.notes, "notes", "", "notes")

	reservationsCmd.AddCommand(reservationsCreateCmd)
	reservationsCmd.AddCommand(reservationsSetStatusCmd)
	reservationsCmd.AddCommand(reservationsDeleteCmd)

	resourcesCmd.AddCommand(resourcesListCmd)
	resourcesCmd.AddCommand(resourcesCreateCmd)
	resourcesCmd.AddCommand(resourcesDeleteCmd)
	resourcesCmd.AddCommand(reservationsCmd)
	rootCmd.AddCommand(resourcesCmd)
}

func runResourcesList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.Require(); err != nil {
		return err
	}

	var assets []resources.Resource
	var reservations []resources.Reservation
	err = console.LoadPair(cmd.Context(), slog.Default(), map[string]func(ctx context.Context) error{
		"resources": func(ctx context.Context) error {
			var e error
			assets, e = a.resources.ListResources(ctx)
			return e
		},
		"reservations": func(ctx context.Context) error {
			var e error
			reservations, e = a.resources.ListReservations(ctx)
			return e
		},
	})
	if err != nil {
		return err
	}

	byResource := make(map[string][]resources.Reservation)
	for _, r := range reservations {
		byResource[r.Resource] = append(byResource[r.Resource], r)
	}

	for _, res := range assets {
		availability := "disponible"
		if !res.IsAvailable {
			availability = "indisponible"
		}
		fmt.Printf("%s (%s) — %s [%s]\n", res.Name, res.Type, availability, shortID(res.ID))
		for _, r := range byResource[res.ID] {
			fmt.Printf("  %s → %s  %s [%s]\n", r.StartTime, r.EndTime, statusLabel(r.Status), shortID(r.ID))
		}
	}
	return nil
}

func runResourcesCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.RequireStaff(); err != nil {
		return err
	}

	res, err := a.resources.CreateResource(cmd.Context(), resources.ResourceInput{
		Name:        resourceFlags.name,
		Type:        resourceFlags.resType,
		Description: resourceFlags.description,
		Capacity:    resourceFlags.capacity,
		IsAvailable: resourceFlags.available,
	})
	if err != nil {
		return err
	}
	slog.Info("resource created", "id", res.ID)

	fmt.Printf("Ressource créée: %s (%s)\n", res.Name, shortID(res.ID))
	return nil
}

func runResourcesDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.RequireStaff(); err != nil {
		return err
	}

	if !confirm("Supprimer cette ressource ?") {
		return nil
	}
	if err := a.resources.DeleteResource(cmd.Context(), args[0]); err != nil {
		return err
	}
	slog.Info("resource deleted", "id", args[0])

	fmt.Println("Ressource supprimée")
	return nil
}

func runReservationsCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	u, err := a.guard.Require()
	if err != nil {
		return err
	}

	r, err := a.resources.CreateReservation(cmd.Context(), resources.ReservationInput{
		Resource:  args[0],
		Member:    u.ID,
		StartTime: reservationFlags.start,
		EndTime:   reservationFlags.end,
		Notes:     reservationFlags.notes,
	})
	if err != nil {
		return err
	}
	slog.Info("reservation created", "id", r.ID)

	fmt.Printf("Réservation soumise: %s (%s)\n", shortID(r.ID), statusLabel(r.Status))
	return nil
}

func runReservationsSetStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.RequireStaff(); err != nil {
		return err
	}

	list, err := a.resources.ListReservations(cmd.Context())
	if err != nil {
		return err
	}
	var current *resources.Reservation
	for i := range list {
		if list[i].ID == args[0] {
			current = &list[i]
			break
		}
	}
	if current == nil {
		return fmt.Errorf("réservation introuvable: %s", args[0])
	}

	r, err := a.resources.UpdateReservation(cmd.Context(), current.ID, resources.ReservationInput{
		Resource:  current.Resource,
		Member:    current.Member,
		StartTime: current.StartTime,
		EndTime:   current.EndTime,
		Status:    args[1],
		Notes:     current.Notes,
	})
	if err != nil {
		return err
	}
	slog.Info("reservation status changed", "id", r.ID, "status", r.Status)

	fmt.Printf("Réservation %s: %s\n", shortID(r.ID), statusLabel(r.Status))
	return nil
}

func runReservationsDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.RequireStaff(); err != nil {
		return err
	}

	if !confirm("Supprimer cette réservation ?") {
		return nil
	}
	if err := a.resources.DeleteReservation(cmd.Context(), args[0]); err != nil {
		return err
	}
	slog.Info("reservation deleted", "id", args[0])

	fmt.Println("Réservation supprimée")
	return nil
}
