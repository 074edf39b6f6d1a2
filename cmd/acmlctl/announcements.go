package main

import (
	"fmt"
	"log/slog"

	"github.com/acml/acmlctl/internal/communications"
	"github.com/spf13/cobra"
)

var announcementsCmd = &cobra.Command{
	Use:   "announcements",
	Short: "Manage the announcement board",
}

var announcementsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List announcements",
	RunE:  runAnnouncementsList,
}

var announcementsCategory string

var announcementsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an announcement",
	RunE:  runAnnouncementsCreate,
}

var announcementsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an announcement",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnnouncementsUpdate,
}

var announcementsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an announcement",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnnouncementsDelete,
}

var announcementFlags struct {
	title    string
	content  string
	category string
	status   string
	pinned   bool
	expires  string
}

func addAnnouncementFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&announcementFlags.title, "title", "", "title")
	cmd.Flags().StringVar(&announcementFlags.content, "content", "", "body text")
	cmd.Flags().StringVar(&announcementFlags.category, "category", communications.CategoryGeneral, "category (RELIGIOUS, CULTURAL, ADMINISTRATIVE, GENERAL)")
	cmd.Flags().StringVar(&announcementFlags.status, "status", communications.StatusDraft, "status (DRAFT, PUBLISHED, EXPIRED)")
	cmd.Flags().BoolVar(&announcementFlags.pinned, "pinned", false, "pin to the top of the board")
	cmd.Flags().StringVar(&announcementFlags.expires, "expires", "", "expiry date (RFC 3339)")
}

func init() {
	announcementsListCmd.Flags().StringVar(&announcementsCategory, "category", "", "filter by category")
	addAnnouncementFlags(announcementsCreateCmd)
	addAnnouncementFlags(announcementsUpdateCmd)

	announcementsCmd.AddCommand(announcementsListCmd)
	announcementsCmd.AddCommand(announcementsCreateCmd)
	announcementsCmd.AddCommand(announcementsUpdateCmd)
	announcementsCmd.AddCommand(announcementsDeleteCmd)
	rootCmd.AddCommand(announcementsCmd)
}

func announcementInputFromFlags() communications.AnnouncementInput {
	return communications.AnnouncementInput{
		Title:     announcementFlags.title,
		Content:   announcementFlags.content,
		Category:  announcementFlags.category,
		Status:    announcementFlags.status,
		IsPinned:  announcementFlags.pinned,
		ExpiresAt: announcementFlags.expires,
	}
}

func runAnnouncementsList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.Require(); err != nil {
		return err
	}

	list, err := a.communications.List(cmd.Context())
	if err != nil {
		return err
	}
	list = communications.FilterByCategory(list, announcementsCategory)

	rows := make([][]string, 0, len(list))
	for _, an := range list {
		pinned := ""
		if an.IsPinned {
			pinned = "épinglé"
		}
		rows = append(rows, []string{shortID(an.ID), an.Title, an.Category, statusLabel(an.Status), pinned})
	}
	printTable([]string{"ID", "TITRE", "CATÉGORIE", "STATUT", ""}, rows)
	return nil
}

func runAnnouncementsCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.RequireStaff(); err != nil {
		return err
	}

	an, err := a.communications.Create(cmd.Context(), announcementInputFromFlags())
	if err != nil {
		return err
	}
	slog.Info("announcement created", "id", an.ID)

	fmt.Printf("Annonce créée: %s (%s)\n", an.Title, shortID(an.ID))
	return nil
}

func runAnnouncementsUpdate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.RequireStaff(); err != nil {
		return err
	}

	an, err := a.communications.Update(cmd.Context(), args[0], announcementInputFromFlags())
	if err != nil {
		return err
	}
	slog.Info("announcement updated", "id", an.ID)

	fmt.Printf("Annonce mise à jour: %s\n", shortID(an.ID))
	return nil
}

func runAnnouncementsDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.RequireStaff(); err != nil {
		return err
	}

	if !confirm("Supprimer cette annonce ?") {
		return nil
	}
	if err := a.communications.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	slog.Info("announcement deleted", "id", args[0])

	fmt.Println("Annonce supprimée")
	return nil
}
