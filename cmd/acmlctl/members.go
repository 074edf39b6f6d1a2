package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/acml/acmlctl/internal/card"
	"github.com/acml/acmlctl/internal/console"
	"github.com/acml/acmlctl/internal/members"
	"github.com/spf13/cobra"
)

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "Manage member records",
}

var membersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List members",
	RunE:  runMembersList,
}

var membersSearch string

var membersShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one member with family, skills, and contributions",
	Args:  cobra.ExactArgs(1),
	RunE:  runMembersShow,
}

var membersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a member record",
	RunE:  runMembersCreate,
}

var membersUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a member record",
	Args:  cobra.ExactArgs(1),
	RunE:  runMembersUpdate,
}

var membersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a member record",
	Args:  cobra.ExactArgs(1),
	RunE:  runMembersDelete,
}

var membersCardCmd = &cobra.Command{
	Use:   "card <id>",
	Short: "Render the member's digital card as a PNG",
	Args:  cobra.ExactArgs(1),
	RunE:  runMembersCard,
}

var memberFlags struct {
	email          string
	firstName      string
	lastName       string
	phone          string
	gender         string
	status         string
	membershipType string
	postalCode     string
	staff          bool
}

var cardOut string

func addMemberFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&memberFlags.email, "email", "", "email address")
	cmd.Flags().StringVar(&memberFlags.firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&memberFlags.lastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&memberFlags.phone, "phone", "", "phone number (10 digits)")
	cmd.Flags().StringVar(&memberFlags.gender, "gender", "", "gender")
	cmd.Flags().StringVar(&memberFlags.status, "status", members.StatusActive, "status (PENDING, ACTIVE, INACTIVE)")
	cmd.Flags().StringVar(&memberFlags.membershipType, "membership-type", "", "membership type")
	cmd.Flags().StringVar(&memberFlags.postalCode, "postal-code", "", "postal code")
	cmd.Flags().BoolVar(&memberFlags.staff, "staff", false, "grant staff rights")
}

func init() {
	membersListCmd.Flags().StringVar(&membersSearch, "search", "", "filter by name, email, or phone")
	membersCardCmd.Flags().StringVar(&cardOut, "out", "", "output file (default: ACML-Carte-<first>-<last>.png)")
	addMemberFlags(membersCreateCmd)
	addMemberFlags(membersUpdateCmd)

	membersCmd.AddCommand(membersListCmd)
	membersCmd.AddCommand(membersShowCmd)
	membersCmd.AddCommand(membersCreateCmd)
	membersCmd.AddCommand(membersUpdateCmd)
	membersCmd.AddCommand(membersDeleteCmd)
	membersCmd.AddCommand(membersCardCmd)
	membersCmd.AddCommand(familyCmd)
	membersCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(membersCmd)
}

func runMembersList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.Require(); err != nil {
		return err
	}

	ctl := console.NewController(a.members.List, func(m members.Member) string { return m.ID })
	if err := ctl.Load(cmd.Context()); err != nil {
		return err
	}
	list := ctl.Filter(func(m members.Member) bool { return m.MatchesSearch(membersSearch) })

	rows := make([][]string, 0, len(list))
	for _, m := range list {
		rows = append(rows, []string{shortID(m.ID), m.FirstName + " " + m.LastName, m.Email, m.Phone, statusLabel(m.Status)})
	}
	printTable([]string{"ID", "NOM", "COURRIEL", "TÉLÉPHONE", "STATUT"}, rows)
	return nil
}

func runMembersShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.Require(); err != nil {
		return err
	}

	m, err := a.members.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s %s (%s)\n", m.FirstName, m.LastName, statusLabel(m.Status))
	fmt.Printf("Courriel: %s  Téléphone: %s\n", m.Email, m.Phone)
	if m.PostalCode != "" {
		fmt.Printf("Code postal: %s\n", m.PostalCode)
	}
	fmt.Printf("Membre depuis: %s\n", m.DateJoined)

	if len(m.Families) > 0 {
		fmt.Println("\nFamille:")
		for _, f := range m.Families {
			fmt.Printf("  %s %s (%s) [%s]\n", f.FirstName, f.LastName, f.Relationship, shortID(f.ID))
		}
	}
	if len(m.Skills) > 0 {
		fmt.Println("\nCompétences:")
		for _, sk := range m.Skills {
			fmt.Printf("  %s (%s) [%s]\n", sk.SkillName, sk.Proficiency, shortID(sk.ID))
		}
	}
	if len(m.Contributions) > 0 {
		fmt.Println("\nContributions:")
		for _, c := range m.Contributions {
			fmt.Printf("  %s  %.2f $  %.1f h  %s\n", c.Type, c.Amount, c.Hours, c.Description)
		}
	}
	return nil
}

func memberInputFromFlags() members.MemberInput {
	return members.MemberInput{
		Email:          memberFlags.email,
		FirstName:      memberFlags.firstName,
		LastName:       memberFlags.lastName,
		Phone:          memberFlags.phone,
		Gender:         memberFlags.gender,
		Status:         memberFlags.status,
		MembershipType: memberFlags.membershipType,
		PostalCode:     memberFlags.postalCode,
		IsStaff:        memberFlags.staff,
	}
}

func runMembersCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.RequireStaff(); err != nil {
		return err
	}

	m, err := a.members.Create(cmd.Context(), memberInputFromFlags())
	if err != nil {
		return err
	}
	slog.Info("member created", "id", m.ID)

	fmt.Printf("Membre créé: %s (%s)\n", m.FirstName+" "+m.LastName, shortID(m.ID))
	return nil
}

func runMembersUpdate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.RequireStaff(); err != nil {
		return err
	}

	m, err := a.members.Update(cmd.Context(), args[0], memberInputFromFlags())
	if err != nil {
		return err
	}
	slog.Info("member updated", "id", m.ID)

	fmt.Printf("Membre mis à jour: %s\n", shortID(m.ID))
	return nil
}

func runMembersDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.RequireStaff(); err != nil {
		return err
	}

	if !confirm("Supprimer définitivement ce membre ?") {
		return nil
	}
	if err := a.members.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	slog.Info("member deleted", "id", args[0])

	fmt.Println("Membre supprimé")
	return nil
}

func runMembersCard(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.Require(); err != nil {
		return err
	}

	m, err := a.members.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	data := card.Data{
		MemberID:  m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Status:    m.Status,
		ValidThru: "31 DEC 2026",
	}
	img, err := card.NewPNGRenderer().Render(data)
	if err != nil {
		return err
	}

	out := cardOut
	if out == "" {
		out = data.FileName()
	}
	if err := os.WriteFile(out, img, 0o644); err != nil {
		return fmt.Errorf("writing card: %w", err)
	}

	fmt.Printf("Carte enregistrée: %s\n", out)
	return nil
}
