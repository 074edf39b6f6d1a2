package main

import (
	"fmt"

	"github.com/acml/acmlctl/internal/members"
	"github.com/spf13/cobra"
)

var familyCmd = &cobra.Command{
	Use:   "family",
	Short: "Manage family relationships of a member",
}

var familyAddCmd = &cobra.Command{
	Use:   "add <member-id>",
	Short: "Add a family relationship",
	Args:  cobra.ExactArgs(1),
	RunE:  runFamilyAdd,
}

var familyDeleteCmd = &cobra.Command{
	Use:   "delete <family-id>",
	Short: "Remove a family relationship",
	Args:  cobra.ExactArgs(1),
	RunE:  runFamilyDelete,
}

var familyFlags struct {
	relationship string
	firstName    string
	lastName     string
}

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Manage skills of a member",
}

var skillAddCmd = &cobra.Command{
	Use:   "add <member-id>",
	Short: "Add a skill",
	Args:  cobra.ExactArgs(1),
	RunE:  runSkillAdd,
}

var skillDeleteCmd = &cobra.Command{
	Use:   "delete <skill-id>",
	Short: "Remove a skill",
	Args:  cobra.ExactArgs(1),
	RunE:  runSkillDelete,
}

var skillFlags struct {
	name        string
	proficiency string
}

func init() {
	familyAddCmd.Flags().StringVar(&familyFlags.relationship, "relationship", members.RelationChild, "relationship (SPOUSE, CHILD, PARENT)")
	familyAddCmd.Flags().StringVar(&familyFlags.firstName, "first-name", "", "first name")
	familyAddCmd.Flags().StringVar(&familyFlags.lastName, "last-name", "", "last name")
	familyCmd.AddCommand(familyAddCmd)
	familyCmd.AddCommand(familyDeleteCmd)

	skillAddCmd.Flags().StringVar(&skillFlags.name, "name", "", "skill name")
	skillAddCmd.Flags().StringVar(&skillFlags.proficiency, "proficiency", "", "proficiency level")
	skillCmd.AddCommand(skillAddCmd)
	skillCmd.AddCommand(skillDeleteCmd)
}

func runFamilyAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.RequireStaff(); err != nil {
		return err
	}

	f, err := a.members.AddFamily(cmd.Context(), members.FamilyInput{
		Member:       args[0],
		Relationship: familyFlags.relationship,
		FirstName:    familyFlags.firstName,
		LastName:     familyFlags.lastName,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Lien familial ajouté: %s\n", shortID(f.ID))
	return nil
}

func runFamilyDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.RequireStaff(); err != nil {
		return err
	}

	if err := a.members.DeleteFamily(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Println("Lien familial retiré")
	return nil
}

func runSkillAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.RequireStaff(); err != nil {
		return err
	}

	sk, err := a.members.AddSkill(cmd.Context(), members.SkillInput{
		Member:      args[0],
		SkillName:   skillFlags.name,
		Proficiency: skillFlags.proficiency,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Compétence ajoutée: %s\n", shortID(sk.ID))
	return nil
}

func runSkillDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.RequireStaff(); err != nil {
		return err
	}

	if err := a.members.DeleteSkill(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Println("Compétence retirée")
	return nil
}
