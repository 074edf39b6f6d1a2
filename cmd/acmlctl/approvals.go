package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var approvalsCmd = &cobra.Command{
	Use:   "approvals",
	Short: "Process pending membership requests",
}

var approvalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pending requests",
	RunE:  runApprovalsList,
}

var approvalsApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Approve a pending member",
	Args:  cobra.ExactArgs(1),
	RunE:  runApprovalsApprove,
}

var approvalsRejectCmd = &cobra.Command{
	Use:   "reject <id>",
	Short: "Reject a pending member (removes the record)",
	Args:  cobra.ExactArgs(1),
	RunE:  runApprovalsReject,
}

func init() {
	approvalsCmd.AddCommand(approvalsListCmd)
	approvalsCmd.AddCommand(approvalsApproveCmd)
	approvalsCmd.AddCommand(approvalsRejectCmd)
	rootCmd.AddCommand(approvalsCmd)
}

func runApprovalsList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.RequireStaff(); err != nil {
		return err
	}

	pending, err := a.members.ListPending(cmd.Context())
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		fmt.Println("Aucune demande en attente")
		return nil
	}

	rows := make([][]string, 0, len(pending))
	for _, m := range pending {
		rows = append(rows, []string{shortID(m.ID), m.FirstName + " " + m.LastName, m.Email, m.Phone, m.DateJoined})
	}
	printTable([]string{"ID", "NOM", "COURRIEL", "TÉLÉPHONE", "DEMANDE LE"}, rows)
	return nil
}

func runApprovalsApprove(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.RequireStaff(); err != nil {
		return err
	}

	m, err := a.members.Approve(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	slog.Info("member approved", "id", m.ID)

	fmt.Printf("Membre approuvé: %s (%s)\n", m.FirstName+" "+m.LastName, statusLabel(m.Status))
	return nil
}

// Rejection deletes the record outright; there is no REJECTED member state.
func runApprovalsReject(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.RequireStaff(); err != nil {
		return err
	}

	if !confirm("Refuser cette demande ? Le dossier sera supprimé.") {
		return nil
	}
	if err := a.members.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	slog.Info("member rejected", "id", args[0])

	fmt.Println("Demande refusée")
	return nil
}
