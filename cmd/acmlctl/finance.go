package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/acml/acmlctl/internal/console"
	"github.com/acml/acmlctl/internal/finance"
	"github.com/spf13/cobra"
)

var financeCmd = &cobra.Command{
	Use:   "finance",
	Short: "Manage campaigns, donations, and receipts",
}

var financeOverviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show donation totals and campaign progress",
	RunE:  runFinanceOverview,
}

var campaignsCmd = &cobra.Command{
	Use:   "campaigns",
	Short: "Manage fundraising campaigns",
}

var campaignsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List campaigns",
	RunE:  runCampaignsList,
}

var campaignsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a campaign",
	RunE:  runCampaignsCreate,
}

var campaignsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a campaign",
	Args:  cobra.ExactArgs(1),
	RunE:  runCampaignsDelete,
}

var donationsCmd = &cobra.Command{
	Use:   "donations",
	Short: "Manage donations",
}

var donationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List donations",
	RunE:  runDonationsList,
}

var donationsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Record a donation",
	RunE:  runDonationsCreate,
}

var donationsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a donation",
	Args:  cobra.ExactArgs(1),
	RunE:  runDonationsDelete,
}

var receiptCmd = &cobra.Command{
	Use:   "receipt <donation-id>",
	Short: "Download the tax receipt of a completed donation",
	Args:  cobra.ExactArgs(1),
	RunE:  runReceipt,
}

var campaignFlags struct {
	name        string
	description string
	goal        float64
	active      bool
	start       string
	end         string
}

var donationFlags struct {
	amount   float64
	donType  string
	method   string
	member   string
	campaign string
}

var receiptOut string

func init() {
	campaignsCreateCmd.Flags().StringVar(&campaignFlags.name, "name", "", "campaign name")
	campaignsCreateCmd.Flags().StringVar(&campaignFlags.description, "description", "", "description")
	campaignsCreateCmd.Flags().Float64Var(&campaignFlags.goal, "goal", 0, "goal amount (0 = no goal)")
	campaignsCreateCmd.Flags().BoolVar(&campaignFlags.active, "active", true, "campaign is active")
	campaignsCreateCmd.Flags().StringVar(&campaignFlags.start, "start", "", "start date")
	campaignsCreateCmd.Flags().StringVar(&campaignFlags.end, "end", "", "end date")

	donationsCreateCmd.Flags().Float64Var(&donationFlags.amount, "amount", 0, "amount")
	donationsCreateCmd.Flags().StringVar(&donationFlags.donType, "type", finance.TypeOneTime, "type (COTISATION, ONE_TIME, RECURRING)")
	donationsCreateCmd.Flags().StringVar(&donationFlags.method, "method", finance.MethodCash, "payment method (STRIPE, INTERAC, PAYPAL, CASH, OTHER)")
	donationsCreateCmd.Flags().StringVar(&donationFlags.member, "member", "", "member id")
	donationsCreateCmd.Flags().StringVar(&donationFlags.campaign, "campaign", "", "campaign id")

	receiptCmd.Flags().StringVar(&receiptOut, "out", "", "output file (default: server-provided name)")

	campaignsCmd.AddCommand(campaignsListCmd)
	campaignsCmd.AddCommand(campaignsCreateCmd)
	campaignsCmd.AddCommand(campaignsDeleteCmd)
	donationsCmd.AddCommand(donationsListCmd)
	donationsCmd.AddCommand(donationsCreateCmd)
	donationsCmd.AddCommand(donationsDeleteCmd)

	financeCmd.AddCommand(financeOverviewCmd)
	financeCmd.AddCommand(campaignsCmd)
	financeCmd.AddCommand(donationsCmd)
	financeCmd.AddCommand(receiptCmd)
	rootCmd.AddCommand(financeCmd)
}

func runFinanceOverview(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.Require(); err != nil {
		return err
	}

	var campaigns []finance.Campaign
	var donations []finance.Donation
	err = console.LoadPair(cmd.Context(), slog.Default(), map[string]func(ctx context.Context) error{
		"campaigns": func(ctx context.Context) error {
			var e error
			campaigns, e = a.finance.ListCampaigns(ctx)
			return e
		},
		"donations": func(ctx context.Context) error {
			var e error
			donations, e = a.finance.ListDonations(ctx)
			return e
		},
	})
	if err != nil {
		return err
	}

	o := finance.Summarize(donations)
	fmt.Printf("Total collecté: %.2f $\n", o.TotalCollected)
	fmt.Printf("Dons: %d  Donateurs: %d  Reçus émis: %d\n", o.DonationCount, o.DonorCount, o.ReceiptsIssued)

	if len(campaigns) > 0 {
		fmt.Println("\nCampagnes:")
		for _, c := range campaigns {
			if pct, ok := c.Progress(); ok {
				fmt.Printf("  %s  %.2f $ / %.2f $  (%.0f %%)\n", c.Name, c.CurrentAmount, *c.GoalAmount, pct)
			} else {
				fmt.Printf("  %s  %.2f $\n", c.Name, c.CurrentAmount)
			}
		}
	}
	return nil
}

func runCampaignsList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.Require(); err != nil {
		return err
	}

	list, err := a.finance.ListCampaigns(cmd.Context())
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(list))
	for _, c := range list {
		progress := "-"
		if pct, ok := c.Progress(); ok {
			progress = fmt.Sprintf("%.0f %%", pct)
		}
		active := "inactive"
		if c.IsActive {
			active = "active"
		}
		rows = append(rows, []string{shortID(c.ID), c.Name, fmt.Sprintf("%.2f", c.CurrentAmount), progress, active})
	}
	printTable([]string{"ID", "NOM", "COLLECTÉ", "PROGRÈS", "ÉTAT"}, rows)
	return nil
}

func runCampaignsCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.RequireStaff(); err != nil {
		return err
	}

	in := finance.CampaignInput{
		Name:        campaignFlags.name,
		Description: campaignFlags.description,
		IsActive:    campaignFlags.active,
		StartDate:   campaignFlags.start,
		EndDate:     campaignFlags.end,
	}
	if campaignFlags.goal > 0 {
		goal := campaignFlags.goal
		in.GoalAmount = &goal
	}

	c, err := a.finance.CreateCampaign(cmd.Context(), in)
	if err != nil {
		return err
	}
	slog.Info("campaign created", "id", c.ID)

	fmt.Printf("Campagne créée: %s (%s)\n", c.Name, shortID(c.ID))
	return nil
}

func runCampaignsDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.RequireStaff(); err != nil {
		return err
	}

	if !confirm("Supprimer cette campagne ?") {
		return nil
	}
	if err := a.finance.DeleteCampaign(cmd.Context(), args[0]); err != nil {
		return err
	}
	slog.Info("campaign deleted", "id", args[0])

	fmt.Println("Campagne supprimée")
	return nil
}

func runDonationsList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.Require(); err != nil {
		return err
	}

	list, err := a.finance.ListDonations(cmd.Context())
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(list))
	for _, d := range list {
		receipt := ""
		if d.ReceiptIssued {
			receipt = "reçu émis"
		}
		rows = append(rows, []string{shortID(d.ID), fmt.Sprintf("%.2f %s", d.Amount, d.Currency), d.Type, d.PaymentMethod, statusLabel(d.Status), receipt})
	}
	printTable([]string{"ID", "MONTANT", "TYPE", "PAIEMENT", "STATUT", ""}, rows)
	return nil
}

func runDonationsCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.RequireStaff(); err != nil {
		return err
	}

	d, err := a.finance.CreateDonation(cmd.Context(), finance.DonationInput{
		Amount:        donationFlags.amount,
		Type:          donationFlags.donType,
		PaymentMethod: donationFlags.method,
		Member:        donationFlags.member,
		Campaign:      donationFlags.campaign,
	})
	if err != nil {
		return err
	}
	slog.Info("donation recorded", "id", d.ID, "amount", d.Amount)

	fmt.Printf("Don enregistré: %.2f %s (%s)\n", d.Amount, d.Currency, shortID(d.ID))
	return nil
}

func runDonationsDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.RequireStaff(); err != nil {
		return err
	}

	if !confirm("Supprimer ce don ?") {
		return nil
	}
	if err := a.finance.DeleteDonation(cmd.Context(), args[0]); err != nil {
		return err
	}
	slog.Info("donation deleted", "id", args[0])

	fmt.Println("Don supprimé")
	return nil
}

func runReceipt(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.Require(); err != nil {
		return err
	}

	data, filename, err := a.finance.DownloadReceipt(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := receiptOut
	if out == "" {
		out = filename
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing receipt: %w", err)
	}

	fmt.Printf("Reçu enregistré: %s\n", out)
	return nil
}
