// Package finance manages fundraising campaigns and donations, and derives
// the overview figures shown on the finance page.
package finance

import (
	"context"
	"fmt"

	"github.com/acml/acmlctl/internal/gateway"
)

// Donation statuses.
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
	StatusRefunded  = "REFUNDED"
)

// Donation types.
const (
	TypeCotisation = "COTISATION"
	TypeOneTime    = "ONE_TIME"
	TypeRecurring  = "RECURRING"
)

// Payment methods.
const (
	MethodStripe  = "STRIPE"
	MethodInterac = "INTERAC"
	MethodPayPal  = "PAYPAL"
	MethodCash    = "CASH"
	MethodOther   = "OTHER"
)

// Campaign is a fundraising campaign. GoalAmount is nil when the campaign
// has no target, in which case no progress is reported.
type Campaign struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	GoalAmount    *float64 `json:"goal_amount"`
	CurrentAmount float64  `json:"current_amount"`
	IsActive      bool     `json:"is_active"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
}

// Progress returns the campaign completion percentage clamped to [0, 100].
// The second return is false when there is no goal to measure against.
func (c Campaign) Progress() (float64, bool) {
	if c.GoalAmount == nil || *c.GoalAmount <= 0 {
		return 0, false
	}
	pct := c.CurrentAmount / *c.GoalAmount * 100
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct, true
}

// Donation is a single donation or membership due payment.
type Donation struct {
	ID            string  `json:"id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Type          string  `json:"type"`
	PaymentMethod string  `json:"payment_method"`
	Status        string  `json:"status"`
	ReceiptIssued bool    `json:"receipt_issued"`
	Member        string  `json:"member,omitempty"`
	Campaign      string  `json:"campaign,omitempty"`
	DonatedAt     string  `json:"donated_at"`
}

// CampaignInput is the create/update payload for a campaign.
type CampaignInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	GoalAmount  *float64 `json:"goal_amount"`
	IsActive    bool     `json:"is_active"`
	StartDate   string   `json:"start_date,omitempty"`
	EndDate     string   `json:"end_date,omitempty"`
}

// DonationInput is the create/update payload for a donation.
type DonationInput struct {
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency,omitempty"`
	Type          string  `json:"type"`
	PaymentMethod string  `json:"payment_method"`
	Status        string  `json:"status,omitempty"`
	Member        string  `json:"member,omitempty"`
	Campaign      string  `json:"campaign,omitempty"`
}

// Overview holds the figures derived from the full donation list. Only
// completed donations count toward the collected total and the donor count.
type Overview struct {
	TotalCollected float64
	DonationCount  int
	DonorCount     int
	ReceiptsIssued int
}

// Summarize derives the overview figures from a donation list.
func Summarize(donations []Donation) Overview {
	var o Overview
	donors := make(map[string]struct{})
	for _, d := range donations {
		o.DonationCount++
		if d.ReceiptIssued {
			o.ReceiptsIssued++
		}
		if d.Status != StatusCompleted {
			continue
		}
		o.TotalCollected += d.Amount
		if d.Member != "" {
			donors[d.Member] = struct{}{}
		}
	}
	o.DonorCount = len(donors)
	return o
}

// Service provides campaign and donation operations over the API gateway.
type Service struct {
	gw *gateway.Client
}

// NewService creates a finance service.
func NewService(gw *gateway.Client) *Service {
	return &Service{gw: gw}
}

// ListCampaigns fetches all campaigns.
func (s *Service) ListCampaigns(ctx context.Context) ([]Campaign, error) {
	var out []Campaign
	if err := s.gw.Get(ctx, "/finance/campaigns/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCampaign posts a new campaign and returns the server's copy.
func (s *Service) CreateCampaign(ctx context.Context, in CampaignInput) (*Campaign, error) {
	var out Campaign
	if err := s.gw.Post(ctx, "/finance/campaigns/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCampaign replaces a campaign.
func (s *Service) UpdateCampaign(ctx context.Context, id string, in CampaignInput) (*Campaign, error) {
	var out Campaign
	if err := s.gw.Put(ctx, "/finance/campaigns/"+id+"/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCampaign removes a campaign.
func (s *Service) DeleteCampaign(ctx context.Context, id string) error {
	return s.gw.Delete(ctx, "/finance/campaigns/"+id+"/")
}

// ListDonations fetches all donations.
func (s *Service) ListDonations(ctx context.Context) ([]Donation, error) {
	var out []Donation
	if err := s.gw.Get(ctx, "/finance/donations/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateDonation records a donation and returns the server's copy.
func (s *Service) CreateDonation(ctx context.Context, in DonationInput) (*Donation, error) {
	var out Donation
	if err := s.gw.Post(ctx, "/finance/donations/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateDonation replaces a donation.
func (s *Service) UpdateDonation(ctx context.Context, id string, in DonationInput) (*Donation, error) {
	var out Donation
	if err := s.gw.Put(ctx, "/finance/donations/"+id+"/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDonation removes a donation.
func (s *Service) DeleteDonation(ctx context.Context, id string) error {
	return s.gw.Delete(ctx, "/finance/donations/"+id+"/")
}

// DownloadReceipt fetches the tax receipt PDF for a completed donation.
// The filename comes from the response when the server sends one, falling
// back to the recu_fiscal convention otherwise.
func (s *Service) DownloadReceipt(ctx context.Context, donationID string) ([]byte, string, error) {
	data, filename, err := s.gw.GetBlob(ctx, "/finance/donations/"+donationID+"/download_receipt/")
	if err != nil {
		return nil, "", err
	}
	if filename == "" {
		filename = fmt.Sprintf("recu_fiscal_%s.pdf", donationID)
	}
	return data, filename, nil
}
