// Package communications manages the announcement board: community notices
// with a category, a publication status, and an optional expiry date.
package communications

import (
	"context"

	"github.com/acml/acmlctl/internal/gateway"
)

// Announcement categories.
const (
	CategoryReligious      = "RELIGIOUS"
	CategoryCultural       = "CULTURAL"
	CategoryAdministrative = "ADMINISTRATIVE"
	CategoryGeneral        = "GENERAL"
)

// Announcement statuses.
const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
	StatusExpired   = "EXPIRED"
)

// Announcement is a notice shown to the community.
type Announcement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	IsPinned    bool   `json:"is_pinned"`
	PublishedAt string `json:"published_at"`
	ExpiresAt   string `json:"expires_at"`
	Author      string `json:"author"`
	CreatedAt   string `json:"created_at"`
}

// AnnouncementInput is the create/update payload.
type AnnouncementInput struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Category  string `json:"category"`
	Status    string `json:"status"`
	IsPinned  bool   `json:"is_pinned"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// Service provides announcement operations over the API gateway.
type Service struct {
	gw *gateway.Client
}

// NewService creates an announcement service.
func NewService(gw *gateway.Client) *Service {
	return &Service{gw: gw}
}

// List fetches all announcements.
func (s *Service) List(ctx context.Context) ([]Announcement, error) {
	var out []Announcement
	if err := s.gw.Get(ctx, "/communications/announcements/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one announcement.
func (s *Service) Get(ctx context.Context, id string) (*Announcement, error) {
	var out Announcement
	if err := s.gw.Get(ctx, "/communications/announcements/"+id+"/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create posts a new announcement and returns the server's copy.
func (s *Service) Create(ctx context.Context, in AnnouncementInput) (*Announcement, error) {
	var out Announcement
	if err := s.gw.Post(ctx, "/communications/announcements/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces an announcement.
func (s *Service) Update(ctx context.Context, id string, in AnnouncementInput) (*Announcement, error) {
	var out Announcement
	if err := s.gw.Put(ctx, "/communications/announcements/"+id+"/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes an announcement.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.gw.Delete(ctx, "/communications/announcements/"+id+"/")
}

// FilterByCategory returns the announcements matching a category. The empty
// category keeps everything; the filter happens on the already-fetched list.
func FilterByCategory(items []Announcement, category string) []Announcement {
	if category == "" {
		return items
	}
	out := make([]Announcement, 0, len(items))
	for _, a := range items {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}
