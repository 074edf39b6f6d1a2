// Package events manages community events and their lifecycle.
package events

import (
	"context"

	"github.com/acml/acmlctl/internal/gateway"
)

// Event statuses.
const (
	StatusDraft     = "DRAFT"
	StatusOpen      = "OPEN"
	StatusClosed    = "CLOSED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

// Event is a scheduled community event.
type Event struct {
	ID                   string `json:"id"`
	Title                string `json:"title"`
	Description          string `json:"description"`
	StartTime            string `json:"start_time"`
	EndTime              string `json:"end_time"`
	Location             string `json:"location"`
	MaxCapacity          int    `json:"max_capacity"`
	CurrentRegistrations int    `json:"current_registrations"`
	Status               string `json:"status"`
	ImageConsentRequired bool   `json:"image_consent_required"`
	CreatedAt            string `json:"created_at"`
}

// EventInput is the create/update payload. Registration counts are
// server-owned and never submitted.
type EventInput struct {
	Title                string `json:"title"`
	Description          string `json:"description"`
	StartTime            string `json:"start_time"`
	EndTime              string `json:"end_time"`
	Location             string `json:"location"`
	MaxCapacity          int    `json:"max_capacity"`
	Status               string `json:"status"`
	ImageConsentRequired bool   `json:"image_consent_required"`
}

// IsFull reports whether the event has reached its capacity. A zero
// capacity means unlimited.
func (e Event) IsFull() bool {
	return e.MaxCapacity > 0 && e.CurrentRegistrations >= e.MaxCapacity
}

// Service provides event operations over the API gateway.
type Service struct {
	gw *gateway.Client
}

// NewService creates an event service.
func NewService(gw *gateway.Client) *Service {
	return &Service{gw: gw}
}

// List fetches all events.
func (s *Service) List(ctx context.Context) ([]Event, error) {
	var out []Event
	if err := s.gw.Get(ctx, "/events/events/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one event.
func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	var out Event
	if err := s.gw.Get(ctx, "/events/events/"+id+"/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create posts a new event and returns the server's copy.
func (s *Service) Create(ctx context.Context, in EventInput) (*Event, error) {
	var out Event
	if err := s.gw.Post(ctx, "/events/events/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces an event.
func (s *Service) Update(ctx context.Context, id string, in EventInput) (*Event, error) {
	var out Event
	if err := s.gw.Put(ctx, "/events/events/"+id+"/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes an event.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.gw.Delete(ctx, "/events/events/"+id+"/")
}
