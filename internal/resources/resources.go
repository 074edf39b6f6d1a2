// Package resources manages shared resources (rooms, equipment, vehicles)
// and their reservations.
package resources

import (
	"context"

	"github.com/acml/acmlctl/internal/gateway"
)

// Resource types.
const (
	TypeRoom      = "ROOM"
	TypeEquipment = "EQUIPMENT"
	TypeVehicle   = "VEHICLE"
	TypeOther     = "OTHER"
)

// Reservation statuses.
const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

// Resource is a bookable asset of the organization.
type Resource struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity,omitempty"`
	IsAvailable bool   `json:"is_available"`
}

// Reservation is a booking of a resource over a time window.
type Reservation struct {
	ID        string `json:"id"`
	Resource  string `json:"resource"`
	Member    string `json:"member,omitempty"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status"`
	Notes     string `json:"notes"`
}

// ResourceInput is the create/update payload for a resource.
type ResourceInput struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity,omitempty"`
	IsAvailable bool   `json:"is_available"`
}

// ReservationInput is the create/update payload for a reservation.
type ReservationInput struct {
	Resource  string `json:"resource"`
	Member    string `json:"member,omitempty"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// Service provides resource and reservation operations over the API gateway.
type Service struct {
	gw *gateway.Client
}

// NewService creates a resource service.
func NewService(gw *gateway.Client) *Service {
	return &Service{gw: gw}
}

// ListResources fetches all resources.
func (s *Service) ListResources(ctx context.Context) ([]Resource, error) {
	var out []Resource
	if err := s.gw.Get(ctx, "/resources/resources/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateResource posts a new resource and returns the server's copy.
func (s *Service) CreateResource(ctx context.Context, in ResourceInput) (*Resource, error) {
	var out Resource
	if err := s.gw.Post(ctx, "/resources/resources/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateResource replaces a resource.
func (s *Service) UpdateResource(ctx context.Context, id string, in ResourceInput) (*Resource, error) {
	var out Resource
	if err := s.gw.Put(ctx, "/resources/resources/"+id+"/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteResource removes a resource.
func (s *Service) DeleteResource(ctx context.Context, id string) error {
	return s.gw.Delete(ctx, "/resources/resources/"+id+"/")
}

// ListReservations fetches all reservations.
func (s *Service) ListReservations(ctx context.Context) ([]Reservation, error) {
	var out []Reservation
	if err := s.gw.Get(ctx, "/resources/reservations/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateReservation books a resource. New reservations land in PENDING.
func (s *Service) CreateReservation(ctx context.Context, in ReservationInput) (*Reservation, error) {
	var out Reservation
	if err := s.gw.Post(ctx, "/resources/reservations/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateReservation replaces a reservation; status transitions
// (approve, reject, cancel) go through here.
func (s *Service) UpdateReservation(ctx context.Context, id string, in ReservationInput) (*Reservation, error) {
	var out Reservation
	if err := s.gw.Put(ctx, "/resources/reservations/"+id+"/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteReservation removes a reservation.
func (s *Service) DeleteReservation(ctx context.Context, id string) error {
	return s.gw.Delete(ctx, "/resources/reservations/"+id+"/")
}
