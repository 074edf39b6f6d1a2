package resources

import (
	"context"
	"testing"
	"time"

	"github.com/acml/acmlctl/internal/apitest"
	"github.com/acml/acmlctl/internal/gateway"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

func newService(t *testing.T) (*Service, *apitest.Server) {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)
	gw := gateway.New(srv.URL(), staticToken(srv.Token()), 5*time.Second)
	return NewService(gw), srv
}

func TestResourceLifecycle(t *testing.T) {
	svc, srv := newService(t)

	created, err := svc.CreateResource(context.Background(), ResourceInput{
		Name:        "Salle principale",
		Type:        TypeRoom,
		Capacity:    150,
		IsAvailable: true,
	})
	if err != nil {
		t.Fatalf("CreateResource() error = %v", err)
	}
	if created.ID == "" {
		t.Fatal("CreateResource() returned record without server id")
	}

	updated, err := svc.UpdateResource(context.Background(), created.ID, ResourceInput{
		Name:        created.Name,
		Type:        created.Type,
		Capacity:    created.Capacity,
		IsAvailable: false,
	})
	if err != nil {
		t.Fatalf("UpdateResource() error = %v", err)
	}
	if updated.IsAvailable {
		t.Error("resource still available after update")
	}

	if err := svc.DeleteResource(context.Background(), created.ID); err != nil {
		t.Fatalf("DeleteResource() error = %v", err)
	}
	if srv.Count("resources/resources") != 0 {
		t.Error("resource still present after delete")
	}
}

func TestReservationStartsPendingAndTransitions(t *testing.T) {
	svc, _ := newService(t)

	room, err := svc.CreateResource(context.Background(), ResourceInput{
		Name:        "Minibus",
		Type:        TypeVehicle,
		IsAvailable: true,
	})
	if err != nil {
		t.Fatalf("CreateResource() error = %v", err)
	}

	res, err := svc.CreateReservation(context.Background(), ReservationInput{
		Resource:  room.ID,
		StartTime: "2026-09-20T09:00:00Z",
		EndTime:   "2026-09-20T17:00:00Z",
		Notes:     "Sortie scolaire",
	})
	if err != nil {
		t.Fatalf("CreateReservation() error = %v", err)
	}
	if res.Status != StatusPending {
		t.Errorf("new reservation status = %s, want %s", res.Status, StatusPending)
	}

	approved, err := svc.UpdateReservation(context.Background(), res.ID, ReservationInput{
		Resource:  res.Resource,
		StartTime: res.StartTime,
		EndTime:   res.EndTime,
		Status:    StatusApproved,
		Notes:     res.Notes,
	})
	if err != nil {
		t.Fatalf("UpdateReservation() error = %v", err)
	}
	if approved.Status != StatusApproved {
		t.Errorf("reservation status = %s, want %s", approved.Status, StatusApproved)
	}

	list, err := svc.ListReservations(context.Background())
	if err != nil {
		t.Fatalf("ListReservations() error = %v", err)
	}
	if len(list) != 1 || list[0].Status != StatusApproved {
		t.Fatalf("ListReservations() = %+v, want one approved reservation", list)
	}
}
