package console

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/acml/acmlctl/internal/session"
)

type row struct {
	ID   string
	Name string
}

func rowID(r row) string { return r.ID }

func staticFetch(rows []row, err error) func(ctx context.Context) ([]row, error) {
	return func(ctx context.Context) ([]row, error) { return rows, err }
}

func TestControllerLoadReplacesList(t *testing.T) {
	c := NewController(staticFetch([]row{{ID: "a"}, {ID: "b"}}, nil), rowID)

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
}

func TestControllerLoadErrorKeepsPreviousList(t *testing.T) {
	c := NewController(staticFetch([]row{{ID: "a"}}, nil), rowID)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	c.fetch = staticFetch(nil, errors.New("boom"))
	if err := c.Load(context.Background()); err == nil {
		t.Fatal("Load() should surface the fetch error")
	}
	if c.Len() != 1 {
		t.Errorf("Len() after failed load = %d, want 1 (previous list kept)", c.Len())
	}
}

func TestApplySavedSplicesById(t *testing.T) {
	c := NewController(staticFetch([]row{{ID: "a", Name: "old"}, {ID: "b"}}, nil), rowID)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Existing id replaced in place.
	c.ApplySaved(row{ID: "a", Name: "new"})
	items := c.Items()
	if len(items) != 2 {
		t.Fatalf("Len() = %d, want 2 after replace", len(items))
	}
	if items[0].Name != "new" {
		t.Errorf("items[0].Name = %q, want %q", items[0].Name, "new")
	}

	// New id appended.
	c.ApplySaved(row{ID: "c"})
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3 after append", c.Len())
	}

	// Idempotent.
	c.ApplySaved(row{ID: "c"})
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3 after duplicate apply", c.Len())
	}
}

func TestRemove(t *testing.T) {
	c := NewController(staticFetch([]row{{ID: "a"}, {ID: "b"}, {ID: "c"}}, nil), rowID)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	c.Remove("b")
	items := c.Items()
	if len(items) != 2 || items[0].ID != "a" || items[1].ID != "c" {
		t.Errorf("Items() after Remove = %v, want [a c]", items)
	}

	c.Remove("missing")
	if c.Len() != 2 {
		t.Errorf("Len() after removing unknown id = %d, want 2", c.Len())
	}
}

func TestFilter(t *testing.T) {
	c := NewController(staticFetch([]row{{ID: "a", Name: "x"}, {ID: "b", Name: "y"}}, nil), rowID)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	got := c.Filter(func(r row) bool { return r.Name == "y" })
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("Filter() = %v, want [b]", got)
	}
}

func TestLoadPairDegradesOnSingleFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var firstLoaded bool
	err := LoadPair(context.Background(), logger, map[string]func(ctx context.Context) error{
		"courses":  func(ctx context.Context) error { firstLoaded = true; return nil },
		"students": func(ctx context.Context) error { return errors.New("boom") },
	})
	if err != nil {
		t.Fatalf("LoadPair() with one failure should degrade, got %v", err)
	}
	if !firstLoaded {
		t.Error("surviving load did not run")
	}
}

func TestLoadPairFailsWhenBothFail(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := LoadPair(context.Background(), logger, map[string]func(ctx context.Context) error{
		"campaigns": func(ctx context.Context) error { return errors.New("boom") },
		"donations": func(ctx context.Context) error { return errors.New("boom") },
	})
	if err == nil {
		t.Fatal("LoadPair() should fail when every load fails")
	}
}

func TestGuard(t *testing.T) {
	mgr, err := session.NewManager(session.NewMemoryBackend())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	g := NewGuard(mgr)

	if _, err := g.Require(); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("Require() without session error = %v, want %v", err, ErrNotLoggedIn)
	}

	if err := mgr.SetAuth("tok", session.User{ID: "u1", Username: "amina"}); err != nil {
		t.Fatalf("SetAuth() error = %v", err)
	}
	u, err := g.Require()
	if err != nil {
		t.Fatalf("Require() error = %v", err)
	}
	if u.Username != "amina" {
		t.Errorf("user = %q, want amina", u.Username)
	}

	if _, err := g.RequireStaff(); !errors.Is(err, ErrStaffRequired) {
		t.Errorf("RequireStaff() for non-staff error = %v, want %v", err, ErrStaffRequired)
	}

	if err := mgr.SetAuth("tok", session.User{ID: "u1", Username: "amina", IsStaff: true}); err != nil {
		t.Fatalf("SetAuth() error = %v", err)
	}
	if _, err := g.RequireStaff(); err != nil {
		t.Errorf("RequireStaff() for staff error = %v", err)
	}

	if err := mgr.Logout(); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := g.Require(); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("Require() after logout error = %v, want %v", err, ErrNotLoggedIn)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"o\n", true},
		{"oui\n", true},
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out strings.Builder
		if got := Confirm(strings.NewReader(tt.input), &out, "Supprimer ?"); got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
