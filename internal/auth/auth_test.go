package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/acml/acmlctl/internal/apitest"
	"github.com/acml/acmlctl/internal/gateway"
	"github.com/acml/acmlctl/internal/session"
)

func newService(t *testing.T) (*Service, *session.Manager, *apitest.Server) {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)

	mgr, err := session.NewManager(session.NewMemoryBackend())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	gw := gateway.New(srv.URL(), mgr, 5*time.Second)
	return NewService(gw, mgr), mgr, srv
}

func TestLoginStoresSession(t *testing.T) {
	svc, mgr, srv := newService(t)

	u, err := svc.Login(context.Background(), apitest.Username, apitest.Password)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if u.Username != apitest.Username {
		t.Errorf("user = %q, want %q", u.Username, apitest.Username)
	}
	if mgr.Token() != srv.Token() {
		t.Error("session token does not match the one issued by the server")
	}
	if cur := mgr.CurrentUser(); cur == nil || cur.Username != apitest.Username {
		t.Errorf("CurrentUser() = %v, want the logged-in user", cur)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	svc, mgr, _ := newService(t)

	_, err := svc.Login(context.Background(), apitest.Username, "wrong-password")
	if err == nil {
		t.Fatal("Login() with bad credentials should fail")
	}
	var apiErr *gateway.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %v is not an API error", err)
	}
	if !strings.Contains(apiErr.Detail, "Unable to log in") {
		t.Errorf("detail = %q, want the server's credential message", apiErr.Detail)
	}
	if mgr.CurrentUser() != nil {
		t.Error("failed login must not leave a session behind")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	svc, mgr, _ := newService(t)

	if _, err := svc.Login(context.Background(), apitest.Username, apitest.Password); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if err := svc.Logout(); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if mgr.CurrentUser() != nil {
		t.Error("session still present after logout")
	}
	if mgr.Token() != "" {
		t.Error("token still present after logout")
	}
}

func TestAuthenticatedRequestAfterLogin(t *testing.T) {
	svc, mgr, srv := newService(t)

	gw := gateway.New(srv.URL(), mgr, 5*time.Second)

	// Before login, protected resources answer 401.
	var out []map[string]any
	err := gw.Get(context.Background(), "/events/events/", &out)
	if !errors.Is(err, gateway.ErrUnauthorized) {
		t.Fatalf("pre-login error = %v, want %v", err, gateway.ErrUnauthorized)
	}

	if _, err := svc.Login(context.Background(), apitest.Username, apitest.Password); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if err := gw.Get(context.Background(), "/events/events/", &out); err != nil {
		t.Fatalf("post-login request error = %v", err)
	}
}
