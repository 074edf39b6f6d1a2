// Package auth runs the login/logout flow: exchanging credentials for a
// token and keeping the session manager in sync.
package auth

import (
	"context"
	"fmt"

	"github.com/acml/acmlctl/internal/gateway"
	"github.com/acml/acmlctl/internal/session"
)

// Service exchanges credentials against the platform and stores the result.
type Service struct {
	gw       *gateway.Client
	sessions *session.Manager
}

// NewService creates an auth service.
func NewService(gw *gateway.Client, sessions *session.Manager) *Service {
	return &Service{gw: gw, sessions: sessions}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  session.User `json:"user"`
}

// Login exchanges credentials for a token. On success the session is
// persisted before returning; credentials are never stored.
func (s *Service) Login(ctx context.Context, username, password string) (*session.User, error) {
	var resp loginResponse
	if err := s.gw.Post(ctx, "/token-auth/", loginRequest{Username: username, Password: password}, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login response carried no token")
	}
	if err := s.sessions.SetAuth(resp.Token, resp.User); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}
	u := resp.User
	return &u, nil
}

// Logout drops the session. The token is not revoked server-side; it
// simply stops being sent.
func (s *Service) Logout() error {
	return s.sessions.Logout()
}
