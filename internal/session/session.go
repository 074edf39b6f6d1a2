// Package session is the single source of truth for "is a user logged in and
// who are they". It never performs network calls; it is pure state plus a
// pluggable persistence backend.
package session

import (
	"fmt"
	"sync"
)

// User is the authenticated member profile cached alongside the token.
type User struct {
	ID                 string `json:"id"`
	Username           string `json:"username"`
	Email              string `json:"email"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	IsStaff            bool   `json:"is_staff"`
	MustChangePassword bool   `json:"must_change_password"`
}

// FullName returns the display name for the user.
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	return u.FirstName + " " + u.LastName
}

// Session pairs the opaque bearer token with its user profile.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Backend persists a single session across process restarts.
type Backend interface {
	Save(s Session) error
	Load() (*Session, error) // nil, nil when no session is stored
	Clear() error
}

// Manager holds the current session in memory and mirrors every change to
// the backend before returning. It is safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	backend Backend
	current *Session
}

// NewManager creates a manager and restores any persisted session.
func NewManager(backend Backend) (*Manager, error) {
	s, err := backend.Load()
	if err != nil {
		return nil, fmt.Errorf("restoring session: %w", err)
	}
	return &Manager{backend: backend, current: s}, nil
}

// SetAuth stores the token and user profile durably and in memory.
func (m *Manager) SetAuth(token string, user User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Session{Token: token, User: user}
	if err := m.backend.Save(s); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}
	m.current = &s
	return nil
}

// Logout clears the persisted token and user synchronously. After it
// returns, route evaluation must treat the session as absent.
func (m *Manager) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.backend.Clear(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	m.current = nil
	return nil
}

// CurrentUser returns the cached profile, or nil when logged out.
func (m *Manager) CurrentUser() *User {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return nil
	}
	u := m.current.User
	return &u
}

// Token returns the bearer token, or "" when logged out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return ""
	}
	return m.current.Token
}
