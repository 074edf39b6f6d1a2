// Package console holds the pieces shared by every page of the admin
// console: the session guard and the generic list controller.
package console

import (
	"errors"

	"github.com/acml/acmlctl/internal/session"
)

// ErrNotLoggedIn is returned by the guard when no session exists.
var ErrNotLoggedIn = errors.New("aucune session active: exécutez 'acmlctl login'")

// ErrStaffRequired is returned when the session user lacks staff rights.
var ErrStaffRequired = errors.New("cette opération requiert un compte administrateur")

// Guard gates protected commands on the presence of a session. Token
// validity is not checked here; an expired token surfaces as a 401 on the
// next request.
type Guard struct {
	sessions *session.Manager
}

// NewGuard creates a guard over the session manager.
func NewGuard(sessions *session.Manager) *Guard {
	return &Guard{sessions: sessions}
}

// Require returns the current user, or ErrNotLoggedIn.
func (g *Guard) Require() (*session.User, error) {
	u := g.sessions.CurrentUser()
	if u == nil {
		return nil, ErrNotLoggedIn
	}
	return u, nil
}

// RequireStaff returns the current user if they are staff.
func (g *Guard) RequireStaff() (*session.User, error) {
	u, err := g.Require()
	if err != nil {
		return nil, err
	}
	if !u.IsStaff {
		return nil, ErrStaffRequired
	}
	return u, nil
}
