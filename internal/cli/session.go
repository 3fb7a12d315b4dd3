/**
 * @description
 * This package implements the interactive workflows of the pixhub terminal
 * client: holding the signed-in identity, submitting transfers and working
 * the fraud review queue. The workflows hold the view state and talk to the
 * backend through small interfaces so the screens stay presentational and
 * the logic stays testable without a running server.
 *
 * @dependencies
 * - github.com/pixhub/pixhub/internal/domain: Shared wire types.
 */

package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/pixhub/pixhub/internal/domain"
)

// Route identifies a screen of the terminal client.
type Route string

const (
	RouteLogin            Route = "login"
	RouteCustomerHome     Route = "customer_home"
	RouteTransfer         Route = "transfer"
	RouteAnalystDashboard Route = "analyst_dashboard"
)

// Navigator moves the client between screens.
type Navigator interface {
	Navigate(route Route)
}

// Notifier surfaces outcome messages to the user.
type Notifier interface {
	Success(message string)
	Error(message string)
	Info(message string)
}

// Authenticator verifies credentials against the backend and returns a
// session on success.
type Authenticator interface {
	Login(ctx context.Context, taxID, password string) (domain.Session, error)
}

// Credentials are the demo sign-in values for one role. They come from
// configuration, never from source code.
type Credentials struct {
	TaxID    string
	Password string
}

// SessionManager holds the active identity. Every other workflow reads the
// identity through it and never mutates it.
type SessionManager struct {
	mu          sync.Mutex
	auth        Authenticator
	navigator   Navigator
	notifier    Notifier
	credentials map[domain.Role]Credentials
	current     *domain.Session
}

// NewSessionManager creates a session holder wired to the given collaborators.
func NewSessionManager(auth Authenticator, navigator Navigator, notifier Notifier, credentials map[domain.Role]Credentials) *SessionManager {
	return &SessionManager{
		auth:        auth,
		navigator:   navigator,
		notifier:    notifier,
		credentials: credentials,
	}
}

// Login signs in as the demo identity for the given role. The credentials are
// verified by the backend; a rejected or unreachable login leaves the client
// signed out.
func (s *SessionManager) Login(ctx context.Context, role domain.Role) error {
	creds, ok := s.credentials[role]
	if !ok {
		err := fmt.Errorf("no credentials configured for role %q", role)
		s.notifier.Error("Perfil de demonstração indisponível.")
		return err
	}

	session, err := s.auth.Login(ctx, creds.TaxID, creds.Password)
	if err != nil {
		s.notifier.Error("Não foi possível entrar. Verifique as credenciais e tente novamente.")
		return err
	}

	s.mu.Lock()
	s.current = &session
	s.mu.Unlock()

	switch role {
	case domain.RoleAnalyst:
		s.navigator.Navigate(RouteAnalystDashboard)
	default:
		s.navigator.Navigate(RouteCustomerHome)
	}
	return nil
}

// Logout clears the active identity and returns to the entry screen.
func (s *SessionManager) Logout() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	s.navigator.Navigate(RouteLogin)
}

// Current returns the active profile. The second return value is false when
// nobody is signed in; callers must treat that as a precondition failure and
// render a placeholder instead of proceeding.
func (s *SessionManager) Current() (domain.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.Profile{}, false
	}
	return s.current.Profile, true
}
