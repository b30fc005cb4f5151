package client

import (
	"context"
	"net/http"
	"sync"

	"mindnest/internal/api"
)

type State int

const (
	StateLoading State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "loading"
	}
}

// Session is the auth gate. It starts in StateLoading until Check, Login
// or Register settles it.
type Session struct {
	c *Client

	mu      sync.RWMutex
	state   State
	profile *api.Profile
}

func NewSession(c *Client) *Session {
	return &Session{c: c, state: StateLoading}
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Profile is nil unless authenticated.
func (s *Session) Profile() *api.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

func (s *Session) set(state State, p *api.Profile) {
	s.mu.Lock()
	s.state = state
	s.profile = p
	s.mu.Unlock()
}

// Check validates the current token against /me. A 401 settles the gate
// as unauthenticated; transport errors leave it unchanged.
func (s *Session) Check(ctx context.Context) (State, error) {
	if s.c.Token() == "" {
		s.set(StateUnauthenticated, nil)
		return StateUnauthenticated, nil
	}

	var p api.Profile
	err := s.c.do(ctx, http.MethodGet, "/me", nil, nil, &p)
	if IsStatus(err, http.StatusUnauthorized) {
		s.c.SetToken("")
		s.set(StateUnauthenticated, nil)
		return StateUnauthenticated, nil
	}
	if err != nil {
		return s.State(), err
	}
	s.set(StateAuthenticated, &p)
	return StateAuthenticated, nil
}

func (s *Session) Login(ctx context.Context, email, password string) error {
	return s.authenticate(ctx, "/auth/login", api.Credentials{Email: email, Password: password})
}

func (s *Session) Register(ctx context.Context, email, password, fullName string) error {
	return s.authenticate(ctx, "/auth/register", api.Credentials{Email: email, Password: password, FullName: fullName})
}

func (s *Session) authenticate(ctx context.Context, path string, creds api.Credentials) error {
	var tok api.TokenResponse
	if err := s.c.do(ctx, http.MethodPost, path, nil, creds, &tok); err != nil {
		s.c.notify("Authentication failed", err)
		return err
	}
	s.c.SetToken(tok.Token)
	_, err := s.Check(ctx)
	return err
}

// Logout revokes the server session and clears local state even when the
// server call fails.
func (s *Session) Logout(ctx context.Context) error {
	err := s.c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
	s.c.SetToken("")
	s.set(StateUnauthenticated, nil)
	return err
}

func (s *Session) UpdateProfile(ctx context.Context, in api.ProfileUpdate) (api.Profile, error) {
	var p api.Profile
	if err := s.c.do(ctx, http.MethodPatch, "/me", nil, in, &p); err != nil {
		s.c.notify("Failed to update profile", err)
		return api.Profile{}, err
	}
	s.set(StateAuthenticated, &p)
	return p, nil
}
