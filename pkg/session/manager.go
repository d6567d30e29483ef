// Package session owns the authenticated-user lifecycle for the client.
//
// Exactly one identity (or none) exists at a time. Every transition goes
// through the backend's auth API; a token that fails verification is
// dropped immediately rather than kept as stale trust.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mathevilla/mathevilla/pkg/api"
	"github.com/mathevilla/mathevilla/pkg/model"
)

// State represents the session lifecycle state.
type State int

const (
	// StateHydrating means a stored token is being exchanged for a user
	// record. Route guards render nothing conclusive while hydrating.
	StateHydrating State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateHydrating:
		return "hydrating"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Manager maintains the single authenticated identity and mediates every
// state transition through the auth API. Construct one per process and
// pass it by reference; there are no package-level globals.
type Manager struct {
	mu    sync.RWMutex
	state State
	token string
	user  *model.User
	gen   uint64 // bumped on logout so stale fetches are discarded

	api   *api.Client
	creds CredentialStore

	// OnStateChange is invoked (outside the lock) after every lifecycle
	// transition. Set before Hydrate.
	OnStateChange func(State)
}

// NewManager creates a manager in the Hydrating state. Call Hydrate once
// at startup to settle into Anonymous or Authenticated.
func NewManager(apiClient *api.Client, creds CredentialStore) *Manager {
	return &Manager{
		state: StateHydrating,
		api:   apiClient,
		creds: creds,
	}
}

// Hydrate turns a persisted token (if any) into a verified identity.
// It always settles: no stored token means Anonymous immediately; a stored
// token is verified against /api/auth/me, and any failure clears it.
func (m *Manager) Hydrate(ctx context.Context) {
	token, err := m.creds.Load()
	if err != nil {
		slog.Debug("credential load failed, starting anonymous", "err", err)
		_ = m.creds.Clear()
	}
	if token == "" {
		m.mu.Lock()
		m.state = StateAnonymous
		m.mu.Unlock()
		m.notify(StateAnonymous)
		return
	}

	m.mu.Lock()
	m.state = StateHydrating
	m.token = token
	m.mu.Unlock()
	m.api.SetToken(token)
	m.notify(StateHydrating)

	if err := m.fetchCurrentUser(ctx); err != nil {
		slog.Info("stored token rejected, session cleared", "err", err)
	}
}

// Login exchanges credentials for a session. On failure no state changes;
// the returned error carries the backend's message for the UI. No retry is
// performed.
func (m *Manager) Login(ctx context.Context, email, password string) (*model.User, error) {
	resp, err := m.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return m.establish(resp), nil
}

// Register creates an account and signs in. The grade is cleared for
// non-students before the payload leaves the client.
func (m *Manager) Register(ctx context.Context, reg model.Registration) (*model.User, error) {
	reg.Normalize()
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	resp, err := m.api.Register(ctx, reg)
	if err != nil {
		return nil, err
	}
	return m.establish(resp), nil
}

// establish stores a fresh token+user pair and moves to Authenticated.
func (m *Manager) establish(resp *api.AuthResponse) *model.User {
	user := resp.User

	if err := m.creds.Save(resp.AccessToken); err != nil {
		// The session still works for this process; it just won't survive
		// a restart.
		slog.Warn("persist token failed", "err", err)
	}
	m.api.SetToken(resp.AccessToken)

	m.mu.Lock()
	m.token = resp.AccessToken
	m.user = &user
	m.state = StateAuthenticated
	m.mu.Unlock()
	m.notify(StateAuthenticated)

	out := user
	return &out
}

// Logout clears the session. It is synchronous: when it returns, the
// durable token is gone, the bearer header is detached, and any in-flight
// user fetch that started earlier can no longer resurrect the identity.
// Logging out without a session is a no-op.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.gen++
	m.token = ""
	m.user = nil
	m.state = StateAnonymous
	m.mu.Unlock()

	if err := m.creds.Clear(); err != nil {
		slog.Warn("clear stored token failed", "err", err)
	}
	m.api.ClearToken()
	m.notify(StateAnonymous)
}

// RefreshUser re-fetches the canonical user record so server-computed
// fields (xp, level, badges) stay current. No-op without a token; a failed
// fetch is an implicit logout.
func (m *Manager) RefreshUser(ctx context.Context) error {
	m.mu.RLock()
	token := m.token
	m.mu.RUnlock()
	if token == "" {
		return nil
	}
	return m.fetchCurrentUser(ctx)
}

// fetchCurrentUser exchanges the current token for the user record.
// Any failure is treated as an implicit logout: an unverifiable token must
// never continue to grant access. A response that arrives after Logout is
// discarded via the generation marker.
func (m *Manager) fetchCurrentUser(ctx context.Context) error {
	m.mu.RLock()
	gen := m.gen
	m.mu.RUnlock()

	user, err := m.api.Me(ctx)

	m.mu.Lock()
	if m.gen != gen {
		// Logged out while the fetch was in flight; the result is stale
		// either way.
		m.mu.Unlock()
		return nil
	}
	if err != nil {
		m.gen++
		m.token = ""
		m.user = nil
		m.state = StateAnonymous
		m.mu.Unlock()

		if cerr := m.creds.Clear(); cerr != nil {
			slog.Warn("clear stored token failed", "err", cerr)
		}
		m.api.ClearToken()
		m.notify(StateAnonymous)
		return err
	}
	m.user = user
	m.state = StateAuthenticated
	m.mu.Unlock()
	m.notify(StateAuthenticated)
	return nil
}

// UserPatch is a partial user record for optimistic local updates.
// Nil fields are left untouched.
type UserPatch struct {
	Name   *string
	Grade  *int
	XP     *int
	Level  *int
	Badges []string
}

// UpdateUser shallow-merges a patch into the cached user without a network
// round trip. Divergence from the backend is corrected by the next
// RefreshUser. No-op while unauthenticated.
func (m *Manager) UpdateUser(patch UserPatch) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return
	}
	if patch.Name != nil {
		m.user.Name = *patch.Name
	}
	if patch.Grade != nil {
		m.user.Grade = patch.Grade
	}
	if patch.XP != nil {
		m.user.XP = *patch.XP
	}
	if patch.Level != nil {
		m.user.Level = *patch.Level
	}
	if patch.Badges != nil {
		m.user.Badges = append([]string(nil), patch.Badges...)
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// User returns a copy of the cached user, or nil when unauthenticated.
func (m *Manager) User() *model.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	out := *m.user
	out.Badges = append([]string(nil), m.user.Badges...)
	return &out
}

// Token returns the current bearer token, or "".
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// IsAuthenticated reports whether a verified user is present.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil
}

// IsAdmin reports whether the current user is an admin.
func (m *Manager) IsAdmin() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user.IsAdmin()
}

// IsStudent reports whether the current user is a student.
func (m *Manager) IsStudent() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user.IsStudent()
}

func (m *Manager) notify(state State) {
	if m.OnStateChange != nil {
		m.OnStateChange(state)
	}
}
