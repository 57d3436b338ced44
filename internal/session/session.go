// Package session owns the console's authentication lifecycle: the
// persisted token, the resolved identity, and the transitions between
// loading, unauthenticated and authenticated.
package session

import (
	"context"
	"sync"

	"github.com/SohamKamathi18/synaphack/internal/logger"
	"github.com/SohamKamathi18/synaphack/pkg/hackapi"
)

// Status is the session state. Exactly one status holds at any time.
type Status int

const (
	// Loading means the startup identity check has not resolved yet.
	Loading Status = iota
	// Unauthenticated means no token is held, or the last resolution failed.
	Unauthenticated
	// Authenticated means a token is held and identity resolution succeeded.
	Authenticated
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	}
	return "unknown"
}

// Snapshot is an immutable view of the session at one point in time.
type Snapshot struct {
	Status Status
	User   *hackapi.User
}

// TokenStore is the persistence the manager needs.
type TokenStore interface {
	SaveToken(ctx context.Context, token string) error
	LoadToken(ctx context.Context) (string, error)
	ClearToken(ctx context.Context) error
}

// Broadcaster is notified on every session transition.
type Broadcaster interface {
	BroadcastSessionStatus(status string)
}

// Manager drives the session state machine. It is the only component
// that configures or clears the API client's bearer token.
//
// Concurrent logins are not serialized: whichever response is applied
// last determines the final state. The mutex keeps each transition
// atomic, not ordered.
type Manager struct {
	log         logger.Logger
	store       TokenStore
	client      hackapi.Client
	broadcaster Broadcaster

	mu     sync.RWMutex
	status Status
	user   *hackapi.User
}

// New creates a Manager in the Loading state.
func New(log logger.Logger, store TokenStore, client hackapi.Client) *Manager {
	return &Manager{
		log:    log,
		store:  store,
		client: client,
		status: Loading,
	}
}

// SetBroadcaster sets the broadcaster notified on transitions.
func (m *Manager) SetBroadcaster(b Broadcaster) {
	m.broadcaster = b
}

// Start performs the startup session check: restore the persisted token
// and resolve the identity behind it. A failed resolution is normal
// session-expiry handling, not an error worth surfacing, so it is
// swallowed after cleanup.
func (m *Manager) Start(ctx context.Context) {
	token, err := m.store.LoadToken(ctx)
	if err != nil {
		m.log.Warn("failed to read persisted token", "error", err)
		m.transition(Unauthenticated, nil)
		return
	}
	if token == "" {
		m.transition(Unauthenticated, nil)
		return
	}

	m.client.SetToken(token)
	user, err := m.client.Me(ctx)
	if err != nil {
		m.log.Debug("stored session is no longer valid", "error", err)
		m.discardToken(ctx)
		m.transition(Unauthenticated, nil)
		return
	}

	m.log.Info("session restored", "email", user.Email, "role", user.Role)
	m.transition(Authenticated, user)
}

// Login exchanges credentials for a session. On failure the backend
// error is returned unchanged and nothing else changes.
func (m *Manager) Login(ctx context.Context, email, password string) (*hackapi.User, error) {
	result, err := m.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := m.store.SaveToken(ctx, result.AccessToken); err != nil {
		// Persistence trouble must not fail the login itself
		m.log.Warn("failed to persist session token", "error", err)
	}
	m.client.SetToken(result.AccessToken)

	user := result.User
	m.transition(Authenticated, &user)
	m.log.Info("logged in", "email", user.Email, "role", user.Role)
	return &user, nil
}

// Register creates an account. Registration never changes session state:
// the new account still has to log in.
func (m *Manager) Register(ctx context.Context, email, name, password string, role hackapi.Role) (*hackapi.User, error) {
	return m.client.Register(ctx, email, name, password, role)
}

// Logout tears the session down locally. It always succeeds from the
// caller's perspective.
func (m *Manager) Logout(ctx context.Context) {
	m.discardToken(ctx)
	m.transition(Unauthenticated, nil)
	m.log.Info("logged out")
}

// Snapshot returns the current session state. The returned user is a
// copy; callers cannot mutate the session through it.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{Status: m.status}
	if m.user != nil {
		user := *m.user
		snap.User = &user
	}
	return snap
}

func (m *Manager) discardToken(ctx context.Context) {
	if err := m.store.ClearToken(ctx); err != nil {
		m.log.Warn("failed to clear persisted token", "error", err)
	}
	m.client.ClearToken()
}

func (m *Manager) transition(status Status, user *hackapi.User) {
	m.mu.Lock()
	m.status = status
	m.user = user
	m.mu.Unlock()

	if m.broadcaster != nil {
		m.broadcaster.BroadcastSessionStatus(status.String())
	}
}
