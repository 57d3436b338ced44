package session_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/SohamKamathi18/synaphack/internal/logger"
	"github.com/SohamKamathi18/synaphack/internal/session"
	"github.com/SohamKamathi18/synaphack/internal/store"
	"github.com/SohamKamathi18/synaphack/pkg/hackapi"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "console.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestManager_InitialStateIsLoading(t *testing.T) {
	m := session.New(logger.Noop{}, newTestStore(t), hackapi.NewMockClient())

	snap := m.Snapshot()
	if snap.Status != session.Loading {
		t.Errorf("expected Loading before Start, got %v", snap.Status)
	}
	if snap.User != nil {
		t.Errorf("expected no user before Start, got %+v", snap.User)
	}
}

func TestManager_Start_NoToken(t *testing.T) {
	client := hackapi.NewMockClient()
	m := session.New(logger.Noop{}, newTestStore(t), client)

	m.Start(context.Background())

	if snap := m.Snapshot(); snap.Status != session.Unauthenticated {
		t.Errorf("expected Unauthenticated, got %v", snap.Status)
	}
	// Without a token the identity endpoint must not be called
	if client.MeCalls() != 0 {
		t.Errorf("expected no Me calls, got %d", client.MeCalls())
	}
}

func TestManager_Start_ValidToken(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.SaveToken(ctx, "tok-persisted")

	client := hackapi.NewMockClient(hackapi.WithUser(hackapi.User{
		ID: "u1", Email: "a@b.com", Name: "Alice", Role: hackapi.RoleOrganizer,
	}))
	m := session.New(logger.Noop{}, s, client)

	m.Start(ctx)

	snap := m.Snapshot()
	if snap.Status != session.Authenticated {
		t.Fatalf("expected Authenticated, got %v", snap.Status)
	}
	if snap.User == nil || snap.User.Email != "a@b.com" {
		t.Errorf("expected resolved user, got %+v", snap.User)
	}

	// Token stays persisted and configured on the client
	if token, _ := s.LoadToken(ctx); token != "tok-persisted" {
		t.Errorf("expected token to remain persisted, got %q", token)
	}
	if client.Token() != "tok-persisted" {
		t.Errorf("expected client token configured, got %q", client.Token())
	}
}

func TestManager_Start_StaleToken(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.SaveToken(ctx, "tok-expired")

	// Mock without a configured user rejects Me with 401
	client := hackapi.NewMockClient()
	m := session.New(logger.Noop{}, s, client)

	m.Start(ctx)

	if snap := m.Snapshot(); snap.Status != session.Unauthenticated {
		t.Errorf("expected Unauthenticated after failed resolution, got %v", snap.Status)
	}
	if token, _ := s.LoadToken(ctx); token != "" {
		t.Errorf("expected store cleared after failed resolution, got %q", token)
	}
	if client.Token() != "" {
		t.Errorf("expected client token cleared, got %q", client.Token())
	}
}

func TestManager_Start_NetworkFailureForcesLogout(t *testing.T) {
	// Network-unreachable is treated like any other resolution failure
	ctx := context.Background()
	s := newTestStore(t)
	s.SaveToken(ctx, "tok-unreachable")

	client := hackapi.NewMockClient(
		hackapi.WithUser(hackapi.User{ID: "u1"}),
		hackapi.WithMeError(&hackapi.APIError{Detail: "connection refused"}),
	)
	m := session.New(logger.Noop{}, s, client)

	m.Start(ctx)

	if snap := m.Snapshot(); snap.Status != session.Unauthenticated {
		t.Errorf("expected Unauthenticated, got %v", snap.Status)
	}
	if token, _ := s.LoadToken(ctx); token != "" {
		t.Errorf("expected store cleared, got %q", token)
	}
}

func TestManager_Login_Success(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	client := hackapi.NewMockClient(hackapi.WithLoginResult(hackapi.LoginResult{
		AccessToken: "tok-fresh",
		User:        hackapi.User{ID: "u2", Email: "a@b.com", Name: "Alice", Role: hackapi.RoleJudge},
	}))
	m := session.New(logger.Noop{}, s, client)
	m.Start(ctx)

	user, err := m.Login(ctx, "a@b.com", "pw")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.Role != hackapi.RoleJudge {
		t.Errorf("expected judge role, got %q", user.Role)
	}

	snap := m.Snapshot()
	if snap.Status != session.Authenticated {
		t.Errorf("expected Authenticated, got %v", snap.Status)
	}
	if token, _ := s.LoadToken(ctx); token != "tok-fresh" {
		t.Errorf("expected token persisted, got %q", token)
	}
	if client.Token() != "tok-fresh" {
		t.Errorf("expected client token configured, got %q", client.Token())
	}
}

func TestManager_Login_Failure(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	apiErr := &hackapi.APIError{Status: 401, Detail: "Invalid credentials"}
	client := hackapi.NewMockClient(hackapi.WithLoginError(apiErr))
	m := session.New(logger.Noop{}, s, client)
	m.Start(ctx)

	_, err := m.Login(ctx, "a@b.com", "wrong")
	if err == nil {
		t.Fatal("expected login error")
	}

	// The backend error propagates unchanged
	var got *hackapi.APIError
	if !errors.As(err, &got) || got.Detail != "Invalid credentials" {
		t.Errorf("expected APIError with backend detail, got %v", err)
	}

	if snap := m.Snapshot(); snap.Status != session.Unauthenticated {
		t.Errorf("expected state unchanged (Unauthenticated), got %v", snap.Status)
	}
	if token, _ := s.LoadToken(ctx); token != "" {
		t.Errorf("expected store untouched, got %q", token)
	}
}

func TestManager_Register_DoesNotChangeState(t *testing.T) {
	ctx := context.Background()
	client := hackapi.NewMockClient()
	m := session.New(logger.Noop{}, newTestStore(t), client)
	m.Start(ctx)

	user, err := m.Register(ctx, "new@b.com", "Newbie", "pw", hackapi.RoleParticipant)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "new@b.com" {
		t.Errorf("expected created user back, got %+v", user)
	}

	// Registration does not imply login
	if snap := m.Snapshot(); snap.Status != session.Unauthenticated {
		t.Errorf("expected Unauthenticated after register, got %v", snap.Status)
	}
}

func TestManager_Register_FailurePropagates(t *testing.T) {
	apiErr := &hackapi.APIError{Status: 400, Detail: "Email already registered"}
	client := hackapi.NewMockClient(hackapi.WithRegisterError(apiErr))
	m := session.New(logger.Noop{}, newTestStore(t), client)

	_, err := m.Register(context.Background(), "dup@b.com", "Dup", "pw", hackapi.RoleJudge)

	var got *hackapi.APIError
	if !errors.As(err, &got) || got.Detail != "Email already registered" {
		t.Errorf("expected APIError with backend detail, got %v", err)
	}
}

func TestManager_Logout(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.SaveToken(ctx, "tok-live")
	client := hackapi.NewMockClient(hackapi.WithUser(hackapi.User{ID: "u1", Role: hackapi.RoleParticipant}))
	m := session.New(logger.Noop{}, s, client)
	m.Start(ctx)

	if snap := m.Snapshot(); snap.Status != session.Authenticated {
		t.Fatalf("precondition: expected Authenticated, got %v", snap.Status)
	}

	m.Logout(ctx)

	snap := m.Snapshot()
	if snap.Status != session.Unauthenticated {
		t.Errorf("expected Unauthenticated, got %v", snap.Status)
	}
	if snap.User != nil {
		t.Errorf("expected user cleared, got %+v", snap.User)
	}
	if token, _ := s.LoadToken(ctx); token != "" {
		t.Errorf("expected store cleared, got %q", token)
	}
	if client.Token() != "" {
		t.Errorf("expected no bearer token on client, got %q", client.Token())
	}
}

func TestManager_Logout_WhenAlreadyUnauthenticated(t *testing.T) {
	ctx := context.Background()
	m := session.New(logger.Noop{}, newTestStore(t), hackapi.NewMockClient())
	m.Start(ctx)

	// Always succeeds regardless of prior state
	m.Logout(ctx)
	if snap := m.Snapshot(); snap.Status != session.Unauthenticated {
		t.Errorf("expected Unauthenticated, got %v", snap.Status)
	}
}

// failingStore simulates persistence trouble on every operation.
type failingStore struct{ err error }

func (f failingStore) SaveToken(ctx context.Context, token string) error { return f.err }
func (f failingStore) LoadToken(ctx context.Context) (string, error)     { return "", f.err }
func (f failingStore) ClearToken(ctx context.Context) error              { return f.err }

func TestManager_Login_PersistenceErrorDoesNotFailLogin(t *testing.T) {
	client := hackapi.NewMockClient(hackapi.WithLoginResult(hackapi.LoginResult{
		AccessToken: "tok",
		User:        hackapi.User{ID: "u1", Role: hackapi.RoleOrganizer},
	}))
	m := session.New(logger.Noop{}, failingStore{err: errors.New("disk full")}, client)

	user, err := m.Login(context.Background(), "a@b.com", "pw")
	if err != nil {
		t.Fatalf("expected login to succeed despite persistence failure, got %v", err)
	}
	if user == nil {
		t.Fatal("expected user")
	}
	if snap := m.Snapshot(); snap.Status != session.Authenticated {
		t.Errorf("expected Authenticated, got %v", snap.Status)
	}
}

func TestManager_Start_StoreReadErrorEndsUnauthenticated(t *testing.T) {
	m := session.New(logger.Noop{}, failingStore{err: errors.New("corrupt db")}, hackapi.NewMockClient())

	m.Start(context.Background())
	if snap := m.Snapshot(); snap.Status != session.Unauthenticated {
		t.Errorf("expected Unauthenticated, got %v", snap.Status)
	}
}

// recordingBroadcaster captures session status notifications.
type recordingBroadcaster struct{ statuses []string }

func (r *recordingBroadcaster) BroadcastSessionStatus(status string) {
	r.statuses = append(r.statuses, status)
}

func TestManager_BroadcastsTransitions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	client := hackapi.NewMockClient(hackapi.WithLoginResult(hackapi.LoginResult{
		AccessToken: "tok",
		User:        hackapi.User{ID: "u1"},
	}))
	m := session.New(logger.Noop{}, s, client)

	b := &recordingBroadcaster{}
	m.SetBroadcaster(b)

	m.Start(ctx)
	m.Login(ctx, "a@b.com", "pw")
	m.Logout(ctx)

	want := []string{"unauthenticated", "authenticated", "unauthenticated"}
	if len(b.statuses) != len(want) {
		t.Fatalf("expected %d broadcasts, got %v", len(want), b.statuses)
	}
	for i, status := range want {
		if b.statuses[i] != status {
			t.Errorf("broadcast %d: expected %q, got %q", i, status, b.statuses[i])
		}
	}
}

func TestManager_SnapshotUserIsACopy(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.SaveToken(ctx, "tok")
	client := hackapi.NewMockClient(hackapi.WithUser(hackapi.User{ID: "u1", Name: "Alice"}))
	m := session.New(logger.Noop{}, s, client)
	m.Start(ctx)

	snap := m.Snapshot()
	snap.User.Name = "Mallory"

	if m.Snapshot().User.Name != "Alice" {
		t.Error("expected snapshot mutation not to affect the session")
	}
}
