package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/SohamKamathi18/synaphack/internal/handlers"
	"github.com/SohamKamathi18/synaphack/internal/logger"
	"github.com/SohamKamathi18/synaphack/internal/session"
	"github.com/SohamKamathi18/synaphack/internal/store"
	"github.com/SohamKamathi18/synaphack/internal/testutil"
	"github.com/SohamKamathi18/synaphack/internal/websocket"
	"github.com/SohamKamathi18/synaphack/pkg/hackapi"
	"github.com/SohamKamathi18/synaphack/web"
)

// fixture wires a full handler stack against a mock backend.
type fixture struct {
	router   http.Handler
	client   *hackapi.MockClient
	sessions *session.Manager
	store    *store.Store
}

func newFixture(t *testing.T, opts ...hackapi.MockOption) *fixture {
	t.Helper()

	st := testutil.NewTestStore(t)
	client := hackapi.NewMockClient(opts...)
	sessions := session.New(logger.Noop{}, st, client)
	hub := websocket.New(logger.Noop{}, sessions)
	hub.Start()
	sessions.SetBroadcaster(hub)

	h, err := handlers.New(sessions, client, st, hub, web.TemplatesFS(), handlers.NewStaticServer(web.StaticFS()), logger.Noop{})
	if err != nil {
		t.Fatalf("failed to create handlers: %v", err)
	}

	return &fixture{
		router:   h.Router(),
		client:   client,
		sessions: sessions,
		store:    st,
	}
}

// authenticate persists a token and runs the startup check, which the
// mock resolves to its configured user.
func (f *fixture) authenticate(t *testing.T) {
	t.Helper()
	if err := f.store.SaveToken(context.Background(), "test-token"); err != nil {
		t.Fatalf("failed to save token: %v", err)
	}
	f.sessions.Start(context.Background())
	if f.sessions.Snapshot().Status != session.Authenticated {
		t.Fatal("fixture expected an authenticated session")
	}
}

// settle resolves the session to unauthenticated.
func (f *fixture) settle() {
	f.sessions.Start(context.Background())
}

func (f *fixture) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func organizer() hackapi.User {
	return hackapi.User{ID: "u1", Email: "org@example.com", Name: "Olive", Role: hackapi.RoleOrganizer}
}

func participant() hackapi.User {
	return hackapi.User{ID: "u2", Email: "part@example.com", Name: "Pat", Role: hackapi.RoleParticipant}
}

func judge() hackapi.User {
	return hackapi.User{ID: "u3", Email: "judge@example.com", Name: "Jules", Role: hackapi.RoleJudge}
}
