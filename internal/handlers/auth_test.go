package handlers_test

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/SohamKamathi18/synaphack/internal/session"
	"github.com/SohamKamathi18/synaphack/pkg/hackapi"
)

func TestLoginSuccessRedirectsToDashboard(t *testing.T) {
	f := newFixture(t, hackapi.WithLoginResult(hackapi.LoginResult{
		AccessToken: "granted",
		TokenType:   "bearer",
		User:        participant(),
	}))
	f.settle()

	rec := f.postForm("/login", url.Values{
		"email":    {"part@example.com"},
		"password": {"hunter2"},
	})

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("expected redirect to /dashboard, got %q", loc)
	}
	if f.sessions.Snapshot().Status != session.Authenticated {
		t.Error("expected an authenticated session after login")
	}

	// The granted token must be persisted for the next start
	token, err := f.store.LoadToken(context.Background())
	if err != nil {
		t.Fatalf("failed to read token: %v", err)
	}
	if token != "granted" {
		t.Errorf("expected persisted token %q, got %q", "granted", token)
	}
}

func TestLoginFailureShowsBackendDetail(t *testing.T) {
	f := newFixture(t, hackapi.WithLoginError(&hackapi.APIError{Status: 401, Detail: "Invalid credentials"}))
	f.settle()

	rec := f.postForm("/login", url.Values{
		"email":    {"part@example.com"},
		"password": {"wrong"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Invalid credentials") {
		t.Error("expected the backend detail verbatim")
	}
	// The typed email survives the round trip
	if !strings.Contains(body, "part@example.com") {
		t.Error("expected the email to be preserved in the form")
	}
	if f.sessions.Snapshot().Status != session.Unauthenticated {
		t.Error("expected the session to stay unauthenticated")
	}
}

func TestLoginTransportFailureShowsGenericMessage(t *testing.T) {
	f := newFixture(t, hackapi.WithLoginError(&hackapi.APIError{Status: 0, Detail: "connection refused"}))
	f.settle()

	rec := f.postForm("/login", url.Values{
		"email":    {"part@example.com"},
		"password": {"hunter2"},
	})

	if !strings.Contains(rec.Body.String(), "Cannot reach the backend") {
		t.Error("expected the transport failure message")
	}
}

func TestLoginPageRedirectsWhenAuthenticated(t *testing.T) {
	f := newFixture(t, hackapi.WithUser(participant()))
	f.authenticate(t)

	rec := f.get("/login")

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("expected redirect to /dashboard, got %q", loc)
	}
}

func TestRegisterSuccessLandsOnLoginWithNotice(t *testing.T) {
	f := newFixture(t)
	f.settle()

	rec := f.postForm("/register", url.Values{
		"email":    {"new@example.com"},
		"name":     {"Newbie"},
		"password": {"hunter2"},
		"role":     {"participant"},
	})

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/login?notice=") {
		t.Errorf("expected redirect to login with a notice, got %q", loc)
	}
	// Registration never logs the account in
	if f.sessions.Snapshot().Status != session.Unauthenticated {
		t.Error("expected the session to stay unauthenticated after registration")
	}
}

func TestRegisterConflictShowsBackendDetail(t *testing.T) {
	f := newFixture(t, hackapi.WithRegisterError(&hackapi.APIError{Status: 400, Detail: "Email already registered"}))
	f.settle()

	rec := f.postForm("/register", url.Values{
		"email":    {"dup@example.com"},
		"name":     {"Dup"},
		"password": {"hunter2"},
		"role":     {"participant"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Email already registered") {
		t.Error("expected the backend detail verbatim")
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	f := newFixture(t)
	f.settle()

	rec := f.postForm("/register", url.Values{
		"email":    {"new@example.com"},
		"name":     {"Newbie"},
		"password": {"hunter2"},
		"role":     {"superadmin"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Please pick a role") {
		t.Error("expected the role validation message")
	}
}

func TestLogoutClearsSessionAndRedirects(t *testing.T) {
	f := newFixture(t, hackapi.WithUser(participant()))
	f.authenticate(t)

	rec := f.postForm("/logout", url.Values{})

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("expected redirect to /login, got %q", loc)
	}
	if f.sessions.Snapshot().Status != session.Unauthenticated {
		t.Error("expected an unauthenticated session")
	}

	token, err := f.store.LoadToken(context.Background())
	if err != nil {
		t.Fatalf("failed to read token: %v", err)
	}
	if token != "" {
		t.Error("expected the persisted token to be cleared")
	}
}
