package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/SohamKamathi18/synaphack/pkg/hackapi"
)

func TestSessionInfoReportsUser(t *testing.T) {
	f := newFixture(t, hackapi.WithUser(participant()))
	f.authenticate(t)

	rec := f.get("/api/console/session")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Status string       `json:"status"`
		User   hackapi.User `json:"user"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Status != "authenticated" {
		t.Errorf("expected authenticated status, got %q", body.Status)
	}
	if body.User.Email != "part@example.com" {
		t.Errorf("expected the session user, got %q", body.User.Email)
	}
}

func TestAPIEventsReturnsBackendList(t *testing.T) {
	f := newFixture(t,
		hackapi.WithUser(participant()),
		hackapi.WithEvents([]hackapi.Event{
			{ID: "e1", Title: "Spring Hack", Status: hackapi.StatusActive},
		}),
	)
	f.authenticate(t)

	rec := f.get("/api/console/events")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var events []hackapi.Event
	if err := json.NewDecoder(rec.Body).Decode(&events); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(events) != 1 || events[0].ID != "e1" {
		t.Errorf("expected the backend event list, got %+v", events)
	}
}

func TestAPIBackendUnreachableAnswers502(t *testing.T) {
	f := newFixture(t,
		hackapi.WithUser(participant()),
		hackapi.WithEventsError(&hackapi.APIError{Status: 0, Detail: "connection refused"}),
	)
	f.authenticate(t)

	rec := f.get("/api/console/events")

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["code"] != "BACKEND_UNREACHABLE" {
		t.Errorf("expected BACKEND_UNREACHABLE code, got %q", body["code"])
	}
}

func TestAPIBackendValidationKeepsDetail(t *testing.T) {
	f := newFixture(t,
		hackapi.WithUser(participant()),
		hackapi.WithTeamsError(&hackapi.APIError{Status: 422, Detail: "Team name too long"}),
	)
	f.authenticate(t)

	rec := f.get("/api/console/teams")

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["error"] != "Team name too long" {
		t.Errorf("expected the backend detail, got %q", body["error"])
	}
}

func TestAPIOrganizedEvents(t *testing.T) {
	f := newFixture(t,
		hackapi.WithUser(organizer()),
		hackapi.WithOrganizedEvents([]hackapi.Event{
			{ID: "e1", Title: "Spring Hack", Status: hackapi.StatusDraft},
		}),
	)
	f.authenticate(t)

	rec := f.get("/api/console/events/organized")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var events []hackapi.Event
	if err := json.NewDecoder(rec.Body).Decode(&events); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(events) != 1 || events[0].Status != hackapi.StatusDraft {
		t.Errorf("expected the organizer's events, got %+v", events)
	}
}

func TestHealthEndpoint(t *testing.T) {
	f := newFixture(t)

	rec := f.get("/healthz")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected ok status, got %q", body["status"])
	}
}
