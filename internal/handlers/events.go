package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"

	"github.com/SohamKamathi18/synaphack/pkg/hackapi"
)

// EventListPageData feeds the event browser.
type EventListPageData struct {
	PageData
	Events []hackapi.Event
}

// EventPageData feeds the event detail page.
type EventPageData struct {
	PageData
	Event       *hackapi.Event
	CanRegister bool
}

// handleEventList renders all published events.
func (h *Handlers) handleEventList(w http.ResponseWriter, r *http.Request) {
	snap := h.Session.Snapshot()
	data := EventListPageData{
		PageData: PageData{Title: "Events", User: snap.User},
	}

	events, err := h.Client.ListEvents(r.Context())
	if err != nil {
		if isAuthFailure(err) {
			h.forceLogout(w, r)
			return
		}
		h.Log.Error("failed to fetch events", "error", err)
		data.Error = userMessage(err)
	}
	data.Events = events

	h.templates.Events.ExecuteTemplate(w, "console", data)
}

// handleEventDetail renders a single event.
func (h *Handlers) handleEventDetail(w http.ResponseWriter, r *http.Request) {
	snap := h.Session.Snapshot()
	data := EventPageData{
		PageData: PageData{Title: "Event", User: snap.User, Notice: r.URL.Query().Get("notice")},
	}

	event, err := h.Client.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if isAuthFailure(err) {
			h.forceLogout(w, r)
			return
		}
		h.Log.Error("failed to fetch event", "error", err)
		data.Error = userMessage(err)
		h.templates.Event.ExecuteTemplate(w, "console", data)
		return
	}

	data.Title = event.Title
	data.Event = event
	data.CanRegister = snap.User.Role == hackapi.RoleParticipant &&
		(event.Status == hackapi.StatusActive || event.Status == hackapi.StatusSubmissionsOpen)

	h.templates.Event.ExecuteTemplate(w, "console", data)
}

// handleCreateEvent processes the organizer's create-event form.
// Tracks and prizes arrive comma-separated; dates as ISO-8601 strings.
func (h *Handlers) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	maxTeamSize, err := strconv.Atoi(r.FormValue("max_team_size"))
	if err != nil || maxTeamSize < 1 {
		maxTeamSize = 4
	}

	draft := hackapi.EventDraft{
		Title:              strings.TrimSpace(r.FormValue("title")),
		Description:        r.FormValue("description"),
		StartDate:          r.FormValue("start_date"),
		EndDate:            r.FormValue("end_date"),
		SubmissionDeadline: r.FormValue("submission_deadline"),
		MaxTeamSize:        maxTeamSize,
		Tracks:             splitList(r.FormValue("tracks")),
		Prizes:             splitList(r.FormValue("prizes")),
		Rules:              r.FormValue("rules"),
	}

	event, err := h.Client.CreateEvent(r.Context(), draft)
	if err != nil {
		if isAuthFailure(err) {
			h.forceLogout(w, r)
			return
		}
		h.Log.Error("failed to create event", "error", err)
		http.Redirect(w, r, "/dashboard?notice="+escapeNotice(userMessage(err)), http.StatusFound)
		return
	}

	h.Log.Info("event created", "id", event.ID, "title", event.Title)
	http.Redirect(w, r, "/dashboard?notice=Event+created", http.StatusFound)
}

// handleUpdateEventStatus moves an event along its lifecycle and tells
// connected pages about it.
func (h *Handlers) handleUpdateEventStatus(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	status := r.FormValue("status")

	if !validStatus(status) {
		http.Redirect(w, r, "/dashboard?notice="+escapeNotice("Unknown status"), http.StatusFound)
		return
	}

	if err := h.Client.UpdateEventStatus(r.Context(), eventID, status); err != nil {
		if isAuthFailure(err) {
			h.forceLogout(w, r)
			return
		}
		h.Log.Error("failed to update event status", "event", eventID, "error", err)
		http.Redirect(w, r, "/dashboard?notice="+escapeNotice(userMessage(err)), http.StatusFound)
		return
	}

	h.Hub.BroadcastEventStatus(eventID, status)
	http.Redirect(w, r, "/dashboard?notice=Status+updated", http.StatusFound)
}

// handleEventQR serves a QR code PNG pointing at the event page, for
// organizers to put on a projector.
func (h *Handlers) handleEventQR(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")

	baseURL, err := h.Store.GetSetting(r.Context(), "base_url")
	if err != nil || baseURL == "" {
		h.respondError(w, BadRequest("Console base URL not configured"))
		return
	}

	shareURL := fmt.Sprintf("%s/events/%s", strings.TrimSuffix(baseURL, "/"), eventID)
	png, err := qrcode.Encode(shareURL, qrcode.Medium, 256)
	if err != nil {
		h.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}

func validStatus(status string) bool {
	for _, s := range hackapi.EventStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// splitList turns a comma-separated form value into a clean string list.
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

func escapeNotice(message string) string {
	return url.QueryEscape(message)
}
