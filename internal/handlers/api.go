package handlers

import (
	"net/http"
)

// handleSessionInfo reports the current session for page scripts.
func (h *Handlers) handleSessionInfo(w http.ResponseWriter, r *http.Request) {
	snap := h.Session.Snapshot()
	respondOK(w, map[string]interface{}{
		"status": snap.Status.String(),
		"user":   snap.User,
	})
}

// handleAPIEvents serves the event list for dashboard refresh.
func (h *Handlers) handleAPIEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Client.ListEvents(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, events)
}

// handleAPIOrganizedEvents serves the organizer's own events.
func (h *Handlers) handleAPIOrganizedEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Client.MyOrganizedEvents(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, events)
}

// handleAPITeams serves the participant's teams for dashboard refresh.
func (h *Handlers) handleAPITeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.Client.MyTeams(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, teams)
}
