package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/SohamKamathi18/synaphack/pkg/hackapi"
)

// handleCreateTeam registers a team for an event on behalf of the
// current participant.
func (h *Handlers) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	eventID := r.FormValue("event_id")

	if name == "" || eventID == "" {
		http.Redirect(w, r, "/dashboard?notice="+escapeNotice("Team name and event are required"), http.StatusFound)
		return
	}

	team, err := h.Client.CreateTeam(r.Context(), name, eventID)
	if err != nil {
		if isAuthFailure(err) {
			h.forceLogout(w, r)
			return
		}
		h.Log.Error("failed to create team", "event", eventID, "error", err)
		http.Redirect(w, r, "/dashboard?notice="+escapeNotice(userMessage(err)), http.StatusFound)
		return
	}

	h.Log.Info("team created", "id", team.ID, "name", team.Name)
	http.Redirect(w, r, "/dashboard?notice=Team+created", http.StatusFound)
}

// handleCreateSubmission submits a project for one of the participant's
// teams.
func (h *Handlers) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "id")

	draft := hackapi.SubmissionDraft{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: r.FormValue("description"),
		GithubURL:   strings.TrimSpace(r.FormValue("github_url")),
		DemoURL:     strings.TrimSpace(r.FormValue("demo_url")),
		VideoURL:    strings.TrimSpace(r.FormValue("video_url")),
	}

	if draft.Title == "" {
		http.Redirect(w, r, "/dashboard?notice="+escapeNotice("Submission title is required"), http.StatusFound)
		return
	}

	submission, err := h.Client.CreateSubmission(r.Context(), teamID, draft)
	if err != nil {
		if isAuthFailure(err) {
			h.forceLogout(w, r)
			return
		}
		h.Log.Error("failed to create submission", "team", teamID, "error", err)
		http.Redirect(w, r, "/dashboard?notice="+escapeNotice(userMessage(err)), http.StatusFound)
		return
	}

	h.Log.Info("submission created", "id", submission.ID, "team", teamID)
	http.Redirect(w, r, "/dashboard?notice=Project+submitted", http.StatusFound)
}
