package handlers

import (
	"net/http"

	"github.com/SohamKamathi18/synaphack/pkg/hackapi"
)

// PageData is the common payload for console templates.
type PageData struct {
	Title  string
	User   *hackapi.User
	Error  string
	Notice string
}

// OrganizerPageData feeds the organizer dashboard.
type OrganizerPageData struct {
	PageData
	Events   []hackapi.Event
	Statuses []string
}

// TeamView pairs a team with its submission, if any.
type TeamView struct {
	Team       hackapi.Team
	Submission *hackapi.Submission
	Event      *hackapi.Event
}

// ParticipantPageData feeds the participant dashboard.
type ParticipantPageData struct {
	PageData
	Events []hackapi.Event
	Teams  []TeamView
}

// JudgePageData feeds the judge dashboard.
type JudgePageData struct {
	PageData
	Events []hackapi.Event
}

// handleIndex renders the public landing page.
func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := h.Session.Snapshot()
	h.templates.Index.Execute(w, PageData{Title: "SynapHack", User: snap.User})
}

// handleHealth answers liveness probes.
func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondOK(w, map[string]string{"status": "ok"})
}

// handleDashboard selects the dashboard for the current user's role.
// The role set is open: an unrecognized role gets its own view, never
// an error.
func (h *Handlers) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap := h.Session.Snapshot()

	switch snap.User.Role {
	case hackapi.RoleOrganizer:
		h.renderOrganizerDashboard(w, r, snap.User)
	case hackapi.RoleParticipant:
		h.renderParticipantDashboard(w, r, snap.User)
	case hackapi.RoleJudge:
		h.renderJudgeDashboard(w, r, snap.User)
	default:
		h.Log.Warn("unrecognized role", "role", snap.User.Role)
		h.templates.UnknownRole.ExecuteTemplate(w, "console", PageData{
			Title: "Unknown role",
			User:  snap.User,
		})
	}
}

func (h *Handlers) renderOrganizerDashboard(w http.ResponseWriter, r *http.Request, user *hackapi.User) {
	data := OrganizerPageData{
		PageData: PageData{Title: "Organizer", User: user, Notice: r.URL.Query().Get("notice")},
		Statuses: hackapi.EventStatuses,
	}

	events, err := h.Client.MyOrganizedEvents(r.Context())
	if err != nil {
		if isAuthFailure(err) {
			h.forceLogout(w, r)
			return
		}
		h.Log.Error("failed to fetch organized events", "error", err)
		data.Error = userMessage(err)
	}
	data.Events = events

	h.templates.Organizer.ExecuteTemplate(w, "console", data)
}

func (h *Handlers) renderParticipantDashboard(w http.ResponseWriter, r *http.Request, user *hackapi.User) {
	data := ParticipantPageData{
		PageData: PageData{Title: "Participant", User: user, Notice: r.URL.Query().Get("notice")},
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

	teams, err := h.Client.MyTeams(r.Context())
	if err != nil {
		if isAuthFailure(err) {
			h.forceLogout(w, r)
			return
		}
		h.Log.Error("failed to fetch teams", "error", err)
		if data.Error == "" {
			data.Error = userMessage(err)
		}
	}

	for _, team := range teams {
		view := TeamView{Team: team}
		// Submissions and event context are best-effort decoration
		if submission, err := h.Client.TeamSubmission(r.Context(), team.ID); err == nil {
			view.Submission = submission
		}
		if event, err := h.Client.GetEvent(r.Context(), team.EventID); err == nil {
			view.Event = event
		}
		data.Teams = append(data.Teams, view)
	}

	h.templates.Participant.ExecuteTemplate(w, "console", data)
}

func (h *Handlers) renderJudgeDashboard(w http.ResponseWriter, r *http.Request, user *hackapi.User) {
	data := JudgePageData{
		PageData: PageData{Title: "Judge", User: user},
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

	// Judges only care about events that reached judging
	for _, event := range events {
		if event.Status == hackapi.StatusJudging {
			data.Events = append(data.Events, event)
		}
	}

	h.templates.Judge.ExecuteTemplate(w, "console", data)
}
