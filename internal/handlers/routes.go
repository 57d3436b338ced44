package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	// Static files (served from embedded filesystem)
	r.Handle("/static/*", http.StripPrefix("/static/", h.staticServer))

	// Public pages: landing and the auth entry points stay reachable
	// in every session state
	r.Get("/", h.handleIndex)
	r.Get("/healthz", h.handleHealth)
	r.Get("/login", h.handleLoginPage)
	r.Post("/login", h.handleLogin)
	r.Get("/register", h.handleRegisterPage)
	r.Post("/register", h.handleRegister)
	r.Post("/logout", h.handleLogout)

	// WebSocket
	r.Get("/ws", h.Hub.ServeWs)

	// Console pages (guarded)
	r.Group(func(r chi.Router) {
		r.Use(h.RequireSession)
		r.Get("/dashboard", h.handleDashboard)
		r.Get("/events", h.handleEventList)
		r.Post("/events", h.handleCreateEvent)
		r.Get("/events/{id}", h.handleEventDetail)
		r.Post("/events/{id}/status", h.handleUpdateEventStatus)
		r.Get("/events/{id}/qr", h.handleEventQR)
		r.Post("/teams", h.handleCreateTeam)
		r.Post("/teams/{id}/submission", h.handleCreateSubmission)
	})

	// Console API (guarded, JSON)
	r.Group(func(r chi.Router) {
		r.Use(h.RequireSessionAPI)
		r.Get("/api/console/session", h.handleSessionInfo)
		r.Get("/api/console/events", h.handleAPIEvents)
		r.Get("/api/console/events/organized", h.handleAPIOrganizedEvents)
		r.Get("/api/console/teams", h.handleAPITeams)
	})

	return r
}
