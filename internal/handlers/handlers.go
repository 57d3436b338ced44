package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/SohamKamathi18/synaphack/internal/logger"
	"github.com/SohamKamathi18/synaphack/internal/session"
	"github.com/SohamKamathi18/synaphack/internal/store"
	"github.com/SohamKamathi18/synaphack/internal/websocket"
	"github.com/SohamKamathi18/synaphack/pkg/hackapi"
)

// NewStaticServer creates a static file server from an fs.FS.
func NewStaticServer(staticFS fs.FS) http.Handler {
	return http.FileServer(http.FS(staticFS))
}

// Templates holds all parsed HTML templates.
type Templates struct {
	Index       *template.Template
	Loading     *template.Template
	Login       *template.Template
	Register    *template.Template
	Organizer   *template.Template
	Participant *template.Template
	Judge       *template.Template
	UnknownRole *template.Template
	Events      *template.Template
	Event       *template.Template
}

// Handlers holds all HTTP handler dependencies.
type Handlers struct {
	Session      *session.Manager
	Client       hackapi.Client
	Store        *store.Store
	Hub          *websocket.Hub
	Log          logger.Logger
	templates    *Templates
	staticServer http.Handler
}

// New creates a Handlers instance with all dependencies.
func New(
	sessions *session.Manager,
	client hackapi.Client,
	st *store.Store,
	hub *websocket.Hub,
	templatesFS fs.FS,
	staticServer http.Handler,
	log logger.Logger,
) (*Handlers, error) {
	templates, err := loadTemplates(templatesFS)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	return &Handlers{
		Session:      sessions,
		Client:       client,
		Store:        st,
		Hub:          hub,
		Log:          log,
		templates:    templates,
		staticServer: staticServer,
	}, nil
}

// loadTemplates parses all templates once at startup.
func loadTemplates(templatesFS fs.FS) (*Templates, error) {
	t := &Templates{}
	var err error

	if t.Index, err = template.ParseFS(templatesFS, "index.html"); err != nil {
		return nil, fmt.Errorf("index template: %w", err)
	}
	if t.Loading, err = template.ParseFS(templatesFS, "loading.html"); err != nil {
		return nil, fmt.Errorf("loading template: %w", err)
	}
	if t.Login, err = template.ParseFS(templatesFS, "auth/login.html"); err != nil {
		return nil, fmt.Errorf("login template: %w", err)
	}
	if t.Register, err = template.ParseFS(templatesFS, "auth/register.html"); err != nil {
		return nil, fmt.Errorf("register template: %w", err)
	}
	if t.Organizer, err = template.ParseFS(templatesFS, "console/layout.html", "console/dashboard_organizer.html"); err != nil {
		return nil, fmt.Errorf("organizer template: %w", err)
	}
	if t.Participant, err = template.ParseFS(templatesFS, "console/layout.html", "console/dashboard_participant.html"); err != nil {
		return nil, fmt.Errorf("participant template: %w", err)
	}
	if t.Judge, err = template.ParseFS(templatesFS, "console/layout.html", "console/dashboard_judge.html"); err != nil {
		return nil, fmt.Errorf("judge template: %w", err)
	}
	if t.UnknownRole, err = template.ParseFS(templatesFS, "console/layout.html", "console/unknown_role.html"); err != nil {
		return nil, fmt.Errorf("unknown role template: %w", err)
	}
	if t.Events, err = template.ParseFS(templatesFS, "console/layout.html", "console/events.html"); err != nil {
		return nil, fmt.Errorf("events template: %w", err)
	}
	if t.Event, err = template.ParseFS(templatesFS, "console/layout.html", "console/event.html"); err != nil {
		return nil, fmt.Errorf("event template: %w", err)
	}

	return t, nil
}
