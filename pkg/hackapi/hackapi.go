// Package hackapi provides a client for the SynapHack platform REST API.
package hackapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/SohamKamathi18/synaphack/internal/logger"
)

// Role is a tag on a user record selecting which dashboard applies.
// The set is open: the backend may introduce new roles at any time, so
// unrecognized values must be tolerated, never rejected.
type Role string

const (
	RoleOrganizer   Role = "organizer"
	RoleParticipant Role = "participant"
	RoleJudge       Role = "judge"
)

// Known reports whether the role is one the console has a dashboard for.
func (r Role) Known() bool {
	switch r {
	case RoleOrganizer, RoleParticipant, RoleJudge:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// Event status values as defined by the backend.
const (
	StatusDraft             = "draft"
	StatusActive            = "active"
	StatusSubmissionsOpen   = "submissions_open"
	StatusSubmissionsClosed = "submissions_closed"
	StatusJudging           = "judging"
	StatusCompleted         = "completed"
)

// EventStatuses lists all backend event statuses in lifecycle order.
var EventStatuses = []string{
	StatusDraft,
	StatusActive,
	StatusSubmissionsOpen,
	StatusSubmissionsClosed,
	StatusJudging,
	StatusCompleted,
}

// User is the identity record returned by the backend.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Event is a hackathon event. Date fields are ISO-8601 strings as emitted
// by the backend; the console displays them without reinterpreting.
type Event struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	OrganizerID        string   `json:"organizer_id"`
	Status             string   `json:"status"`
	StartDate          string   `json:"start_date"`
	EndDate            string   `json:"end_date"`
	SubmissionDeadline string   `json:"submission_deadline"`
	MaxTeamSize        int      `json:"max_team_size"`
	Tracks             []string `json:"tracks"`
	Prizes             []string `json:"prizes"`
	Rules              string   `json:"rules"`
	CreatedAt          string   `json:"created_at,omitempty"`
}

// EventDraft carries the fields for creating an event.
type EventDraft struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	StartDate          string   `json:"start_date"`
	EndDate            string   `json:"end_date"`
	SubmissionDeadline string   `json:"submission_deadline"`
	MaxTeamSize        int      `json:"max_team_size"`
	Tracks             []string `json:"tracks"`
	Prizes             []string `json:"prizes"`
	Rules              string   `json:"rules"`
}

// Team is a participant team registered for an event.
type Team struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	EventID   string   `json:"event_id"`
	LeaderID  string   `json:"leader_id"`
	Members   []string `json:"members"`
	CreatedAt string   `json:"created_at,omitempty"`
}

// Submission is a team's project submission for an event.
type Submission struct {
	ID          string `json:"id"`
	TeamID      string `json:"team_id"`
	EventID     string `json:"event_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	GithubURL   string `json:"github_url,omitempty"`
	DemoURL     string `json:"demo_url,omitempty"`
	VideoURL    string `json:"video_url,omitempty"`
	SubmittedAt string `json:"submitted_at,omitempty"`
}

// SubmissionDraft carries the fields for creating a submission.
type SubmissionDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	GithubURL   string `json:"github_url,omitempty"`
	DemoURL     string `json:"demo_url,omitempty"`
	VideoURL    string `json:"video_url,omitempty"`
}

// LoginResult is the payload returned by a successful login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// APIError is the uniform failure shape for every call: a non-2xx
// response or a transport failure. Status 0 means no response was
// received at all.
type APIError struct {
	Status int
	Detail string
	Err    error // underlying transport error, if any
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("backend unreachable: %s", e.Detail)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Detail)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Client defines the operations the console needs from the backend.
type Client interface {
	// SetToken configures the bearer token attached to all future calls.
	SetToken(token string)
	// ClearToken removes the bearer token. In-flight calls are unaffected.
	ClearToken()
	// Token returns the currently configured bearer token.
	Token() string

	// Login exchanges credentials for a token and identity.
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// Register creates an account. It does not log the account in.
	Register(ctx context.Context, email, name, password string, role Role) (*User, error)
	// Me resolves the identity behind the configured token.
	Me(ctx context.Context) (*User, error)

	// ListEvents retrieves all published events.
	ListEvents(ctx context.Context) ([]Event, error)
	// GetEvent retrieves a single event by ID.
	GetEvent(ctx context.Context, id string) (*Event, error)
	// MyOrganizedEvents retrieves events organized by the current user.
	MyOrganizedEvents(ctx context.Context) ([]Event, error)
	// CreateEvent creates an event owned by the current user.
	CreateEvent(ctx context.Context, draft EventDraft) (*Event, error)
	// UpdateEventStatus moves an event to a new lifecycle status.
	UpdateEventStatus(ctx context.Context, id, status string) error

	// MyTeams retrieves teams the current user leads or belongs to.
	MyTeams(ctx context.Context) ([]Team, error)
	// CreateTeam registers a new team for an event.
	CreateTeam(ctx context.Context, name, eventID string) (*Team, error)

	// CreateSubmission submits a project for a team.
	CreateSubmission(ctx context.Context, teamID string, draft SubmissionDraft) (*Submission, error)
	// TeamSubmission retrieves a team's submission, or nil if none exists.
	TeamSubmission(ctx context.Context, teamID string) (*Submission, error)
}

// HTTPClient is the real HTTP client for the SynapHack backend.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	log        logger.Logger

	mu    sync.RWMutex
	token string
}

// NewHTTPClient creates a backend client for the given base URL
// (scheme and host, without the /api prefix).
func NewHTTPClient(baseURL string, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// NewHTTPClientWithHTTPClient creates a backend client with a custom http.Client.
func NewHTTPClientWithHTTPClient(baseURL string, httpClient *http.Client, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		log:        log,
	}
}

// BaseURL returns the configured backend base URL.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// SetToken configures the bearer token attached to all future calls.
func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken removes the bearer token.
func (c *HTTPClient) ClearToken() {
	c.SetToken("")
}

// Token returns the currently configured bearer token.
func (c *HTTPClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do executes a JSON request against the backend API and decodes the
// response into out (which may be nil). Every failure is an *APIError.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	reqURL := fmt.Sprintf("%s/api%s", c.baseURL, path)

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &APIError{Detail: "failed to encode request body", Err: err}
		}
		reqBody = bytes.NewReader(encoded)
	}

	c.log.Debug("backend request", "method", method, "url", reqURL)

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return &APIError{Detail: "failed to create request", Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Detail: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Detail: "failed to read response", Err: err}
	}

	c.log.Debug("backend response", "status", resp.StatusCode, "bytes", len(respBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Detail: errorDetail(respBody)}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &APIError{Status: resp.StatusCode, Detail: "failed to parse response", Err: err}
		}
	}

	return nil
}

// errorDetail extracts the backend-provided message from an error body,
// falling back to a generic message.
func errorDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return "request failed"
}

// Login exchanges credentials for a token and identity.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	req := map[string]string{"email": email, "password": password}
	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates an account. It does not log the account in.
func (c *HTTPClient) Register(ctx context.Context, email, name, password string, role Role) (*User, error) {
	req := map[string]string{
		"email":    email,
		"name":     name,
		"password": password,
		"role":     string(role),
	}
	var user User
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Me resolves the identity behind the configured token.
func (c *HTTPClient) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListEvents retrieves all published events.
func (c *HTTPClient) ListEvents(ctx context.Context) ([]Event, error) {
	var events []Event
	if err := c.do(ctx, http.MethodGet, "/events", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetEvent retrieves a single event by ID.
func (c *HTTPClient) GetEvent(ctx context.Context, id string) (*Event, error) {
	var event Event
	if err := c.do(ctx, http.MethodGet, "/events/"+url.PathEscape(id), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// MyOrganizedEvents retrieves events organized by the current user.
func (c *HTTPClient) MyOrganizedEvents(ctx context.Context) ([]Event, error) {
	var events []Event
	if err := c.do(ctx, http.MethodGet, "/events/my/organized", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CreateEvent creates an event owned by the current user.
func (c *HTTPClient) CreateEvent(ctx context.Context, draft EventDraft) (*Event, error) {
	var event Event
	if err := c.do(ctx, http.MethodPost, "/events", draft, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// UpdateEventStatus moves an event to a new lifecycle status.
func (c *HTTPClient) UpdateEventStatus(ctx context.Context, id, status string) error {
	path := fmt.Sprintf("/events/%s/status?status=%s", url.PathEscape(id), url.QueryEscape(status))
	return c.do(ctx, http.MethodPut, path, nil, nil)
}

// MyTeams retrieves teams the current user leads or belongs to.
func (c *HTTPClient) MyTeams(ctx context.Context) ([]Team, error) {
	var teams []Team
	if err := c.do(ctx, http.MethodGet, "/teams/my", nil, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// CreateTeam registers a new team for an event.
func (c *HTTPClient) CreateTeam(ctx context.Context, name, eventID string) (*Team, error) {
	req := map[string]string{"name": name, "event_id": eventID}
	var team Team
	if err := c.do(ctx, http.MethodPost, "/teams", req, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// CreateSubmission submits a project for a team.
func (c *HTTPClient) CreateSubmission(ctx context.Context, teamID string, draft SubmissionDraft) (*Submission, error) {
	path := "/submissions?team_id=" + url.QueryEscape(teamID)
	var submission Submission
	if err := c.do(ctx, http.MethodPost, path, draft, &submission); err != nil {
		return nil, err
	}
	return &submission, nil
}

// TeamSubmission retrieves a team's submission. The backend returns a
// JSON null when the team has not submitted yet; that maps to (nil, nil).
func (c *HTTPClient) TeamSubmission(ctx context.Context, teamID string) (*Submission, error) {
	var submission *Submission
	if err := c.do(ctx, http.MethodGet, "/submissions/team/"+url.PathEscape(teamID), nil, &submission); err != nil {
		return nil, err
	}
	return submission, nil
}

// Ensure HTTPClient implements Client
var _ Client = (*HTTPClient)(nil)
