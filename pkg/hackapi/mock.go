package hackapi

import (
	"context"
	"fmt"
	"sync"
)

// MockClient is a mock backend client for testing.
type MockClient struct {
	mu    sync.Mutex
	token string

	user        *User
	loginResult *LoginResult
	events      []Event
	myEvents    []Event
	teams       []Team
	submissions map[string]*Submission // teamID -> submission

	meErr         error
	loginErr      error
	registerErr   error
	eventsErr     error
	teamsErr      error
	createErr     error
	submissionErr error

	meCalls     int
	statusCalls []string // "eventID:status" per UpdateEventStatus call
}

// MockOption configures the mock client.
type MockOption func(*MockClient)

// WithUser sets the identity returned by Me.
func WithUser(user User) MockOption {
	return func(m *MockClient) {
		m.user = &user
	}
}

// WithMeError sets an error to return from Me.
func WithMeError(err error) MockOption {
	return func(m *MockClient) {
		m.meErr = err
	}
}

// WithLoginResult sets the payload returned by Login.
func WithLoginResult(result LoginResult) MockOption {
	return func(m *MockClient) {
		m.loginResult = &result
	}
}

// WithLoginError sets an error to return from Login.
func WithLoginError(err error) MockOption {
	return func(m *MockClient) {
		m.loginErr = err
	}
}

// WithRegisterError sets an error to return from Register.
func WithRegisterError(err error) MockOption {
	return func(m *MockClient) {
		m.registerErr = err
	}
}

// WithEvents sets the events returned by ListEvents.
func WithEvents(events []Event) MockOption {
	return func(m *MockClient) {
		m.events = events
	}
}

// WithOrganizedEvents sets the events returned by MyOrganizedEvents.
func WithOrganizedEvents(events []Event) MockOption {
	return func(m *MockClient) {
		m.myEvents = events
	}
}

// WithEventsError sets an error to return from event fetches.
func WithEventsError(err error) MockOption {
	return func(m *MockClient) {
		m.eventsErr = err
	}
}

// WithTeams sets the teams returned by MyTeams.
func WithTeams(teams []Team) MockOption {
	return func(m *MockClient) {
		m.teams = teams
	}
}

// WithTeamsError sets an error to return from MyTeams.
func WithTeamsError(err error) MockOption {
	return func(m *MockClient) {
		m.teamsErr = err
	}
}

// WithCreateError sets an error to return from create operations.
func WithCreateError(err error) MockOption {
	return func(m *MockClient) {
		m.createErr = err
	}
}

// WithSubmission sets the submission returned for a team.
func WithSubmission(teamID string, submission Submission) MockOption {
	return func(m *MockClient) {
		m.submissions[teamID] = &submission
	}
}

// WithSubmissionError sets an error to return from submission calls.
func WithSubmissionError(err error) MockOption {
	return func(m *MockClient) {
		m.submissionErr = err
	}
}

// NewMockClient creates a new mock backend client.
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{
		submissions: make(map[string]*Submission),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetToken records the bearer token.
func (m *MockClient) SetToken(token string) {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
}

// ClearToken removes the bearer token.
func (m *MockClient) ClearToken() {
	m.SetToken("")
}

// Token returns the currently configured bearer token.
func (m *MockClient) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// MeCalls returns how many times Me has been called.
func (m *MockClient) MeCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.meCalls
}

// StatusCalls returns the recorded UpdateEventStatus calls as
// "eventID:status" strings.
func (m *MockClient) StatusCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.statusCalls...)
}

func (m *MockClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	if m.loginResult != nil {
		return m.loginResult, nil
	}
	return &LoginResult{
		AccessToken: "mock-token",
		TokenType:   "bearer",
		User:        User{ID: "mock-user", Email: email, Name: "Mock User", Role: RoleParticipant},
	}, nil
}

func (m *MockClient) Register(ctx context.Context, email, name, password string, role Role) (*User, error) {
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	return &User{ID: "mock-registered", Email: email, Name: name, Role: role}, nil
}

func (m *MockClient) Me(ctx context.Context) (*User, error) {
	m.mu.Lock()
	m.meCalls++
	m.mu.Unlock()

	if m.meErr != nil {
		return nil, m.meErr
	}
	if m.user != nil {
		return m.user, nil
	}
	return nil, &APIError{Status: 401, Detail: "Invalid token"}
}

func (m *MockClient) ListEvents(ctx context.Context) ([]Event, error) {
	if m.eventsErr != nil {
		return nil, m.eventsErr
	}
	return m.events, nil
}

func (m *MockClient) GetEvent(ctx context.Context, id string) (*Event, error) {
	if m.eventsErr != nil {
		return nil, m.eventsErr
	}
	for i := range m.events {
		if m.events[i].ID == id {
			return &m.events[i], nil
		}
	}
	for i := range m.myEvents {
		if m.myEvents[i].ID == id {
			return &m.myEvents[i], nil
		}
	}
	return nil, &APIError{Status: 404, Detail: "Event not found"}
}

func (m *MockClient) MyOrganizedEvents(ctx context.Context) ([]Event, error) {
	if m.eventsErr != nil {
		return nil, m.eventsErr
	}
	return m.myEvents, nil
}

func (m *MockClient) CreateEvent(ctx context.Context, draft EventDraft) (*Event, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	event := Event{
		ID:                 fmt.Sprintf("mock-event-%d", len(m.myEvents)+1),
		Title:              draft.Title,
		Description:        draft.Description,
		Status:             StatusDraft,
		StartDate:          draft.StartDate,
		EndDate:            draft.EndDate,
		SubmissionDeadline: draft.SubmissionDeadline,
		MaxTeamSize:        draft.MaxTeamSize,
		Tracks:             draft.Tracks,
		Prizes:             draft.Prizes,
		Rules:              draft.Rules,
	}
	m.myEvents = append(m.myEvents, event)
	return &event, nil
}

func (m *MockClient) UpdateEventStatus(ctx context.Context, id, status string) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	m.statusCalls = append(m.statusCalls, id+":"+status)
	m.mu.Unlock()
	for i := range m.myEvents {
		if m.myEvents[i].ID == id {
			m.myEvents[i].Status = status
		}
	}
	return nil
}

func (m *MockClient) MyTeams(ctx context.Context) ([]Team, error) {
	if m.teamsErr != nil {
		return nil, m.teamsErr
	}
	return m.teams, nil
}

func (m *MockClient) CreateTeam(ctx context.Context, name, eventID string) (*Team, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	team := Team{
		ID:      fmt.Sprintf("mock-team-%d", len(m.teams)+1),
		Name:    name,
		EventID: eventID,
	}
	m.teams = append(m.teams, team)
	return &team, nil
}

func (m *MockClient) CreateSubmission(ctx context.Context, teamID string, draft SubmissionDraft) (*Submission, error) {
	if m.submissionErr != nil {
		return nil, m.submissionErr
	}
	submission := &Submission{
		ID:          "mock-submission",
		TeamID:      teamID,
		Title:       draft.Title,
		Description: draft.Description,
		GithubURL:   draft.GithubURL,
		DemoURL:     draft.DemoURL,
		VideoURL:    draft.VideoURL,
	}
	m.submissions[teamID] = submission
	return submission, nil
}

func (m *MockClient) TeamSubmission(ctx context.Context, teamID string) (*Submission, error) {
	if m.submissionErr != nil {
		return nil, m.submissionErr
	}
	return m.submissions[teamID], nil
}

// Ensure MockClient implements Client
var _ Client = (*MockClient)(nil)
