package calendar

import (
	"context"
	"strings"
	"time"

	"slotify/models"

	"go.uber.org/zap"
)

// fakeUserRepo records connection-state writes in memory.
type fakeUserRepo struct {
	users  map[string]*models.User
	writes []models.Connection
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	m := make(map[string]*models.User)
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserRepo{users: m}
}

func (r *fakeUserRepo) GetByID(id string) (*models.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Create(u *models.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Update(u *models.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) ReplaceConnectionState(id string, conn models.Connection) error {
	r.writes = append(r.writes, conn)
	if u, ok := r.users[id]; ok {
		u.ApplyConnection(conn)
	}
	return nil
}

func (r *fakeUserRepo) SetTokenHash(id, hash string) error {
	if u, ok := r.users[id]; ok {
		u.TokenHash = hash
	}
	return nil
}

func (r *fakeUserRepo) lastWrite() *models.Connection {
	if len(r.writes) == 0 {
		return nil
	}
	return &r.writes[len(r.writes)-1]
}

// fakeAdapter is a scriptable provider adapter.
type fakeAdapter struct {
	kind models.ProviderKind

	exchangeCalls  []string // client secrets passed per call
	exchangeErrs   []error  // error per call, nil entries succeed
	exchangeToken  *TokenSet
	refreshErr     error
	refreshToken   *TokenSet
	refreshCalls   int
	calendars      []CalendarInfo
	calendarsErr   error
	contacts       []ExternalContact
	contactsErrs   []error // consumed per call
	contactCalls   int
	events         []ExternalEvent
	eventsErr      error
	created        *CreatedEvent
	createErrs     []error // consumed per call
	createCalls    int
	createdInputs  []EventInput
	listEventCalls int
}

func (a *fakeAdapter) Kind() models.ProviderKind {
	if a.kind == "" {
		return models.ProviderGoogle
	}
	return a.kind
}

func (a *fakeAdapter) BuildAuthorizationURL(clientID, redirectURI, state string) string {
	return "https://auth.example.com/?client_id=" + clientID + "&state=" + state
}

func (a *fakeAdapter) ExchangeCode(ctx context.Context, code, clientID, clientSecret, redirectURI string) (*TokenSet, error) {
	call := len(a.exchangeCalls)
	a.exchangeCalls = append(a.exchangeCalls, clientSecret)
	if call < len(a.exchangeErrs) && a.exchangeErrs[call] != nil {
		return nil, a.exchangeErrs[call]
	}
	if a.exchangeToken != nil {
		return a.exchangeToken, nil
	}
	return &TokenSet{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (a *fakeAdapter) RefreshToken(ctx context.Context, refreshToken, clientID, clientSecret string) (*TokenSet, error) {
	a.refreshCalls++
	if a.refreshErr != nil {
		return nil, a.refreshErr
	}
	if a.refreshToken != nil {
		return a.refreshToken, nil
	}
	return &TokenSet{AccessToken: "fresh-access"}, nil
}

func (a *fakeAdapter) ListCalendars(ctx context.Context, accessToken string) ([]CalendarInfo, error) {
	if a.calendarsErr != nil {
		return nil, a.calendarsErr
	}
	return a.calendars, nil
}

func (a *fakeAdapter) ListContacts(ctx context.Context, accessToken string) ([]ExternalContact, error) {
	call := a.contactCalls
	a.contactCalls++
	if call < len(a.contactsErrs) && a.contactsErrs[call] != nil {
		return nil, a.contactsErrs[call]
	}
	return a.contacts, nil
}

func (a *fakeAdapter) ListEvents(ctx context.Context, accessToken, calendarID string, rangeStart, rangeEnd time.Time) ([]ExternalEvent, error) {
	a.listEventCalls++
	if a.eventsErr != nil {
		return nil, a.eventsErr
	}
	return a.events, nil
}

func (a *fakeAdapter) CreateEvent(ctx context.Context, accessToken, calendarID string, input EventInput) (*CreatedEvent, error) {
	call := a.createCalls
	a.createCalls++
	a.createdInputs = append(a.createdInputs, input)
	if call < len(a.createErrs) && a.createErrs[call] != nil {
		return nil, a.createErrs[call]
	}
	if a.created != nil {
		return a.created, nil
	}
	return &CreatedEvent{ExternalID: "evt-1", JoinURL: "https://cal.example.com/evt-1"}, nil
}

// fakeContactRepo is an in-memory contact store.
type fakeContactRepo struct {
	contacts []models.Contact
}

func (r *fakeContactRepo) Create(contact *models.Contact) error {
	r.contacts = append(r.contacts, *contact)
	return nil
}

func (r *fakeContactRepo) GetByUser(userID string) ([]models.Contact, error) {
	var out []models.Contact
	for _, c := range r.contacts {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeContactRepo) FindByName(userID, name string) (*models.Contact, error) {
	for i, c := range r.contacts {
		if c.UserID == userID && strings.EqualFold(c.Name, name) {
			return &r.contacts[i], nil
		}
	}
	return nil, nil
}

func (r *fakeContactRepo) FindByExternalID(userID, externalID string) (*models.Contact, error) {
	if externalID == "" {
		return nil, nil
	}
	for i, c := range r.contacts {
		if c.UserID == userID && c.ExternalContactID == externalID {
			return &r.contacts[i], nil
		}
	}
	return nil, nil
}

func testManager(repo *fakeUserRepo, adapter *fakeAdapter, secret string) *ConnectionManager {
	kind := adapter.Kind()
	return &ConnectionManager{
		Repo:     repo,
		Adapters: map[models.ProviderKind]Adapter{kind: adapter},
		Credentials: map[models.ProviderKind]ProviderCredentials{
			kind: {ClientID: "client-id", ClientSecret: secret},
		},
		RedirectURI: "https://app.example.com/api/calendar/callback",
		Logger:      zap.NewNop(),
		now:         func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) },
	}
}

func connectedUser(id string, kind models.ProviderKind) *models.User {
	u := &models.User{ID: id, Email: id + "@example.com"}
	u.ApplyConnection(models.Connection{
		Status:       models.ConnectionConnected,
		Provider:     kind,
		AccessToken:  "access",
		RefreshToken: "refresh",
		CalendarID:   "cal-1",
	})
	return u
}
