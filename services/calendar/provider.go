package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"slotify/models"
)

// TokenSet is a normalized OAuth token response.
type TokenSet struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

// CalendarInfo is a normalized calendar listing entry.
type CalendarInfo struct {
	ID        string
	Name      string
	IsDefault bool
}

// ExternalContact is a normalized provider contact.
type ExternalContact struct {
	ExternalID string
	Name       string
	Email      string
	Role       string
}

// ExternalEvent is a normalized provider calendar event.
type ExternalEvent struct {
	ExternalID string
	Title      string
	Start      time.Time
	End        time.Time
}

// EventInput is the normalized shape pushed to a provider.
type EventInput struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Location    string
	Attendees   []string
	IsPrivate   bool
}

// CreatedEvent is returned by a successful event creation.
type CreatedEvent struct {
	ExternalID string
	JoinURL    string
}

// Adapter is the uniform contract each calendar provider implements.
// The two providers are structurally identical but field-incompatible,
// so each concrete adapter owns its wire formats end to end. All
// network failures surface as *ProviderHTTPError.
type Adapter interface {
	Kind() models.ProviderKind
	BuildAuthorizationURL(clientID, redirectURI, state string) string
	ExchangeCode(ctx context.Context, code, clientID, clientSecret, redirectURI string) (*TokenSet, error)
	RefreshToken(ctx context.Context, refreshToken, clientID, clientSecret string) (*TokenSet, error)
	ListCalendars(ctx context.Context, accessToken string) ([]CalendarInfo, error)
	ListContacts(ctx context.Context, accessToken string) ([]ExternalContact, error)
	ListEvents(ctx context.Context, accessToken, calendarID string, rangeStart, rangeEnd time.Time) ([]ExternalEvent, error)
	CreateEvent(ctx context.Context, accessToken, calendarID string, input EventInput) (*CreatedEvent, error)
}

var httpClient = &http.Client{Timeout: 30 * time.Second}

// getJSON performs an authorized GET and decodes the JSON response.
func getJSON(ctx context.Context, rawURL, accessToken string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	return doJSON(req, out)
}

// postJSON performs an authorized POST with a JSON body and decodes the
// JSON response.
func postJSON(ctx context.Context, rawURL, accessToken string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	return doJSON(req, out)
}

// postForm performs a form-encoded POST (the OAuth token endpoints) and
// decodes the JSON response.
func postForm(ctx context.Context, rawURL string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return doJSON(req, out)
}

func doJSON(req *http.Request, out interface{}) error {
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &ProviderHTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
