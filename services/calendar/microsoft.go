package calendar

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"slotify/models"
)

const (
	msAuthURL   = "https://login.microsoftonline.com/common/oauth2/v2.0/authorize"
	msTokenURL  = "https://login.microsoftonline.com/common/oauth2/v2.0/token"
	msGraphBase = "https://graph.microsoft.com/v1.0"

	msScopes = "offline_access User.Read Calendars.ReadWrite Contacts.Read"

	// Graph emits fractional-second timestamps without a zone suffix.
	msGraphTimeLayout = "2006-01-02T15:04:05.9999999"
)

// MicrosoftAdapter talks to the Microsoft identity platform and the
// Graph v1.0 REST API.
type MicrosoftAdapter struct{}

func (a *MicrosoftAdapter) Kind() models.ProviderKind { return models.ProviderMicrosoft }

// BuildAuthorizationURL constructs the consent URL. offline_access is
// what makes the identity platform issue a refresh token.
func (a *MicrosoftAdapter) BuildAuthorizationURL(clientID, redirectURI, state string) string {
	q := url.Values{}
	q.Set("client_id", clientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("response_type", "code")
	q.Set("response_mode", "query")
	q.Set("scope", msScopes)
	q.Set("state", state)
	return msAuthURL + "?" + q.Encode()
}

type msTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// ExchangeCode trades an authorization code for a token pair. Public
// clients (mobile/SPA registrations) reject a client_secret, so the
// secret is only sent when present.
func (a *MicrosoftAdapter) ExchangeCode(ctx context.Context, code, clientID, clientSecret, redirectURI string) (*TokenSet, error) {
	form := url.Values{}
	form.Set("code", code)
	form.Set("client_id", clientID)
	form.Set("redirect_uri", redirectURI)
	form.Set("grant_type", "authorization_code")
	form.Set("scope", msScopes)
	if clientSecret != "" {
		form.Set("client_secret", clientSecret)
	}

	var tok msTokenResponse
	if err := postForm(ctx, msTokenURL, form, &tok); err != nil {
		return nil, err
	}
	return &TokenSet{AccessToken: tok.AccessToken, RefreshToken: tok.RefreshToken, ExpiresIn: tok.ExpiresIn}, nil
}

// RefreshToken exchanges a refresh token for a fresh pair. The
// identity platform rotates refresh tokens, so the response usually
// carries a new one.
func (a *MicrosoftAdapter) RefreshToken(ctx context.Context, refreshToken, clientID, clientSecret string) (*TokenSet, error) {
	form := url.Values{}
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", clientID)
	form.Set("grant_type", "refresh_token")
	form.Set("scope", msScopes)
	if clientSecret != "" {
		form.Set("client_secret", clientSecret)
	}

	var tok msTokenResponse
	if err := postForm(ctx, msTokenURL, form, &tok); err != nil {
		return nil, err
	}
	return &TokenSet{AccessToken: tok.AccessToken, RefreshToken: tok.RefreshToken, ExpiresIn: tok.ExpiresIn}, nil
}

// ListCalendars returns the user's calendars.
func (a *MicrosoftAdapter) ListCalendars(ctx context.Context, accessToken string) ([]CalendarInfo, error) {
	var result struct {
		Value []struct {
			ID                string `json:"id"`
			Name              string `json:"name"`
			IsDefaultCalendar bool   `json:"isDefaultCalendar"`
		} `json:"value"`
	}
	if err := getJSON(ctx, msGraphBase+"/me/calendars", accessToken, &result); err != nil {
		return nil, err
	}

	calendars := make([]CalendarInfo, 0, len(result.Value))
	for _, item := range result.Value {
		calendars = append(calendars, CalendarInfo{ID: item.ID, Name: item.Name, IsDefault: item.IsDefaultCalendar})
	}
	return calendars, nil
}

// ListContacts returns the user's Graph contacts.
func (a *MicrosoftAdapter) ListContacts(ctx context.Context, accessToken string) ([]ExternalContact, error) {
	var result struct {
		Value []struct {
			ID             string `json:"id"`
			DisplayName    string `json:"displayName"`
			JobTitle       string `json:"jobTitle"`
			EmailAddresses []struct {
				Address string `json:"address"`
			} `json:"emailAddresses"`
		} `json:"value"`
	}
	if err := getJSON(ctx, msGraphBase+"/me/contacts?$top=100", accessToken, &result); err != nil {
		return nil, err
	}

	contacts := make([]ExternalContact, 0, len(result.Value))
	for _, item := range result.Value {
		contact := ExternalContact{ExternalID: item.ID, Name: item.DisplayName, Role: item.JobTitle}
		if len(item.EmailAddresses) > 0 {
			contact.Email = item.EmailAddresses[0].Address
		}
		contacts = append(contacts, contact)
	}
	return contacts, nil
}

// ListEvents returns events in [rangeStart, rangeEnd) via calendarView,
// which expands the window server-side.
func (a *MicrosoftAdapter) ListEvents(ctx context.Context, accessToken, calendarID string, rangeStart, rangeEnd time.Time) ([]ExternalEvent, error) {
	q := url.Values{}
	q.Set("startDateTime", rangeStart.UTC().Format(time.RFC3339))
	q.Set("endDateTime", rangeEnd.UTC().Format(time.RFC3339))

	endpoint := fmt.Sprintf("%s/me/calendars/%s/calendarView?%s", msGraphBase, url.PathEscape(calendarID), q.Encode())

	var result struct {
		Value []struct {
			ID      string `json:"id"`
			Subject string `json:"subject"`
			Start   struct {
				DateTime string `json:"dateTime"`
			} `json:"start"`
			End struct {
				DateTime string `json:"dateTime"`
			} `json:"end"`
		} `json:"value"`
	}
	if err := getJSON(ctx, endpoint, accessToken, &result); err != nil {
		return nil, err
	}

	events := make([]ExternalEvent, 0, len(result.Value))
	for _, item := range result.Value {
		events = append(events, ExternalEvent{
			ExternalID: item.ID,
			Title:      item.Subject,
			Start:      parseGraphTime(item.Start.DateTime),
			End:        parseGraphTime(item.End.DateTime),
		})
	}
	return events, nil
}

// CreateEvent inserts an event into the given calendar. The privacy
// flag maps to the Graph sensitivity field.
func (a *MicrosoftAdapter) CreateEvent(ctx context.Context, accessToken, calendarID string, input EventInput) (*CreatedEvent, error) {
	event := map[string]interface{}{
		"subject": input.Title,
		"body": map[string]string{
			"contentType": "Text",
			"content":     input.Description,
		},
		"start": map[string]string{
			"dateTime": input.Start.UTC().Format("2006-01-02T15:04:05"),
			"timeZone": "UTC",
		},
		"end": map[string]string{
			"dateTime": input.End.UTC().Format("2006-01-02T15:04:05"),
			"timeZone": "UTC",
		},
	}
	if input.Location != "" {
		event["location"] = map[string]string{"displayName": input.Location}
	}
	if len(input.Attendees) > 0 {
		attendees := make([]map[string]interface{}, len(input.Attendees))
		for i, email := range input.Attendees {
			attendees[i] = map[string]interface{}{
				"emailAddress": map[string]string{"address": email},
				"type":         "required",
			}
		}
		event["attendees"] = attendees
	}
	if input.IsPrivate {
		event["sensitivity"] = "private"
	}

	endpoint := fmt.Sprintf("%s/me/calendars/%s/events", msGraphBase, url.PathEscape(calendarID))

	var result struct {
		ID      string `json:"id"`
		WebLink string `json:"webLink"`
	}
	if err := postJSON(ctx, endpoint, accessToken, event, &result); err != nil {
		return nil, err
	}
	return &CreatedEvent{ExternalID: result.ID, JoinURL: result.WebLink}, nil
}

func parseGraphTime(value string) time.Time {
	if t, err := time.Parse(msGraphTimeLayout, value); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	return time.Time{}
}
