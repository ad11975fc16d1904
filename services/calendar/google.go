package calendar

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"slotify/models"
)

const (
	googleAuthURL         = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL        = "https://oauth2.googleapis.com/token"
	googleCalendarAPIBase = "https://www.googleapis.com/calendar/v3"
	googlePeopleAPI       = "https://people.googleapis.com/v1/people/me/connections"

	googleScopes = "https://www.googleapis.com/auth/calendar " +
		"https://www.googleapis.com/auth/userinfo.profile " +
		"https://www.googleapis.com/auth/contacts.readonly"
)

// GoogleAdapter talks to the Google Calendar v3 and People v1 REST APIs.
type GoogleAdapter struct{}

func (a *GoogleAdapter) Kind() models.ProviderKind { return models.ProviderGoogle }

// BuildAuthorizationURL constructs the consent URL. access_type=offline
// plus prompt=consent is what makes Google issue a refresh token.
func (a *GoogleAdapter) BuildAuthorizationURL(clientID, redirectURI, state string) string {
	q := url.Values{}
	q.Set("client_id", clientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("response_type", "code")
	q.Set("scope", googleScopes)
	q.Set("access_type", "offline")
	q.Set("prompt", "consent")
	q.Set("state", state)
	return googleAuthURL + "?" + q.Encode()
}

type googleTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// ExchangeCode trades an authorization code for a token pair.
func (a *GoogleAdapter) ExchangeCode(ctx context.Context, code, clientID, clientSecret, redirectURI string) (*TokenSet, error) {
	form := url.Values{}
	form.Set("code", code)
	form.Set("client_id", clientID)
	form.Set("redirect_uri", redirectURI)
	form.Set("grant_type", "authorization_code")
	if clientSecret != "" {
		form.Set("client_secret", clientSecret)
	}

	var tok googleTokenResponse
	if err := postForm(ctx, googleTokenURL, form, &tok); err != nil {
		return nil, err
	}
	return &TokenSet{AccessToken: tok.AccessToken, RefreshToken: tok.RefreshToken, ExpiresIn: tok.ExpiresIn}, nil
}

// RefreshToken exchanges a refresh token for a fresh access token.
// Google does not reissue the refresh token on this grant.
func (a *GoogleAdapter) RefreshToken(ctx context.Context, refreshToken, clientID, clientSecret string) (*TokenSet, error) {
	form := url.Values{}
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", clientID)
	form.Set("grant_type", "refresh_token")
	if clientSecret != "" {
		form.Set("client_secret", clientSecret)
	}

	var tok googleTokenResponse
	if err := postForm(ctx, googleTokenURL, form, &tok); err != nil {
		return nil, err
	}
	return &TokenSet{AccessToken: tok.AccessToken, RefreshToken: tok.RefreshToken, ExpiresIn: tok.ExpiresIn}, nil
}

// ListCalendars returns the user's calendar list. The "primary"
// calendar is Google's default designator.
func (a *GoogleAdapter) ListCalendars(ctx context.Context, accessToken string) ([]CalendarInfo, error) {
	var result struct {
		Items []struct {
			ID      string `json:"id"`
			Summary string `json:"summary"`
			Primary bool   `json:"primary"`
		} `json:"items"`
	}
	if err := getJSON(ctx, googleCalendarAPIBase+"/users/me/calendarList", accessToken, &result); err != nil {
		return nil, err
	}

	calendars := make([]CalendarInfo, 0, len(result.Items))
	for _, item := range result.Items {
		calendars = append(calendars, CalendarInfo{ID: item.ID, Name: item.Summary, IsDefault: item.Primary})
	}
	return calendars, nil
}

// ListContacts returns the user's People API connections.
func (a *GoogleAdapter) ListContacts(ctx context.Context, accessToken string) ([]ExternalContact, error) {
	q := url.Values{}
	q.Set("personFields", "names,emailAddresses,organizations")
	q.Set("pageSize", "100")

	var result struct {
		Connections []struct {
			ResourceName string `json:"resourceName"`
			Names        []struct {
				DisplayName string `json:"displayName"`
			} `json:"names"`
			EmailAddresses []struct {
				Value string `json:"value"`
			} `json:"emailAddresses"`
			Organizations []struct {
				Title string `json:"title"`
			} `json:"organizations"`
		} `json:"connections"`
	}
	if err := getJSON(ctx, googlePeopleAPI+"?"+q.Encode(), accessToken, &result); err != nil {
		return nil, err
	}

	contacts := make([]ExternalContact, 0, len(result.Connections))
	for _, conn := range result.Connections {
		contact := ExternalContact{ExternalID: conn.ResourceName}
		if len(conn.Names) > 0 {
			contact.Name = conn.Names[0].DisplayName
		}
		if len(conn.EmailAddresses) > 0 {
			contact.Email = conn.EmailAddresses[0].Value
		}
		if len(conn.Organizations) > 0 {
			contact.Role = conn.Organizations[0].Title
		}
		contacts = append(contacts, contact)
	}
	return contacts, nil
}

// ListEvents returns single events in [rangeStart, rangeEnd).
func (a *GoogleAdapter) ListEvents(ctx context.Context, accessToken, calendarID string, rangeStart, rangeEnd time.Time) ([]ExternalEvent, error) {
	q := url.Values{}
	q.Set("timeMin", rangeStart.Format(time.RFC3339))
	q.Set("timeMax", rangeEnd.Format(time.RFC3339))
	q.Set("singleEvents", "true")
	q.Set("orderBy", "startTime")

	endpoint := fmt.Sprintf("%s/calendars/%s/events?%s", googleCalendarAPIBase, url.PathEscape(calendarID), q.Encode())

	var result struct {
		Items []struct {
			ID      string `json:"id"`
			Summary string `json:"summary"`
			Start   struct {
				DateTime string `json:"dateTime"`
				Date     string `json:"date"`
			} `json:"start"`
			End struct {
				DateTime string `json:"dateTime"`
				Date     string `json:"date"`
			} `json:"end"`
		} `json:"items"`
	}
	if err := getJSON(ctx, endpoint, accessToken, &result); err != nil {
		return nil, err
	}

	events := make([]ExternalEvent, 0, len(result.Items))
	for _, item := range result.Items {
		events = append(events, ExternalEvent{
			ExternalID: item.ID,
			Title:      item.Summary,
			Start:      parseGoogleTime(item.Start.DateTime, item.Start.Date),
			End:        parseGoogleTime(item.End.DateTime, item.End.Date),
		})
	}
	return events, nil
}

// CreateEvent inserts an event into the given calendar. The privacy
// flag maps to the event visibility field.
func (a *GoogleAdapter) CreateEvent(ctx context.Context, accessToken, calendarID string, input EventInput) (*CreatedEvent, error) {
	event := map[string]interface{}{
		"summary":     input.Title,
		"description": input.Description,
		"start":       map[string]string{"dateTime": input.Start.Format(time.RFC3339)},
		"end":         map[string]string{"dateTime": input.End.Format(time.RFC3339)},
	}
	if input.Location != "" {
		event["location"] = input.Location
	}
	if len(input.Attendees) > 0 {
		attendees := make([]map[string]string, len(input.Attendees))
		for i, email := range input.Attendees {
			attendees[i] = map[string]string{"email": email}
		}
		event["attendees"] = attendees
	}
	if input.IsPrivate {
		event["visibility"] = "private"
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events", googleCalendarAPIBase, url.PathEscape(calendarID))

	var result struct {
		ID       string `json:"id"`
		HTMLLink string `json:"htmlLink"`
	}
	if err := postJSON(ctx, endpoint, accessToken, event, &result); err != nil {
		return nil, err
	}
	return &CreatedEvent{ExternalID: result.ID, JoinURL: result.HTMLLink}, nil
}

// parseGoogleTime handles both dateTime (timed events) and date
// (all-day events) fields.
func parseGoogleTime(dateTime, date string) time.Time {
	if dateTime != "" {
		if t, err := time.Parse(time.RFC3339, dateTime); err == nil {
			return t
		}
	}
	if date != "" {
		if t, err := time.Parse("2006-01-02", date); err == nil {
			return t
		}
	}
	return time.Time{}
}
