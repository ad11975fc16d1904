package calendar

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"slotify/config"
	userRepo "slotify/database/repository/user"
	"slotify/models"

	"go.uber.org/zap"
)

// ProviderCredentials is one provider's OAuth client registration.
type ProviderCredentials struct {
	ClientID     string
	ClientSecret string
}

// ConnectionManager mediates the three-legged OAuth handshake and owns
// every write to a user's connection state. Each write replaces the
// full state record; concurrent attempts for one user are last-write-
// wins, which is acceptable because a user drives one flow at a time.
type ConnectionManager struct {
	Repo        userRepo.UserRepository
	Adapters    map[models.ProviderKind]Adapter
	Credentials map[models.ProviderKind]ProviderCredentials
	RedirectURI string
	Logger      *zap.Logger

	now func() time.Time
}

// NewConnectionManager wires the two provider adapters with credentials
// from the app config.
func NewConnectionManager(repo userRepo.UserRepository, logger *zap.Logger) *ConnectionManager {
	return &ConnectionManager{
		Repo: repo,
		Adapters: map[models.ProviderKind]Adapter{
			models.ProviderGoogle:    &GoogleAdapter{},
			models.ProviderMicrosoft: &MicrosoftAdapter{},
		},
		Credentials: map[models.ProviderKind]ProviderCredentials{
			models.ProviderGoogle: {
				ClientID:     config.AppConfig.GoogleClientID,
				ClientSecret: config.AppConfig.GoogleClientSecret,
			},
			models.ProviderMicrosoft: {
				ClientID:     config.AppConfig.MSClientID,
				ClientSecret: config.AppConfig.MSClientSecret,
			},
		},
		RedirectURI: config.AppConfig.OAuthRedirectURI,
		Logger:      logger,
		now:         time.Now,
	}
}

func (m *ConnectionManager) clock() time.Time {
	if m.now != nil {
		return m.now()
	}
	return time.Now()
}

func (m *ConnectionManager) adapterFor(kind models.ProviderKind) (Adapter, error) {
	adapter, ok := m.Adapters[kind]
	if !ok {
		return nil, fmt.Errorf("unsupported calendar provider %q", kind)
	}
	return adapter, nil
}

func (m *ConnectionManager) credentialsFor(kind models.ProviderKind) (ProviderCredentials, error) {
	creds := m.Credentials[kind]
	if creds.ClientID == "" {
		return ProviderCredentials{}, &ConfigurationError{Provider: kind, Missing: "client id"}
	}
	return creds, nil
}

// EncodeState packs userID:providerKind:timestamp into the opaque OAuth
// state parameter so the callback can be correlated without a
// server-side session.
func EncodeState(userID string, kind models.ProviderKind, at time.Time) string {
	raw := fmt.Sprintf("%s:%s:%d", userID, kind, at.Unix())
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeState recovers the userID and provider kind from a callback
// state parameter.
func DecodeState(state string) (userID string, kind models.ProviderKind, err error) {
	raw, err := base64.RawURLEncoding.DecodeString(state)
	if err != nil {
		return "", "", fmt.Errorf("malformed state parameter: %w", err)
	}
	parts := strings.Split(string(raw), ":")
	if len(parts) != 3 {
		return "", "", fmt.Errorf("malformed state parameter: expected 3 segments, got %d", len(parts))
	}
	if _, err := strconv.ParseInt(parts[2], 10, 64); err != nil {
		return "", "", fmt.Errorf("malformed state timestamp: %w", err)
	}
	kind = models.ProviderKind(parts[1])
	if !models.KnownProvider(kind) {
		return "", "", fmt.Errorf("unknown provider %q in state", parts[1])
	}
	return parts[0], kind, nil
}

// BeginConnection returns the provider authorization URL for the user
// to visit. No state is persisted; the state parameter carries the
// correlation.
func (m *ConnectionManager) BeginConnection(userID string, kind models.ProviderKind) (string, error) {
	adapter, err := m.adapterFor(kind)
	if err != nil {
		return "", err
	}
	creds, err := m.credentialsFor(kind)
	if err != nil {
		return "", err
	}

	state := EncodeState(userID, kind, m.clock())
	authURL := adapter.BuildAuthorizationURL(creds.ClientID, m.RedirectURI, state)

	m.Logger.Info("calendar connection",
		zap.String("event", "connect_attempted"),
		zap.String("user_id", userID),
		zap.String("provider", string(kind)))
	return authURL, nil
}

// CompleteConnection exchanges the authorization code, discovers the
// user's default calendar and atomically writes the connected state.
// Any failure in either step writes status=error so the previous state
// never goes silently stale.
func (m *ConnectionManager) CompleteConnection(ctx context.Context, userID string, kind models.ProviderKind, code string) (*models.ConnectionSummary, error) {
	adapter, err := m.adapterFor(kind)
	if err != nil {
		return nil, err
	}
	creds, err := m.credentialsFor(kind)
	if err != nil {
		return nil, err
	}

	tok, err := adapter.ExchangeCode(ctx, code, creds.ClientID, creds.ClientSecret, m.RedirectURI)
	if err != nil && creds.ClientSecret != "" && isSecretRejection(err) {
		// Some app registrations are public clients and reject a
		// secret outright; retry the exchange without it.
		tok, err = adapter.ExchangeCode(ctx, code, creds.ClientID, "", m.RedirectURI)
	}
	if err != nil {
		m.markError(userID, kind, "token_exchange", err)
		return nil, &ConnectionError{Stage: "token exchange", Err: err}
	}

	calendarID, err := m.discoverDefaultCalendar(ctx, adapter, tok.AccessToken)
	if err != nil {
		m.markError(userID, kind, "calendar_discovery", err)
		return nil, &ConnectionError{Stage: "calendar discovery", Err: err}
	}

	conn := models.Connection{
		Status:       models.ConnectionConnected,
		Provider:     kind,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		CalendarID:   calendarID,
	}
	if err := m.Repo.ReplaceConnectionState(userID, conn); err != nil {
		return nil, &ConnectionError{Stage: "state persistence", Err: err}
	}

	m.Logger.Info("calendar connection",
		zap.String("event", "connect_succeeded"),
		zap.String("user_id", userID),
		zap.String("provider", string(kind)),
		zap.String("calendar_id", calendarID))

	return &models.ConnectionSummary{
		Provider:   kind,
		Status:     models.ConnectionConnected,
		CalendarID: calendarID,
	}, nil
}

// HandleCallback consumes a provider redirect. A malformed state leaves
// the user's connection untouched.
func (m *ConnectionManager) HandleCallback(ctx context.Context, state, code string) (*models.ConnectionSummary, error) {
	userID, kind, err := DecodeState(state)
	if err != nil {
		return nil, err
	}
	return m.CompleteConnection(ctx, userID, kind, code)
}

// FailAuthorization records a consent denial or provider-reported
// authorization error for the user identified by the callback state.
func (m *ConnectionManager) FailAuthorization(state, reason string) error {
	userID, kind, err := DecodeState(state)
	if err != nil {
		return err
	}
	m.markError(userID, kind, "authorization", fmt.Errorf("%s", reason))
	return nil
}

// Disconnect clears all token and calendar fields. Idempotent.
func (m *ConnectionManager) Disconnect(userID string) error {
	if err := m.Repo.ReplaceConnectionState(userID, models.Disconnected()); err != nil {
		return err
	}
	m.Logger.Info("calendar connection",
		zap.String("event", "disconnected"),
		zap.String("user_id", userID))
	return nil
}

// EnsureFreshToken performs exactly one refresh of the user's access
// token, persisting the new pair on success. The refresh token is
// carried over when the provider does not reissue one. On refresh
// failure the connection is marked error and the failure propagates;
// the caller may retry its original call exactly once after success.
func (m *ConnectionManager) EnsureFreshToken(ctx context.Context, user *models.User) error {
	conn := user.Connection()
	if conn.Status != models.ConnectionConnected {
		return &NotConnectedError{UserID: user.ID}
	}
	adapter, err := m.adapterFor(conn.Provider)
	if err != nil {
		return err
	}
	creds, err := m.credentialsFor(conn.Provider)
	if err != nil {
		return err
	}

	tok, err := adapter.RefreshToken(ctx, conn.RefreshToken, creds.ClientID, creds.ClientSecret)
	if err != nil {
		m.markError(user.ID, conn.Provider, "token_refresh", err)
		user.ApplyConnection(models.Connection{Status: models.ConnectionError, Provider: conn.Provider})
		return fmt.Errorf("token refresh failed: %w", err)
	}

	conn.AccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		conn.RefreshToken = tok.RefreshToken
	}
	if err := m.Repo.ReplaceConnectionState(user.ID, conn); err != nil {
		return err
	}
	user.ApplyConnection(conn)

	m.Logger.Info("calendar connection",
		zap.String("event", "token_refreshed"),
		zap.String("user_id", user.ID),
		zap.String("provider", string(conn.Provider)))
	return nil
}

func (m *ConnectionManager) discoverDefaultCalendar(ctx context.Context, adapter Adapter, accessToken string) (string, error) {
	calendars, err := adapter.ListCalendars(ctx, accessToken)
	if err != nil {
		return "", err
	}
	for _, cal := range calendars {
		if cal.IsDefault {
			return cal.ID, nil
		}
	}
	if len(calendars) > 0 {
		return calendars[0].ID, nil
	}
	return "", fmt.Errorf("provider returned no calendars")
}

func (m *ConnectionManager) markError(userID string, kind models.ProviderKind, stage string, cause error) {
	errConn := models.Connection{Status: models.ConnectionError, Provider: kind}
	if err := m.Repo.ReplaceConnectionState(userID, errConn); err != nil {
		m.Logger.Error("calendar connection",
			zap.String("event", "state_write_failed"),
			zap.String("user_id", userID),
			zap.Error(err))
	}
	m.Logger.Warn("calendar connection",
		zap.String("event", "connect_failed"),
		zap.String("user_id", userID),
		zap.String("provider", string(kind)),
		zap.String("stage", stage),
		zap.String("reason", cause.Error()))
}

func isSecretRejection(err error) bool {
	var pe *ProviderHTTPError
	if !errors.As(err, &pe) {
		return false
	}
	return pe.StatusCode == 400 || pe.StatusCode == 401
}
