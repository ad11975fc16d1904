package calendar

import (
	"context"
	"testing"
	"time"

	"slotify/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRoundTrip(t *testing.T) {
	state := EncodeState("user-1", models.ProviderGoogle, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	userID, kind, err := DecodeState(state)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, models.ProviderGoogle, kind)
}

func TestDecodeStateRejectsMalformedInput(t *testing.T) {
	cases := []string{
		"not-base64!!!",
		EncodeState("user-1", "caldav", time.Now()),
		"dXNlci0x", // "user-1", only one segment
	}
	for _, state := range cases {
		_, _, err := DecodeState(state)
		assert.Error(t, err, "state %q should be rejected", state)
	}
}

func TestBeginConnectionRequiresCredentials(t *testing.T) {
	repo := newFakeUserRepo(&models.User{ID: "user-1"})
	m := testManager(repo, &fakeAdapter{}, "secret")
	m.Credentials[models.ProviderGoogle] = ProviderCredentials{}

	_, err := m.BeginConnection("user-1", models.ProviderGoogle)

	var cfg *ConfigurationError
	require.ErrorAs(t, err, &cfg)
	assert.Empty(t, repo.writes, "a configuration failure must not touch connection state")
}

func TestCompleteConnectionWritesConnectedState(t *testing.T) {
	repo := newFakeUserRepo(&models.User{ID: "user-1"})
	adapter := &fakeAdapter{
		calendars: []CalendarInfo{
			{ID: "cal-alt", Name: "Work"},
			{ID: "cal-main", Name: "Personal", IsDefault: true},
		},
	}
	m := testManager(repo, adapter, "secret")

	summary, err := m.CompleteConnection(context.Background(), "user-1", models.ProviderGoogle, "auth-code")
	require.NoError(t, err)

	assert.Equal(t, models.ConnectionConnected, summary.Status)
	assert.Equal(t, "cal-main", summary.CalendarID, "the default calendar wins over listing order")

	conn := repo.users["user-1"].Connection()
	assert.Equal(t, models.ConnectionConnected, conn.Status)
	assert.Equal(t, "access", conn.AccessToken)
	assert.Equal(t, "refresh", conn.RefreshToken)
	assert.Equal(t, "cal-main", conn.CalendarID)
}

func TestCompleteConnectionRetriesAsPublicClient(t *testing.T) {
	repo := newFakeUserRepo(&models.User{ID: "user-1"})
	adapter := &fakeAdapter{
		exchangeErrs: []error{&ProviderHTTPError{StatusCode: 401, Body: "client secret not allowed"}, nil},
		calendars:    []CalendarInfo{{ID: "cal-1", IsDefault: true}},
	}
	m := testManager(repo, adapter, "secret")

	_, err := m.CompleteConnection(context.Background(), "user-1", models.ProviderGoogle, "auth-code")
	require.NoError(t, err)

	require.Len(t, adapter.exchangeCalls, 2)
	assert.Equal(t, "secret", adapter.exchangeCalls[0])
	assert.Equal(t, "", adapter.exchangeCalls[1], "the retry must drop the client secret")
}

func TestCompleteConnectionMarksErrorOnDiscoveryFailure(t *testing.T) {
	repo := newFakeUserRepo(&models.User{ID: "user-1"})
	adapter := &fakeAdapter{
		calendarsErr: &ProviderHTTPError{StatusCode: 500, Body: "boom"},
	}
	m := testManager(repo, adapter, "secret")

	_, err := m.CompleteConnection(context.Background(), "user-1", models.ProviderGoogle, "auth-code")

	var ce *ConnectionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "calendar discovery", ce.Stage)

	conn := repo.users["user-1"].Connection()
	assert.Equal(t, models.ConnectionError, conn.Status)
	assert.Empty(t, conn.AccessToken, "a failed handshake must not leave tokens behind")
}

func TestFailAuthorizationMarksError(t *testing.T) {
	user := connectedUser("user-1", models.ProviderGoogle)
	repo := newFakeUserRepo(user)
	m := testManager(repo, &fakeAdapter{}, "secret")

	state := EncodeState("user-1", models.ProviderGoogle, time.Now())
	require.NoError(t, m.FailAuthorization(state, "access_denied"))
	assert.Equal(t, models.ConnectionError, repo.users["user-1"].Connection().Status)

	// A malformed state identifies nobody and changes nothing.
	before := len(repo.writes)
	assert.Error(t, m.FailAuthorization("garbage!!", "access_denied"))
	assert.Len(t, repo.writes, before)
}

func TestDisconnectIsIdempotent(t *testing.T) {
	user := connectedUser("user-1", models.ProviderGoogle)
	repo := newFakeUserRepo(user)
	m := testManager(repo, &fakeAdapter{}, "secret")

	require.NoError(t, m.Disconnect("user-1"))
	require.NoError(t, m.Disconnect("user-1"))

	conn := repo.users["user-1"].Connection()
	assert.Equal(t, models.ConnectionDisconnected, conn.Status)
	assert.Empty(t, conn.AccessToken)
	assert.Empty(t, conn.CalendarID)
}

func TestEnsureFreshTokenCarriesRefreshTokenOver(t *testing.T) {
	user := connectedUser("user-1", models.ProviderGoogle)
	repo := newFakeUserRepo(user)
	adapter := &fakeAdapter{refreshToken: &TokenSet{AccessToken: "fresh-access"}}
	m := testManager(repo, adapter, "secret")

	require.NoError(t, m.EnsureFreshToken(context.Background(), user))

	conn := user.Connection()
	assert.Equal(t, "fresh-access", conn.AccessToken)
	assert.Equal(t, "refresh", conn.RefreshToken, "providers that do not reissue keep the old refresh token")
	assert.Equal(t, 1, adapter.refreshCalls)
}

func TestEnsureFreshTokenFailureMarksError(t *testing.T) {
	user := connectedUser("user-1", models.ProviderGoogle)
	repo := newFakeUserRepo(user)
	adapter := &fakeAdapter{refreshErr: &ProviderHTTPError{StatusCode: 400, Body: "invalid_grant"}}
	m := testManager(repo, adapter, "secret")

	err := m.EnsureFreshToken(context.Background(), user)
	require.Error(t, err)

	assert.Equal(t, models.ConnectionError, user.Connection().Status)
	assert.Equal(t, models.ConnectionError, repo.users["user-1"].Connection().Status)
}

func TestEnsureFreshTokenRequiresConnection(t *testing.T) {
	user := &models.User{ID: "user-1"}
	repo := newFakeUserRepo(user)
	m := testManager(repo, &fakeAdapter{}, "secret")

	err := m.EnsureFreshToken(context.Background(), user)

	var nc *NotConnectedError
	assert.ErrorAs(t, err, &nc)
}
