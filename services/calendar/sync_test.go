package calendar

import (
	"context"
	"testing"
	"time"

	"slotify/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testSyncEngine(repo *fakeUserRepo, adapter *fakeAdapter, contacts *fakeContactRepo) *SyncEngine {
	return &SyncEngine{
		Contacts: contacts,
		Conn:     testManager(repo, adapter, "secret"),
		Logger:   zap.NewNop(),
	}
}

func TestPullRequiresConnection(t *testing.T) {
	user := &models.User{ID: "user-1"}
	engine := testSyncEngine(newFakeUserRepo(user), &fakeAdapter{}, &fakeContactRepo{})

	_, err := engine.PullContactsAndEvents(context.Background(), user)

	var nc *NotConnectedError
	assert.ErrorAs(t, err, &nc)
}

func TestPullImportsOnlyNewContacts(t *testing.T) {
	user := connectedUser("user-1", models.ProviderGoogle)
	contacts := &fakeContactRepo{contacts: []models.Contact{
		{ID: "c-1", UserID: "user-1", Name: "Ada Lovelace", ExternalContactID: "ext-ada"},
		{ID: "c-2", UserID: "user-1", Name: "Grace Hopper"},
	}}
	adapter := &fakeAdapter{
		contacts: []ExternalContact{
			{ExternalID: "ext-ada", Name: "Ada Lovelace"},  // dedupe by external id
			{ExternalID: "ext-gh", Name: "grace hopper"},   // dedupe by name, case-insensitive
			{ExternalID: "ext-new", Name: "Alan Turing"},   // genuinely new
			{ExternalID: "ext-anon", Name: "", Email: "x"}, // nameless entries are skipped
		},
		events: []ExternalEvent{{ExternalID: "e-1"}, {ExternalID: "e-2"}},
	}
	engine := testSyncEngine(newFakeUserRepo(user), adapter, contacts)

	result, err := engine.PullContactsAndEvents(context.Background(), user)
	require.NoError(t, err)

	assert.Equal(t, 1, result.ContactsImported)
	assert.Equal(t, 2, result.EventsSeen)
	require.Len(t, contacts.contacts, 3)
	assert.Equal(t, "Alan Turing", contacts.contacts[2].Name)
	assert.Equal(t, "ext-new", contacts.contacts[2].ExternalContactID)
}

func TestPullIsIdempotent(t *testing.T) {
	user := connectedUser("user-1", models.ProviderGoogle)
	contacts := &fakeContactRepo{}
	adapter := &fakeAdapter{
		contacts: []ExternalContact{{ExternalID: "ext-1", Name: "Ada Lovelace"}},
	}
	engine := testSyncEngine(newFakeUserRepo(user), adapter, contacts)

	first, err := engine.PullContactsAndEvents(context.Background(), user)
	require.NoError(t, err)
	second, err := engine.PullContactsAndEvents(context.Background(), user)
	require.NoError(t, err)

	assert.Equal(t, 1, first.ContactsImported)
	assert.Equal(t, 0, second.ContactsImported)
	assert.Len(t, contacts.contacts, 1)
}

func TestPullRetriesOnceAfterTokenRefresh(t *testing.T) {
	user := connectedUser("user-1", models.ProviderGoogle)
	adapter := &fakeAdapter{
		contactsErrs: []error{&ProviderHTTPError{StatusCode: 401, Body: "expired"}, nil},
		contacts:     []ExternalContact{{ExternalID: "ext-1", Name: "Ada Lovelace"}},
	}
	engine := testSyncEngine(newFakeUserRepo(user), adapter, &fakeContactRepo{})

	result, err := engine.PullContactsAndEvents(context.Background(), user)
	require.NoError(t, err)

	assert.Equal(t, 1, result.ContactsImported)
	assert.Equal(t, 1, adapter.refreshCalls, "exactly one refresh per failed call")
	assert.Equal(t, 2, adapter.contactCalls)
	assert.Equal(t, "fresh-access", user.Connection().AccessToken)
}

func TestPullSecondAuthFailureMarksConnectionError(t *testing.T) {
	user := connectedUser("user-1", models.ProviderGoogle)
	repo := newFakeUserRepo(user)
	adapter := &fakeAdapter{
		contactsErrs: []error{
			&ProviderHTTPError{StatusCode: 401, Body: "expired"},
			&ProviderHTTPError{StatusCode: 401, Body: "still expired"},
		},
	}
	engine := testSyncEngine(repo, adapter, &fakeContactRepo{})

	_, err := engine.PullContactsAndEvents(context.Background(), user)

	var se *SyncError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "pull", se.Op)
	assert.Equal(t, models.ConnectionError, repo.users["user-1"].Connection().Status)
}

func TestPullSurfacesNonAuthErrorsDirectly(t *testing.T) {
	user := connectedUser("user-1", models.ProviderGoogle)
	adapter := &fakeAdapter{
		contactsErrs: []error{&ProviderHTTPError{StatusCode: 503, Body: "unavailable"}},
	}
	engine := testSyncEngine(newFakeUserRepo(user), adapter, &fakeContactRepo{})

	_, err := engine.PullContactsAndEvents(context.Background(), user)

	var pe *ProviderHTTPError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 503, pe.StatusCode)
	assert.Equal(t, 0, adapter.refreshCalls, "non-auth failures never trigger a refresh")
}

func TestPushBookingReturnsProviderIdentifiers(t *testing.T) {
	user := connectedUser("user-1", models.ProviderGoogle)
	contacts := &fakeContactRepo{contacts: []models.Contact{
		{ID: "c-1", UserID: "user-1", Name: "Ada Lovelace", Email: "ada@example.com"},
	}}
	adapter := &fakeAdapter{
		created: &CreatedEvent{ExternalID: "evt-42", JoinURL: "https://cal.example.com/evt-42"},
	}
	engine := testSyncEngine(newFakeUserRepo(user), adapter, contacts)

	rec := &models.Booking{
		ID:        "b-1",
		UserID:    "user-1",
		Title:     "Coffee chat",
		Start:     time.Date(2026, 3, 11, 14, 0, 0, 0, time.UTC),
		End:       time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC),
		ContactID: "c-1",
		IsPrivate: true,
	}

	created, err := engine.PushBooking(context.Background(), user, rec)
	require.NoError(t, err)

	assert.Equal(t, "evt-42", created.ExternalID)
	assert.Equal(t, "https://cal.example.com/evt-42", created.JoinURL)

	require.Len(t, adapter.createdInputs, 1)
	input := adapter.createdInputs[0]
	assert.Equal(t, "Coffee chat", input.Title)
	assert.True(t, input.IsPrivate)
	assert.Equal(t, []string{"ada@example.com"}, input.Attendees)
}

func TestPushBookingRetriesOnceThenFails(t *testing.T) {
	user := connectedUser("user-1", models.ProviderGoogle)
	repo := newFakeUserRepo(user)
	adapter := &fakeAdapter{
		createErrs: []error{
			&ProviderHTTPError{StatusCode: 401, Body: "expired"},
			&ProviderHTTPError{StatusCode: 401, Body: "still expired"},
		},
	}
	engine := testSyncEngine(repo, adapter, &fakeContactRepo{})

	rec := &models.Booking{ID: "b-1", UserID: "user-1", Title: "Call"}
	_, err := engine.PushBooking(context.Background(), user, rec)

	var se *SyncError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "push", se.Op)
	assert.Equal(t, 2, adapter.createCalls)
	assert.Equal(t, models.ConnectionError, repo.users["user-1"].Connection().Status)
}
