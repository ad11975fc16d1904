package calendar

import (
	"context"
	"time"

	contactRepo "slotify/database/repository/contact"
	"slotify/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Pull window: one month back, two months forward. Events inside it are
// counted for observability only and never imported as local bookings.
const (
	pullWindowBack    = 30 * 24 * time.Hour
	pullWindowForward = 60 * 24 * time.Hour
)

// SyncEngine runs the one-shot, user-triggered pulls and pushes against
// a connected provider. Every operation is single-flight within the
// request; a failed call gets at most one refresh-and-retry.
type SyncEngine struct {
	Contacts contactRepo.ContactRepository
	Conn     *ConnectionManager
	Logger   *zap.Logger
}

// NewSyncEngine creates a sync engine sharing the connection manager's
// adapters and state writes.
func NewSyncEngine(contacts contactRepo.ContactRepository, conn *ConnectionManager, logger *zap.Logger) *SyncEngine {
	return &SyncEngine{Contacts: contacts, Conn: conn, Logger: logger}
}

// PullContactsAndEvents lists the provider's contacts and imports the
// ones not already present locally, then counts events over the fixed
// window. On an authorization failure the whole pull is retried exactly
// once after a token refresh; a second failure marks the connection
// error and surfaces as SyncError.
func (s *SyncEngine) PullContactsAndEvents(ctx context.Context, user *models.User) (*models.PullResult, error) {
	conn := user.Connection()
	if conn.Status != models.ConnectionConnected {
		return nil, &NotConnectedError{UserID: user.ID}
	}
	adapter, err := s.Conn.adapterFor(conn.Provider)
	if err != nil {
		return nil, err
	}

	s.Logger.Info("calendar sync",
		zap.String("event", "pull_attempted"),
		zap.String("user_id", user.ID),
		zap.String("provider", string(conn.Provider)))

	result, err := s.pullOnce(ctx, adapter, user)
	if err != nil {
		if !IsAuthError(err) {
			s.logSyncFailed(user.ID, "pull", err)
			return nil, err
		}
		if refreshErr := s.Conn.EnsureFreshToken(ctx, user); refreshErr != nil {
			s.logSyncFailed(user.ID, "pull", refreshErr)
			return nil, &SyncError{Op: "pull", Err: refreshErr}
		}
		result, err = s.pullOnce(ctx, adapter, user)
		if err != nil {
			s.Conn.markError(user.ID, conn.Provider, "pull_retry", err)
			s.logSyncFailed(user.ID, "pull", err)
			return nil, &SyncError{Op: "pull", Err: err}
		}
	}

	s.Logger.Info("calendar sync",
		zap.String("event", "pull_succeeded"),
		zap.String("user_id", user.ID),
		zap.Int("contacts_imported", result.ContactsImported),
		zap.Int("events_seen", result.EventsSeen))
	return result, nil
}

func (s *SyncEngine) pullOnce(ctx context.Context, adapter Adapter, user *models.User) (*models.PullResult, error) {
	conn := user.Connection()

	externalContacts, err := adapter.ListContacts(ctx, conn.AccessToken)
	if err != nil {
		return nil, err
	}

	imported := 0
	for _, ext := range externalContacts {
		if ext.Name == "" {
			continue
		}
		existing, err := s.Contacts.FindByExternalID(user.ID, ext.ExternalID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			existing, err = s.Contacts.FindByName(user.ID, ext.Name)
			if err != nil {
				return nil, err
			}
		}
		if existing != nil {
			continue
		}

		contact := &models.Contact{
			ID:                uuid.NewString(),
			UserID:            user.ID,
			Name:              ext.Name,
			Email:             ext.Email,
			Role:              ext.Role,
			Presence:          "offline",
			ExternalContactID: ext.ExternalID,
		}
		if err := s.Contacts.Create(contact); err != nil {
			return nil, err
		}
		imported++
	}

	now := time.Now()
	events, err := adapter.ListEvents(ctx, conn.AccessToken, conn.CalendarID, now.Add(-pullWindowBack), now.Add(pullWindowForward))
	if err != nil {
		return nil, err
	}

	return &models.PullResult{ContactsImported: imported, EventsSeen: len(events)}, nil
}

// PushBooking mirrors a local booking into the user's connected
// calendar and returns the provider identifiers for the caller to
// persist. A failure here must never fail booking creation; callers
// report the outcome alongside the created booking.
func (s *SyncEngine) PushBooking(ctx context.Context, user *models.User, booking *models.Booking) (*CreatedEvent, error) {
	conn := user.Connection()
	if conn.Status != models.ConnectionConnected {
		return nil, &NotConnectedError{UserID: user.ID}
	}
	adapter, err := s.Conn.adapterFor(conn.Provider)
	if err != nil {
		return nil, err
	}

	input := EventInput{
		Title:       booking.Title,
		Description: booking.Description,
		Start:       booking.Start,
		End:         booking.End,
		Location:    booking.Location,
		IsPrivate:   booking.IsPrivate,
	}
	if booking.ContactID != "" {
		if email := s.contactEmail(user.ID, booking.ContactID); email != "" {
			input.Attendees = []string{email}
		}
	}

	s.Logger.Info("calendar sync",
		zap.String("event", "push_attempted"),
		zap.String("user_id", user.ID),
		zap.String("booking_id", booking.ID))

	created, err := adapter.CreateEvent(ctx, conn.AccessToken, conn.CalendarID, input)
	if err != nil {
		if !IsAuthError(err) {
			s.logSyncFailed(user.ID, "push", err)
			return nil, err
		}
		if refreshErr := s.Conn.EnsureFreshToken(ctx, user); refreshErr != nil {
			s.logSyncFailed(user.ID, "push", refreshErr)
			return nil, &SyncError{Op: "push", Err: refreshErr}
		}
		conn = user.Connection()
		created, err = adapter.CreateEvent(ctx, conn.AccessToken, conn.CalendarID, input)
		if err != nil {
			s.Conn.markError(user.ID, conn.Provider, "push_retry", err)
			s.logSyncFailed(user.ID, "push", err)
			return nil, &SyncError{Op: "push", Err: err}
		}
	}

	s.Logger.Info("calendar sync",
		zap.String("event", "push_succeeded"),
		zap.String("user_id", user.ID),
		zap.String("booking_id", booking.ID),
		zap.String("external_event_id", created.ExternalID))
	return created, nil
}

func (s *SyncEngine) contactEmail(userID, contactID string) string {
	contacts, err := s.Contacts.GetByUser(userID)
	if err != nil {
		return ""
	}
	for _, c := range contacts {
		if c.ID == contactID {
			return c.Email
		}
	}
	return ""
}

func (s *SyncEngine) logSyncFailed(userID, op string, cause error) {
	s.Logger.Warn("calendar sync",
		zap.String("event", op+"_failed"),
		zap.String("user_id", userID),
		zap.String("reason", cause.Error()))
}
