package booking

import (
	"context"
	"strings"
	"time"

	bookingRepo "slotify/database/repository/booking"
	contactRepo "slotify/database/repository/contact"
	userRepo "slotify/database/repository/user"
	"slotify/models"
	"slotify/services/calendar"
	"slotify/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo     bookingRepo.BookingRepository
	Contacts contactRepo.ContactRepository
	Users    userRepo.UserRepository
	Sync     *calendar.SyncEngine
}

// CreateBooking validates the request, persists the booking and then
// tries to mirror it to the user's connected calendar. The mirror is
// best effort: its outcome is reported, never propagated as a failure.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, userID string, req CreateBookingRequest) (*models.Booking, *models.SyncOutcome, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if req.Start.IsZero() || req.End.IsZero() {
		return nil, nil, &ValidationError{Field: "start/end", Reason: "must be set"}
	}
	if !req.End.After(req.Start) {
		return nil, nil, &ValidationError{Field: "end", Reason: "must be after start"}
	}

	rec := &models.Booking{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Start:       req.Start,
		End:         req.End,
		Type:        req.Type,
		Status:      models.BookingScheduled,
		Location:    req.Location,
		IsPrivate:   req.IsPrivate,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if name := strings.TrimSpace(req.InviteeName); name != "" {
		contact, err := s.Contacts.FindByName(userID, name)
		if err != nil {
			utils.GetLogger().Warn("CreateBooking: contact lookup failed", zap.Error(err))
		} else if contact != nil {
			rec.ContactID = contact.ID
		}
	}

	if err := s.Repo.Create(rec); err != nil {
		utils.GetLogger().Error("CreateBooking: failed to persist booking", zap.Error(err))
		return nil, nil, err
	}

	outcome := s.mirrorToCalendar(ctx, userID, rec)
	return rec, outcome, nil
}

// mirrorToCalendar pushes the booking to the connected provider and
// folds whatever happens into a SyncOutcome. The booking stays valid
// regardless; on success the provider identifiers are written back.
func (s *DefaultBookingService) mirrorToCalendar(ctx context.Context, userID string, rec *models.Booking) *models.SyncOutcome {
	user, err := s.Users.GetByID(userID)
	if err != nil {
		return &models.SyncOutcome{Status: models.SyncSkipped, Reason: "user record unavailable"}
	}
	if user.Connection().Status != models.ConnectionConnected {
		return &models.SyncOutcome{Status: models.SyncSkipped, Reason: "no calendar connected"}
	}

	created, err := s.Sync.PushBooking(ctx, user, rec)
	if err != nil {
		return &models.SyncOutcome{Status: models.SyncFailed, Reason: err.Error()}
	}

	updated, err := s.Repo.UpdateFields(rec.ID, map[string]interface{}{
		"external_event_id":  created.ExternalID,
		"external_event_url": created.JoinURL,
	})
	if err != nil {
		utils.GetLogger().Warn("CreateBooking: failed to record external event", zap.Error(err))
	} else {
		*rec = *updated
	}

	return &models.SyncOutcome{
		Status:           models.SyncSucceeded,
		ExternalEventID:  created.ExternalID,
		ExternalEventURL: created.JoinURL,
	}
}

// GetBookings returns the user's bookings, newest first.
func (s *DefaultBookingService) GetBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.Repo.GetByUser(userID)
}

// GetBooking fetches one booking, scoped to its owner.
func (s *DefaultBookingService) GetBooking(ctx context.Context, userID, bookingID string) (*models.Booking, error) {
	rec, err := s.Repo.GetByID(bookingID)
	if err != nil || rec == nil || rec.UserID != userID {
		return nil, &NotFoundError{BookingID: bookingID}
	}
	return rec, nil
}

// ConfirmBooking moves a scheduled booking to confirmed.
func (s *DefaultBookingService) ConfirmBooking(ctx context.Context, userID, bookingID string) (*models.Booking, error) {
	rec, err := s.GetBooking(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if rec.Status != models.BookingScheduled {
		return nil, &StateError{BookingID: bookingID, Status: string(rec.Status), Op: "confirm"}
	}
	return s.Repo.UpdateFields(bookingID, map[string]interface{}{
		"status":     models.BookingConfirmed,
		"updated_at": time.Now(),
	})
}

// CancelBooking marks a booking cancelled. Cancellation is terminal:
// a cancelled booking cannot be confirmed or cancelled again.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, userID, bookingID string) (*models.Booking, error) {
	rec, err := s.GetBooking(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if rec.Status == models.BookingCancelled {
		return nil, &StateError{BookingID: bookingID, Status: string(rec.Status), Op: "cancel"}
	}
	return s.Repo.UpdateFields(bookingID, map[string]interface{}{
		"status":     models.BookingCancelled,
		"updated_at": time.Now(),
	})
}
