package booking

import (
	"context"
	"time"

	"slotify/models"
)

// CreateBookingRequest carries everything needed to create a booking.
// InviteeName, when set, is matched against the user's contacts.
type CreateBookingRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Type        string    `json:"type,omitempty"`
	Location    string    `json:"location,omitempty"`
	IsPrivate   bool      `json:"is_private,omitempty"`
	InviteeName string    `json:"invitee_name,omitempty"`
}

// BookingService defines booking lifecycle operations. Creation also
// attempts a best-effort mirror to the user's connected calendar; the
// returned SyncOutcome records how that went without ever failing the
// booking itself.
type BookingService interface {
	CreateBooking(ctx context.Context, userID string, req CreateBookingRequest) (*models.Booking, *models.SyncOutcome, error)
	GetBookings(ctx context.Context, userID string) ([]models.Booking, error)
	GetBooking(ctx context.Context, userID, bookingID string) (*models.Booking, error)
	ConfirmBooking(ctx context.Context, userID, bookingID string) (*models.Booking, error)
	CancelBooking(ctx context.Context, userID, bookingID string) (*models.Booking, error)
}
