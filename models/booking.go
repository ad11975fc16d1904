package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingScheduled BookingStatus = "scheduled"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking represents a confirmed appointment on the user's own
// calendar. Bookings are never deleted, only marked cancelled.
type Booking struct {
	ID          string        `bson:"id" json:"id"`
	UserID      string        `bson:"user_id" json:"user_id"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	Start       time.Time     `bson:"start" json:"start"`
	End         time.Time     `bson:"end" json:"end"`
	ContactID   string        `bson:"contact_id,omitempty" json:"contact_id,omitempty"`
	Type        string        `bson:"type,omitempty" json:"type,omitempty"`
	Status      BookingStatus `bson:"status" json:"status"`
	Location    string        `bson:"location,omitempty" json:"location,omitempty"`
	IsPrivate   bool          `bson:"is_private,omitempty" json:"is_private,omitempty"`

	// Set once the booking has been mirrored to the connected provider.
	ExternalEventID  string `bson:"external_event_id,omitempty" json:"external_event_id,omitempty"`
	ExternalEventURL string `bson:"external_event_url,omitempty" json:"external_event_url,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
