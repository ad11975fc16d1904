package bookingRepo

import (
	"slotify/models"
)

// BookingRepository defines methods for booking data access.
type BookingRepository interface {
	// Create inserts a new booking record.
	Create(booking *models.Booking) error
	// GetByID retrieves a booking by its unique ID.
	GetByID(id string) (*models.Booking, error)
	// GetByUser retrieves all bookings owned by a user.
	GetByUser(userID string) ([]models.Booking, error)
	// UpdateFields applies a partial update to a booking and returns
	// the updated record. Bookings are never removed.
	UpdateFields(id string, fields map[string]interface{}) (*models.Booking, error)
}
