package models

import "time"

// TimeSlot is a candidate start/end window offered to the user.
// Selecting one is what creates a Booking.
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}
