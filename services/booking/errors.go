package booking

import "fmt"

// ValidationError reports a request that cannot become a booking.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid booking request: %s %s", e.Field, e.Reason)
}

// NotFoundError reports a booking that does not exist or does not belong
// to the requesting user.
type NotFoundError struct {
	BookingID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("booking %s not found", e.BookingID)
}

// StateError reports an operation applied to a booking in a state that
// does not allow it, e.g. confirming a cancelled booking.
type StateError struct {
	BookingID string
	Status    string
	Op        string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s booking %s in status %s", e.Op, e.BookingID, e.Status)
}
