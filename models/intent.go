package models

// BookingIntent is the structured form of a free-text scheduling
// request. It lives for a single assistant turn: produced by the
// intent extractor, consumed by the slot recommender, then discarded.
type BookingIntent struct {
	EventType       string   `json:"event_type"`
	PreferredDay    string   `json:"preferred_day,omitempty"`
	PreferredTime   string   `json:"preferred_time,omitempty"`
	PreferredWindow string   `json:"preferred_window,omitempty"`
	Location        string   `json:"location,omitempty"`
	DurationMinutes int      `json:"duration_minutes,omitempty"`
	Invitees        []string `json:"invitees,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

// Duration returns the requested duration in minutes, defaulting to 60.
func (i BookingIntent) Duration() int {
	if i.DurationMinutes <= 0 {
		return 60
	}
	return i.DurationMinutes
}
