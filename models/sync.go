package models

// ConnectionSummary is returned after a completed OAuth handshake.
type ConnectionSummary struct {
	Provider   ProviderKind     `json:"provider"`
	Status     ConnectionStatus `json:"status"`
	CalendarID string           `json:"calendar_id,omitempty"`
}

// SyncStatus classifies the outcome of a best-effort provider sync.
type SyncStatus string

const (
	SyncSucceeded SyncStatus = "success"
	SyncFailed    SyncStatus = "failed"
	SyncSkipped   SyncStatus = "skipped"
)

// SyncOutcome is attached to a booking response so the caller can show
// whether the provider mirror happened. It never affects whether the
// local booking was created.
type SyncOutcome struct {
	Status           SyncStatus `json:"status"`
	ExternalEventID  string     `json:"external_event_id,omitempty"`
	ExternalEventURL string     `json:"external_event_url,omitempty"`
	Reason           string     `json:"reason,omitempty"`
}

// PullResult reports what a provider pull brought in.
type PullResult struct {
	ContactsImported int `json:"contacts_imported"`
	EventsSeen       int `json:"events_seen"`
}
