package calendar

import (
	"errors"
	"fmt"

	"slotify/models"
)

// ConfigurationError signals that a provider's OAuth client credentials
// are not configured. Fatal for that provider until configured.
type ConfigurationError struct {
	Provider models.ProviderKind
	Missing  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("provider %s is not configured: missing %s", e.Provider, e.Missing)
}

// ConnectionError signals a failed token exchange or calendar
// discovery. The user's connection is left in the error state.
type ConnectionError struct {
	Stage string
	Err   error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection failed during %s: %v", e.Stage, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ProviderHTTPError is any non-2xx response from a provider API. The
// caller decides whether it is retried, refreshed-and-retried, or
// surfaced.
type ProviderHTTPError struct {
	StatusCode int
	Body       string
}

func (e *ProviderHTTPError) Error() string {
	return fmt.Sprintf("provider returned HTTP %d: %s", e.StatusCode, e.Body)
}

// IsAuthError reports whether err is a provider 401, i.e. the access
// token was rejected and a refresh may help.
func IsAuthError(err error) bool {
	var pe *ProviderHTTPError
	return errors.As(err, &pe) && pe.StatusCode == 401
}

// NotConnectedError signals a sync attempted without an active
// connection. User-actionable, not a bug.
type NotConnectedError struct {
	UserID string
}

func (e *NotConnectedError) Error() string {
	return fmt.Sprintf("user %s has no connected calendar", e.UserID)
}

// SyncError signals a sync that failed even after the single
// refresh-and-retry. The user's connection is marked error.
type SyncError struct {
	Op  string
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s failed: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }
