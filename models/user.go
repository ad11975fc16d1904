package models

import "time"

// ProviderKind identifies an external calendar provider.
type ProviderKind string

const (
	ProviderNone      ProviderKind = ""
	ProviderGoogle    ProviderKind = "google"
	ProviderMicrosoft ProviderKind = "microsoft"
)

// KnownProvider reports whether kind names a supported provider.
func KnownProvider(kind ProviderKind) bool {
	return kind == ProviderGoogle || kind == ProviderMicrosoft
}

// ConnectionStatus represents the state of a user's calendar connection.
type ConnectionStatus string

const (
	ConnectionDisconnected ConnectionStatus = "disconnected"
	ConnectionConnected    ConnectionStatus = "connected"
	ConnectionError        ConnectionStatus = "error"
)

// User represents a platform user. The calendar connection is persisted
// as flat fields on the user document; services never touch them
// directly and instead go through Connection / ApplyConnection so that
// token fields cannot survive a disconnect.
type User struct {
	ID           string `bson:"id" json:"id"`
	Name         string `bson:"name" json:"name"`
	Email        string `bson:"email" json:"email"`
	PasswordHash string `bson:"password_hash" json:"-"`

	// Hash of the currently issued auth token, cleared on revocation.
	TokenHash string `bson:"token_hash,omitempty" json:"-"`

	// Flat calendar-connection columns.
	CalendarStatus       ConnectionStatus `bson:"calendar_status,omitempty" json:"calendar_status,omitempty"`
	ConnectedCalendar    ProviderKind     `bson:"connected_calendar,omitempty" json:"connected_calendar,omitempty"`
	CalendarAccessToken  string           `bson:"calendar_access_token,omitempty" json:"-"`
	CalendarRefreshToken string           `bson:"calendar_refresh_token,omitempty" json:"-"`
	CalendarID           string           `bson:"calendar_id,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Connection is the tagged in-code view of the flat connection columns.
// Tokens and calendar id are only meaningful when Status is connected.
type Connection struct {
	Status       ConnectionStatus
	Provider     ProviderKind
	AccessToken  string
	RefreshToken string
	CalendarID   string
}

// Disconnected is the zero connection.
func Disconnected() Connection {
	return Connection{Status: ConnectionDisconnected}
}

// Connection returns the user's connection state as a tagged value.
// Token fields persisted alongside a non-connected status are not
// exposed, so a half-written record still reads as safely down.
func (u *User) Connection() Connection {
	switch u.CalendarStatus {
	case ConnectionConnected:
		return Connection{
			Status:       ConnectionConnected,
			Provider:     u.ConnectedCalendar,
			AccessToken:  u.CalendarAccessToken,
			RefreshToken: u.CalendarRefreshToken,
			CalendarID:   u.CalendarID,
		}
	case ConnectionError:
		return Connection{Status: ConnectionError, Provider: u.ConnectedCalendar}
	default:
		return Disconnected()
	}
}

// ApplyConnection overwrites every flat connection column from conn.
// Writes always replace the full set so mismatched token/calendar
// pairs cannot be persisted.
func (u *User) ApplyConnection(conn Connection) {
	u.CalendarStatus = conn.Status
	u.ConnectedCalendar = conn.Provider
	if conn.Status == ConnectionConnected {
		u.CalendarAccessToken = conn.AccessToken
		u.CalendarRefreshToken = conn.RefreshToken
		u.CalendarID = conn.CalendarID
	} else {
		u.CalendarAccessToken = ""
		u.CalendarRefreshToken = ""
		u.CalendarID = ""
	}
}
