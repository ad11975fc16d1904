package models

import "time"

// Contact represents a person the user books with. Contacts imported
// from a calendar provider carry ExternalContactID, which together
// with the case-insensitive name match keeps repeated syncs from
// growing duplicates.
type Contact struct {
	ID        string `bson:"id" json:"id"`
	UserID    string `bson:"user_id" json:"user_id"`
	Name      string `bson:"name" json:"name"`
	Email     string `bson:"email,omitempty" json:"email,omitempty"`
	Role      string `bson:"role,omitempty" json:"role,omitempty"`
	AvatarURL string `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	Presence  string `bson:"presence,omitempty" json:"presence,omitempty"`
	IsPrivate bool   `bson:"is_private,omitempty" json:"is_private,omitempty"`

	ExternalContactID string `bson:"external_contact_id,omitempty" json:"external_contact_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
