package userRepo

import (
	"slotify/models"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(id string) (*models.User, error)
	// GetByEmail retrieves a user by its email address.
	GetByEmail(email string) (*models.User, error)
	// Create inserts a new user record.
	Create(user *models.User) error
	// Update modifies an existing user record.
	Update(user *models.User) error
	// ReplaceConnectionState overwrites the full set of calendar
	// connection fields in one write. Connection state is never
	// patched field by field.
	ReplaceConnectionState(id string, conn models.Connection) error
	// SetTokenHash stores (or clears) the hash of the issued auth token.
	SetTokenHash(id, hash string) error
}
