package user

import (
	"slotify/models"
)

// AuthResponse bundles the authenticated user with their issued token.
type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// UserService defines account operations.
type UserService interface {
	// RegisterUser creates an account and signs the user in.
	RegisterUser(name, email, password string) (*AuthResponse, error)
	// AuthenticateUser verifies credentials and issues a fresh token.
	AuthenticateUser(email, password string) (*AuthResponse, error)
	// GetUserByID fetches a user profile.
	GetUserByID(id string) (*models.User, error)
	// UpdateUserName changes the display name.
	UpdateUserName(id, name string) (*models.User, error)
	// RevokeAuthToken invalidates the current token.
	RevokeAuthToken(id string) error
}
