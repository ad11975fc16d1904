package contactRepo

import (
	"slotify/models"
)

// ContactRepository defines methods for contact data access.
type ContactRepository interface {
	// Create inserts a new contact record.
	Create(contact *models.Contact) error
	// GetByUser retrieves all contacts owned by a user.
	GetByUser(userID string) ([]models.Contact, error)
	// FindByName retrieves a user's contact whose name matches name
	// case-insensitively (substring match), or nil when absent.
	FindByName(userID, name string) (*models.Contact, error)
	// FindByExternalID retrieves a user's contact by provider id, or
	// nil when absent.
	FindByExternalID(userID, externalID string) (*models.Contact, error)
}
