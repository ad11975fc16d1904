package contactRepo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"slotify/database"
	"slotify/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoContactRepo implements ContactRepository using MongoDB.
type MongoContactRepo struct {
	coll *mongo.Collection
}

// NewMongoContactRepo creates a new instance of ContactRepository using MongoDB.
func NewMongoContactRepo() ContactRepository {
	coll := database.MongoClient.Database("slotify").Collection("contacts")
	return &MongoContactRepo{coll: coll}
}

func newContext(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

// Create inserts a new contact document.
func (r *MongoContactRepo) Create(contact *models.Contact) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	contact.CreatedAt = now
	contact.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, contact)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// GetByUser retrieves all contacts owned by a user.
func (r *MongoContactRepo) GetByUser(userID string) ([]models.Contact, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var contacts []models.Contact
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, fmt.Errorf("failed to decode contacts for user %s: %w", userID, err)
	}
	return contacts, nil
}

// FindByName retrieves a contact by case-insensitive substring name
// match scoped to the user. Returns nil when no contact matches.
func (r *MongoContactRepo) FindByName(userID, name string) (*models.Contact, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"user_id": userID,
		"name":    primitive.Regex{Pattern: regexp.QuoteMeta(name), Options: "i"},
	}

	var contact models.Contact
	if err := r.coll.FindOne(ctx, filter).Decode(&contact); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up contact %q for user %s: %w", name, userID, err)
	}
	return &contact, nil
}

// FindByExternalID retrieves a contact by the provider-assigned id.
// Returns nil when no contact matches.
func (r *MongoContactRepo) FindByExternalID(userID, externalID string) (*models.Contact, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"user_id": userID, "external_contact_id": externalID}

	var contact models.Contact
	if err := r.coll.FindOne(ctx, filter).Decode(&contact); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up external contact %s for user %s: %w", externalID, userID, err)
	}
	return &contact, nil
}
