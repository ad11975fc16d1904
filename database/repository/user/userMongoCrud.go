package userRepo

import (
	"fmt"
	"time"

	"slotify/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Create inserts a new user document.
func (r *MongoUserRepo) Create(user *models.User) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Update modifies an existing user document.
func (r *MongoUserRepo) Update(user *models.User) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	user.UpdatedAt = time.Now()
	filter := bson.M{"id": user.ID}
	update := bson.M{"$set": user}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update user with id %s: %w", user.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user with id %s not found", user.ID)
	}
	return nil
}

// ReplaceConnectionState overwrites every calendar-connection field in
// a single $set so a partially written token/calendar pair can never
// be persisted.
func (r *MongoUserRepo) ReplaceConnectionState(id string, conn models.Connection) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var user models.User
	user.ApplyConnection(conn)

	update := bson.M{"$set": bson.M{
		"calendar_status":        user.CalendarStatus,
		"connected_calendar":     user.ConnectedCalendar,
		"calendar_access_token":  user.CalendarAccessToken,
		"calendar_refresh_token": user.CalendarRefreshToken,
		"calendar_id":            user.CalendarID,
		"updated_at":             time.Now(),
	}}

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to replace connection state for user %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user with id %s not found", id)
	}
	return nil
}

// SetTokenHash stores the hash of the issued auth token, or clears it
// when hash is empty.
func (r *MongoUserRepo) SetTokenHash(id, hash string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"token_hash": hash,
		"updated_at": time.Now(),
	}}

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set token hash for user %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user with id %s not found", id)
	}
	return nil
}
