package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	userRepo "slotify/database/repository/user"
	"slotify/models"
	"slotify/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DefaultUserService implements UserService backed by the user
// repository and the Redis auth cache.
type DefaultUserService struct {
	Repo userRepo.UserRepository
}

// RegisterUser creates an account and signs the user in.
func (s *DefaultUserService) RegisterUser(name, email, password string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || len(password) < 8 {
		return nil, fmt.Errorf("name, email and a password of at least 8 characters are required")
	}
	if existing, _ := s.Repo.GetByEmail(email); existing != nil {
		return nil, fmt.Errorf("an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("registration failed, please try again")
	}

	rec := &models.User{
		ID:             uuid.NewString(),
		Name:           name,
		Email:          email,
		PasswordHash:   string(hash),
		CalendarStatus: models.ConnectionDisconnected,
	}
	if err := s.Repo.Create(rec); err != nil {
		utils.GetLogger().Error("RegisterUser: failed to create user", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}

	return s.issueToken(rec)
}

// AuthenticateUser verifies credentials and issues a fresh token.
func (s *DefaultUserService) AuthenticateUser(email, password string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	rec, err := s.Repo.GetByEmail(email)
	if err != nil || rec == nil {
		return nil, fmt.Errorf("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}
	return s.issueToken(rec)
}

func (s *DefaultUserService) issueToken(rec *models.User) (*AuthResponse, error) {
	token, err := utils.GenerateToken(rec.ID, rec.Email, 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	tokenHash := utils.HashToken(token)

	if err := s.Repo.SetTokenHash(rec.ID, tokenHash); err != nil {
		utils.GetLogger().Error("issueToken: failed to store token hash", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	rec.TokenHash = tokenHash

	cacheKey := utils.AuthCachePrefix + rec.ID
	if err := utils.GetAuthCacheClient().Set(context.Background(), cacheKey, tokenHash, time.Hour).Err(); err != nil {
		utils.GetLogger().Warn("issueToken: failed to prime auth cache", zap.Error(err))
	}

	return &AuthResponse{User: rec, Token: token}, nil
}

// GetUserByID fetches a user profile.
func (s *DefaultUserService) GetUserByID(id string) (*models.User, error) {
	return s.Repo.GetByID(id)
}

// UpdateUserName changes the display name.
func (s *DefaultUserService) UpdateUserName(id, name string) (*models.User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("name must not be empty")
	}
	rec, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	rec.Name = name
	if err := s.Repo.Update(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// RevokeAuthToken clears the stored token hash and the cache entry so
// the current token stops working immediately.
func (s *DefaultUserService) RevokeAuthToken(id string) error {
	if err := s.Repo.SetTokenHash(id, ""); err != nil {
		return err
	}
	cacheKey := utils.AuthCachePrefix + id
	if err := utils.GetAuthCacheClient().Del(context.Background(), cacheKey).Err(); err != nil {
		utils.GetLogger().Warn("RevokeAuthToken: failed to clear auth cache", zap.Error(err))
	}
	return nil
}
