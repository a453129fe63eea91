package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"careloop-backend-go/internal/db"
	"careloop-backend-go/internal/models"
)

// ErrUserNotFound is returned when a user record does not exist.
var ErrUserNotFound = errors.New("user not found")

// userService implements the UserService interface.
type userService struct {
	userRepo db.UserRepository
}

// NewUserService creates a new UserService instance.
func NewUserService(userRepo db.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// GetOrCreate retrieves a user by ID, creating a fresh record (no billing
// profile, no access) when none exists yet.
func (s *userService) GetOrCreate(ctx context.Context, userID, email, name string) (*models.User, bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to get user by ID '%s': %w", userID, err)
	}

	now := time.Now().UTC()
	newUser := &models.User{
		ID:        userID,
		Email:     email,
		Name:      name,
		HasAccess: false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if createErr := s.userRepo.Create(ctx, newUser); createErr != nil {
		return nil, false, fmt.Errorf("failed to create user (id: %s) after not found: %w", userID, createErr)
	}
	return newUser, true, nil
}

// GetByID retrieves a user by their ID.
func (s *userService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get user by ID '%s': %w", userID, err)
	}
	return user, nil
}
