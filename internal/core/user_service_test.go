package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careloop-backend-go/internal/models"
)

func TestGetOrCreateCreatesOnFirstSight(t *testing.T) {
	repo := newMockUserRepo()
	s := NewUserService(repo)

	user, created, err := s.GetOrCreate(context.Background(), "user-1", "user@example.com", "Pat")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "user@example.com", user.Email)
	assert.Equal(t, "Pat", user.Name)
	assert.False(t, user.HasAccess, "a fresh record has no access")
	assert.Empty(t, user.CustomerID)

	stored, err := repo.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, user.Email, stored.Email)
}

func TestGetOrCreateReturnsExisting(t *testing.T) {
	repo := newMockUserRepo(&models.User{ID: "user-1", Email: "user@example.com", HasAccess: true})
	s := NewUserService(repo)

	user, created, err := s.GetOrCreate(context.Background(), "user-1", "stale@example.com", "Someone")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "user@example.com", user.Email, "stored record wins over token claims")
	assert.True(t, user.HasAccess)
}

func TestGetOrCreatePropagatesRepositoryFailure(t *testing.T) {
	repo := newMockUserRepo()
	repo.failAll = errors.New("firestore unavailable")
	s := NewUserService(repo)

	_, _, err := s.GetOrCreate(context.Background(), "user-1", "user@example.com", "Pat")
	assert.Error(t, err)
}

func TestGetByID(t *testing.T) {
	repo := newMockUserRepo(&models.User{ID: "user-1", Email: "user@example.com"})
	s := NewUserService(repo)

	user, err := s.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", user.Email)

	_, err = s.GetByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
