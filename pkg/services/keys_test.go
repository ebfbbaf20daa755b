package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/vss-labs/sourcer-engine/pkg/apperrors"
	"github.com/vss-labs/sourcer-engine/pkg/models"
)

type mockProfileRepo struct {
	GetByUserIDFunc func(ctx context.Context, userID string) (*models.Profile, error)
}

func (m *mockProfileRepo) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	return m.GetByUserIDFunc(ctx, userID)
}

func (m *mockProfileRepo) Upsert(ctx context.Context, profile *models.Profile) error {
	panic("not used")
}

func TestDirectoryKeyResolver_ProfileKeyWins(t *testing.T) {
	repo := &mockProfileRepo{
		GetByUserIDFunc: func(ctx context.Context, userID string) (*models.Profile, error) {
			return &models.Profile{UserID: userID, DirectoryAPIKey: "user-key"}, nil
		},
	}
	resolver := NewDirectoryKeyResolver(repo, "fallback-key", zap.NewNop())

	assert.Equal(t, "user-key", resolver.Resolve(context.Background(), "user-1"))
}

func TestDirectoryKeyResolver_FallbackWhenNoProfile(t *testing.T) {
	repo := &mockProfileRepo{
		GetByUserIDFunc: func(ctx context.Context, userID string) (*models.Profile, error) {
			return nil, apperrors.ErrNotFound
		},
	}
	resolver := NewDirectoryKeyResolver(repo, "fallback-key", zap.NewNop())

	assert.Equal(t, "fallback-key", resolver.Resolve(context.Background(), "user-1"))
}

func TestDirectoryKeyResolver_FallbackWhenProfileKeyEmpty(t *testing.T) {
	repo := &mockProfileRepo{
		GetByUserIDFunc: func(ctx context.Context, userID string) (*models.Profile, error) {
			return &models.Profile{UserID: userID}, nil
		},
	}
	resolver := NewDirectoryKeyResolver(repo, "fallback-key", zap.NewNop())

	assert.Equal(t, "fallback-key", resolver.Resolve(context.Background(), "user-1"))
}

func TestDirectoryKeyResolver_FallbackOnRepositoryError(t *testing.T) {
	repo := &mockProfileRepo{
		GetByUserIDFunc: func(ctx context.Context, userID string) (*models.Profile, error) {
			return nil, errors.New("connection refused")
		},
	}
	resolver := NewDirectoryKeyResolver(repo, "fallback-key", zap.NewNop())

	assert.Equal(t, "fallback-key", resolver.Resolve(context.Background(), "user-1"))
}

func TestDirectoryKeyResolver_NilRepository(t *testing.T) {
	resolver := NewDirectoryKeyResolver(nil, "fallback-key", zap.NewNop())
	assert.Equal(t, "fallback-key", resolver.Resolve(context.Background(), "user-1"))
}

func TestDirectoryKeyResolver_NoKeyAnywhere(t *testing.T) {
	resolver := NewDirectoryKeyResolver(nil, "", zap.NewNop())
	assert.Empty(t, resolver.Resolve(context.Background(), "user-1"))
}
