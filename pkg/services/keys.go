package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/vss-labs/sourcer-engine/pkg/apperrors"
	"github.com/vss-labs/sourcer-engine/pkg/repositories"
)

// DirectoryKeyResolver picks the directory API key for a request: the user's
// stored key when present, otherwise the process-wide key. Empty result
// means no key is available at all.
type DirectoryKeyResolver interface {
	Resolve(ctx context.Context, userID string) string
}

type directoryKeyResolver struct {
	profiles    repositories.ProfileRepository
	fallbackKey string
	logger      *zap.Logger
}

var _ DirectoryKeyResolver = (*directoryKeyResolver)(nil)

// NewDirectoryKeyResolver creates a key resolver. profiles may be nil when
// running without a database.
func NewDirectoryKeyResolver(profiles repositories.ProfileRepository, fallbackKey string, logger *zap.Logger) DirectoryKeyResolver {
	return &directoryKeyResolver{
		profiles:    profiles,
		fallbackKey: fallbackKey,
		logger:      logger.Named("directory-keys"),
	}
}

func (r *directoryKeyResolver) Resolve(ctx context.Context, userID string) string {
	if r.profiles != nil && userID != "" {
		profile, err := r.profiles.GetByUserID(ctx, userID)
		switch {
		case err == nil && profile.DirectoryAPIKey != "":
			return profile.DirectoryAPIKey
		case err != nil && !errors.Is(err, apperrors.ErrNotFound):
			r.logger.Warn("Profile lookup failed, using fallback key", zap.Error(err))
		}
	}
	return r.fallbackKey
}
