package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vss-labs/sourcer-engine/pkg/apperrors"
	"github.com/vss-labs/sourcer-engine/pkg/database"
	"github.com/vss-labs/sourcer-engine/pkg/models"
)

// ProfileRepository defines the interface for per-user profile data access.
// Profiles hold the user's directory API key, email template, variable
// mappings and attachments.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	Upsert(ctx context.Context, profile *models.Profile) error
}

// profileRepository implements ProfileRepository using PostgreSQL.
type profileRepository struct {
	db *database.DB
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *database.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// GetByUserID retrieves a profile by user ID. Returns apperrors.ErrNotFound
// when the user has no stored profile.
func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	query := `
		SELECT user_id, directory_api_key, email_subject, email_template,
		       variable_mappings, attachments, updated_at
		FROM profiles
		WHERE user_id = $1`

	var profile models.Profile
	var mappings, attachments []byte

	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.DirectoryAPIKey,
		&profile.EmailSubject,
		&profile.EmailTemplate,
		&mappings,
		&attachments,
		&profile.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if err := json.Unmarshal(mappings, &profile.VariableMappings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal variable mappings: %w", err)
	}
	if err := json.Unmarshal(attachments, &profile.Attachments); err != nil {
		return nil, fmt.Errorf("failed to unmarshal attachments: %w", err)
	}

	return &profile, nil
}

// Upsert inserts or replaces the profile for a user.
func (r *profileRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	profile.UpdatedAt = time.Now()

	mappings, err := json.Marshal(profile.VariableMappings)
	if err != nil {
		return fmt.Errorf("failed to marshal variable mappings: %w", err)
	}
	attachments, err := json.Marshal(profile.Attachments)
	if err != nil {
		return fmt.Errorf("failed to marshal attachments: %w", err)
	}

	query := `
		INSERT INTO profiles (user_id, directory_api_key, email_subject, email_template,
		                      variable_mappings, attachments, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
		SET directory_api_key = EXCLUDED.directory_api_key,
		    email_subject = EXCLUDED.email_subject,
		    email_template = EXCLUDED.email_template,
		    variable_mappings = EXCLUDED.variable_mappings,
		    attachments = EXCLUDED.attachments,
		    updated_at = EXCLUDED.updated_at`

	_, err = r.db.Exec(ctx, query,
		profile.UserID,
		profile.DirectoryAPIKey,
		profile.EmailSubject,
		profile.EmailTemplate,
		mappings,
		attachments,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	return nil
}
