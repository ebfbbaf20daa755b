package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vss-labs/sourcer-engine/pkg/database"
	"github.com/vss-labs/sourcer-engine/pkg/models"
)

// SentEmailRepository records every outbound email for auditability.
type SentEmailRepository interface {
	Insert(ctx context.Context, email *models.SentEmail) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.SentEmail, error)
}

// sentEmailRepository implements SentEmailRepository using PostgreSQL.
type sentEmailRepository struct {
	db *database.DB
}

// NewSentEmailRepository creates a new sent-email repository.
func NewSentEmailRepository(db *database.DB) SentEmailRepository {
	return &sentEmailRepository{db: db}
}

// Insert records a sent email. The ID is generated when not provided.
func (r *sentEmailRepository) Insert(ctx context.Context, email *models.SentEmail) error {
	if email.ID == uuid.Nil {
		email.ID = uuid.New()
	}
	if email.CreatedAt.IsZero() {
		email.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO sent_emails (id, user_id, recipient_email, recipient_name,
		                         company_name, subject, body, message_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		email.ID,
		email.UserID,
		email.RecipientEmail,
		email.RecipientName,
		email.CompanyName,
		email.Subject,
		email.Body,
		email.MessageID,
		email.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sent email: %w", err)
	}

	return nil
}

// ListByUser returns the most recent sent emails for a user, newest first.
func (r *sentEmailRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.SentEmail, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, user_id, recipient_email, recipient_name, company_name,
		       subject, body, message_id, created_at
		FROM sent_emails
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sent emails: %w", err)
	}
	defer rows.Close()

	var emails []models.SentEmail
	for rows.Next() {
		var e models.SentEmail
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.RecipientEmail,
			&e.RecipientName,
			&e.CompanyName,
			&e.Subject,
			&e.Body,
			&e.MessageID,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sent email: %w", err)
		}
		emails = append(emails, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sent emails: %w", err)
	}

	return emails, nil
}
