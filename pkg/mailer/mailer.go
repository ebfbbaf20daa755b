// Package mailer sends outreach emails on behalf of the signed-in user.
// The only transport is Gmail, using the user's own Google OAuth access
// token, so mail always goes out from the user's mailbox rather than a
// shared sending domain.
package mailer

import (
	"context"

	"github.com/vss-labs/sourcer-engine/pkg/models"
)

// OutgoingMessage is one email ready to send. Body is plain text; the
// transport wraps it in MIME and attaches any inline attachment payloads.
type OutgoingMessage struct {
	To            string
	Subject       string
	Body          string
	RecipientName string
	CompanyName   string
	Attachments   []models.Attachment
}

// Transport delivers a message using the caller's OAuth access token and
// returns the provider message ID.
type Transport interface {
	Send(ctx context.Context, accessToken string, msg *OutgoingMessage) (string, error)
}
