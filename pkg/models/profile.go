package models

import (
	"time"

	"github.com/google/uuid"
)

// Attachment points at an uploaded file stored by the surrounding
// application. Content is fetched or passed through by collaborators; this
// core only forwards the reference and optional inline payload.
type Attachment struct {
	Name    string `json:"name"`
	Path    string `json:"path,omitempty"`
	Type    string `json:"type,omitempty"`
	Content []byte `json:"content,omitempty"`
}

// Profile is the per-user settings record read from the profile store:
// the user's directory API credential, stored outreach template and subject,
// and the placeholder-to-generator mapping. The write path belongs to the
// surrounding application.
type Profile struct {
	UserID           string       `json:"user_id"`
	DirectoryAPIKey  string       `json:"directory_api_key,omitempty"`
	EmailSubject     string       `json:"email_subject,omitempty"`
	EmailTemplate    string       `json:"email_template,omitempty"`
	VariableMappings Mapping      `json:"variable_mappings,omitempty"`
	Attachments      []Attachment `json:"attachments,omitempty"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// SentEmail is one row of the outbound email log.
type SentEmail struct {
	ID             uuid.UUID `json:"id"`
	UserID         string    `json:"user_id"`
	RecipientEmail string    `json:"recipient_email"`
	RecipientName  string    `json:"recipient_name,omitempty"`
	CompanyName    string    `json:"company_name,omitempty"`
	Subject        string    `json:"subject"`
	Body           string    `json:"body"`
	MessageID      string    `json:"message_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
