package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/vss-labs/sourcer-engine/pkg/auth"
	"github.com/vss-labs/sourcer-engine/pkg/mailer"
	"github.com/vss-labs/sourcer-engine/pkg/models"
	"github.com/vss-labs/sourcer-engine/pkg/repositories"
)

// SendEmailRequest for POST /api/send-email
type SendEmailRequest struct {
	To            string              `json:"to"`
	Subject       string              `json:"subject"`
	Message       string              `json:"message"`
	RecipientName string              `json:"recipientName,omitempty"`
	CompanyName   string              `json:"companyName,omitempty"`
	Attachments   []models.Attachment `json:"attachments,omitempty"`
}

// SendEmailResponse for POST /api/send-email
type SendEmailResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId"`
}

// SentEmailListResponse for GET /api/sent-emails
type SentEmailListResponse struct {
	Emails []models.SentEmail `json:"emails"`
	Total  int                `json:"total"`
}

// EmailHandler sends outreach emails through the user's own mailbox and
// serves the outbound log.
type EmailHandler struct {
	transport  mailer.Transport
	sentEmails repositories.SentEmailRepository
	logger     *zap.Logger
}

// NewEmailHandler creates a new email handler.
func NewEmailHandler(transport mailer.Transport, sentEmails repositories.SentEmailRepository, logger *zap.Logger) *EmailHandler {
	return &EmailHandler{
		transport:  transport,
		sentEmails: sentEmails,
		logger:     logger,
	}
}

// RegisterRoutes registers the email routes on the given mux.
func (h *EmailHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/send-email", authMiddleware.RequireAuth(h.Send))
	mux.HandleFunc("GET /api/sent-emails", authMiddleware.RequireAuth(h.List))
}

// Send handles POST /api/send-email
//
// Sending needs the user's Google access token from their session; without
// it the request is unauthorized even though the JWT itself is valid.
func (h *EmailHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserIDFromContext(r.Context())

	googleToken := auth.GetGoogleTokenFromContext(r.Context())
	if googleToken == "" {
		if err := ErrorResponse(w, http.StatusUnauthorized, "no_google_token", "No Google token found. Please sign in again."); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var req SendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if req.To == "" || req.Subject == "" || req.Message == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "to, subject, and message are required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	messageID, err := h.transport.Send(r.Context(), googleToken, &mailer.OutgoingMessage{
		To:            req.To,
		Subject:       req.Subject,
		Body:          req.Message,
		RecipientName: req.RecipientName,
		CompanyName:   req.CompanyName,
		Attachments:   req.Attachments,
	})
	if err != nil {
		h.logger.Error("Send email failed",
			zap.String("user_id", userID),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "send_email_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	// Log best-effort; a failed insert does not undo a sent email.
	if err := h.sentEmails.Insert(r.Context(), &models.SentEmail{
		UserID:         userID,
		RecipientEmail: req.To,
		RecipientName:  req.RecipientName,
		CompanyName:    req.CompanyName,
		Subject:        req.Subject,
		Body:           req.Message,
		MessageID:      messageID,
	}); err != nil {
		h.logger.Warn("Failed to log sent email",
			zap.String("user_id", userID),
			zap.Error(err))
	}

	if err := WriteJSON(w, http.StatusOK, SendEmailResponse{Success: true, MessageID: messageID}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/sent-emails
func (h *EmailHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserIDFromContext(r.Context())

	emails, err := h.sentEmails.ListByUser(r.Context(), userID, 0)
	if err != nil {
		h.logger.Error("Failed to list sent emails",
			zap.String("user_id", userID),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "list_sent_emails_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := SentEmailListResponse{
		Emails: emails,
		Total:  len(emails),
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
