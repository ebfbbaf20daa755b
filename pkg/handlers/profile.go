package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/vss-labs/sourcer-engine/pkg/apperrors"
	"github.com/vss-labs/sourcer-engine/pkg/auth"
	"github.com/vss-labs/sourcer-engine/pkg/models"
	"github.com/vss-labs/sourcer-engine/pkg/repositories"
	"github.com/vss-labs/sourcer-engine/pkg/services"
)

// UpdateProfileRequest for PUT /api/profile
type UpdateProfileRequest struct {
	DirectoryAPIKey  string              `json:"directory_api_key,omitempty"`
	EmailSubject     string              `json:"email_subject,omitempty"`
	EmailTemplate    string              `json:"email_template,omitempty"`
	VariableMappings models.Mapping      `json:"variable_mappings,omitempty"`
	Attachments      []models.Attachment `json:"attachments,omitempty"`
}

// ProfileResponse for GET and PUT /api/profile. The directory key is never
// echoed back; only its presence is.
type ProfileResponse struct {
	UserID           string              `json:"user_id"`
	HasDirectoryKey  bool                `json:"has_directory_key"`
	EmailSubject     string              `json:"email_subject,omitempty"`
	EmailTemplate    string              `json:"email_template,omitempty"`
	VariableMappings models.Mapping      `json:"variable_mappings"`
	Attachments      []models.Attachment `json:"attachments"`
}

// ProfileHandler handles per-user settings requests.
type ProfileHandler struct {
	profiles        repositories.ProfileRepository
	templateService services.TemplateService
	logger          *zap.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profiles repositories.ProfileRepository, templateService services.TemplateService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles:        profiles,
		templateService: templateService,
		logger:          logger,
	}
}

// RegisterRoutes registers the profile routes on the given mux.
func (h *ProfileHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/profile", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("PUT /api/profile", authMiddleware.RequireAuth(h.Update))
}

// Get handles GET /api/profile
//
// A user with no stored profile gets an empty one back rather than a 404,
// so the client can render the settings form unconditionally.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserIDFromContext(r.Context())

	profile, err := h.profiles.GetByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			profile = &models.Profile{UserID: userID}
		} else {
			h.logger.Error("Failed to load profile",
				zap.String("user_id", userID),
				zap.Error(err))
			if err := ErrorResponse(w, http.StatusInternalServerError, "get_profile_failed", err.Error()); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
	}

	if err := WriteJSON(w, http.StatusOK, toProfileResponse(profile)); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/profile
//
// Mappings for placeholders no longer present in the template are pruned
// before the profile is stored.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserIDFromContext(r.Context())

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	// An empty template prunes everything: no placeholder is still in use.
	mappings := req.VariableMappings
	if len(mappings) > 0 {
		mappings = h.templateService.PruneMappings(req.EmailTemplate, mappings)
	}

	profile := &models.Profile{
		UserID:           userID,
		DirectoryAPIKey:  req.DirectoryAPIKey,
		EmailSubject:     req.EmailSubject,
		EmailTemplate:    req.EmailTemplate,
		VariableMappings: mappings,
		Attachments:      req.Attachments,
	}

	if err := h.profiles.Upsert(r.Context(), profile); err != nil {
		h.logger.Error("Failed to save profile",
			zap.String("user_id", userID),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "update_profile_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, toProfileResponse(profile)); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func toProfileResponse(profile *models.Profile) ProfileResponse {
	response := ProfileResponse{
		UserID:           profile.UserID,
		HasDirectoryKey:  profile.DirectoryAPIKey != "",
		EmailSubject:     profile.EmailSubject,
		EmailTemplate:    profile.EmailTemplate,
		VariableMappings: profile.VariableMappings,
		Attachments:      profile.Attachments,
	}
	if response.VariableMappings == nil {
		response.VariableMappings = models.Mapping{}
	}
	if response.Attachments == nil {
		response.Attachments = []models.Attachment{}
	}
	return response
}
