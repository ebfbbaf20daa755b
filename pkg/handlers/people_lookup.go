package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/vss-labs/sourcer-engine/pkg/apperrors"
	"github.com/vss-labs/sourcer-engine/pkg/auth"
	"github.com/vss-labs/sourcer-engine/pkg/directory"
	"github.com/vss-labs/sourcer-engine/pkg/models"
	"github.com/vss-labs/sourcer-engine/pkg/services"
)

// PeopleLookupRequest for POST /api/people-lookup
type PeopleLookupRequest struct {
	CompanyName  string   `json:"companyName"`
	Limit        int      `json:"limit,omitempty"`
	Seniorities  []string `json:"seniorities,omitempty"`
	TitleKeyword string   `json:"titleKeyword,omitempty"`
}

// PeopleLookupResponse for POST /api/people-lookup
type PeopleLookupResponse struct {
	Success bool                      `json:"success"`
	Error   string                    `json:"error,omitempty"`
	Message string                    `json:"message,omitempty"`
	People  []models.Person           `json:"people"`
	Company *models.CompanyInfo       `json:"company"`
	Meta    services.PeopleLookupMeta `json:"meta"`
}

// PeopleLookupHandler handles decision maker lookup requests.
type PeopleLookupHandler struct {
	lookupService services.PeopleLookupService
	logger        *zap.Logger
}

// NewPeopleLookupHandler creates a new people lookup handler.
func NewPeopleLookupHandler(lookupService services.PeopleLookupService, logger *zap.Logger) *PeopleLookupHandler {
	return &PeopleLookupHandler{
		lookupService: lookupService,
		logger:        logger,
	}
}

// RegisterRoutes registers the people lookup routes on the given mux.
func (h *PeopleLookupHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/people-lookup", authMiddleware.RequireAuth(h.Lookup))
}

// Lookup handles POST /api/people-lookup
//
// A company that cannot be resolved is not a server error: the response is
// 200 with success=false and a COMPANY_NOT_FOUND code, so the client can
// surface the resolved company context alongside the message.
func (h *PeopleLookupHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	var req PeopleLookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if req.CompanyName == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "companyName is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	userID := auth.GetUserIDFromContext(r.Context())

	result, err := h.lookupService.Lookup(r.Context(), userID, req.CompanyName, req.Limit, &services.PeopleFilters{
		Seniorities:  req.Seniorities,
		TitleKeyword: req.TitleKeyword,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrCompanyNotFound):
			response := PeopleLookupResponse{
				Success: false,
				Error:   "COMPANY_NOT_FOUND",
				Message: fmt.Sprintf("Company %q was not found. Please check the spelling or try a different company name.", req.CompanyName),
				People:  []models.Person{},
			}
			if result != nil {
				response.Company = result.Company
				response.Meta = result.Meta
			}
			if err := WriteJSON(w, http.StatusOK, response); err != nil {
				h.logger.Error("Failed to write response", zap.Error(err))
			}
		case errors.Is(err, directory.ErrNoAPIKey):
			if err := ErrorResponse(w, http.StatusBadRequest, "no_directory_key", "No directory API key configured"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		default:
			h.logger.Error("People lookup failed",
				zap.String("user_id", userID),
				zap.String("company", req.CompanyName),
				zap.Error(err))
			if err := ErrorResponse(w, http.StatusInternalServerError, "people_lookup_failed", err.Error()); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		}
		return
	}

	response := PeopleLookupResponse{
		Success: true,
		People:  result.People,
		Company: result.Company,
		Meta:    result.Meta,
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
