package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/vss-labs/sourcer-engine/pkg/auth"
	"github.com/vss-labs/sourcer-engine/pkg/models"
	"github.com/vss-labs/sourcer-engine/pkg/services"
)

// CompanySearchRequest for POST /api/company-search
type CompanySearchRequest struct {
	Prompt string `json:"prompt"`
}

// CompanySearchResponse for POST /api/company-search
type CompanySearchResponse struct {
	Success   bool                       `json:"success"`
	Companies []models.Company           `json:"companies"`
	Meta      services.CompanySearchMeta `json:"meta"`
}

// CompanySearchHandler handles natural language company discovery requests.
type CompanySearchHandler struct {
	searchService services.CompanySearchService
	logger        *zap.Logger
}

// NewCompanySearchHandler creates a new company search handler.
func NewCompanySearchHandler(searchService services.CompanySearchService, logger *zap.Logger) *CompanySearchHandler {
	return &CompanySearchHandler{
		searchService: searchService,
		logger:        logger,
	}
}

// RegisterRoutes registers the company search routes on the given mux.
func (h *CompanySearchHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/company-search", authMiddleware.RequireAuth(h.Search))
}

// Search handles POST /api/company-search
func (h *CompanySearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req CompanySearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if req.Prompt == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "prompt is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	userID := auth.GetUserIDFromContext(r.Context())

	result, err := h.searchService.Search(r.Context(), userID, req.Prompt)
	if err != nil {
		h.logger.Error("Company search failed",
			zap.String("user_id", userID),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "company_search_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := CompanySearchResponse{
		Success:   true,
		Companies: result.Companies,
		Meta:      result.Meta,
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
