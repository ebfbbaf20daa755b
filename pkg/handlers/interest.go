package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/vss-labs/sourcer-engine/pkg/auth"
	"github.com/vss-labs/sourcer-engine/pkg/services"
)

// InterestResponse for POST /api/generate-interest
type InterestResponse struct {
	Success      bool   `json:"success"`
	Content      string `json:"content"`
	ResearchUsed string `json:"researchUsed,omitempty"`
}

// InterestHandler handles on-demand interest paragraph generation.
type InterestHandler struct {
	interestService services.InterestService
	logger          *zap.Logger
}

// NewInterestHandler creates a new interest handler.
func NewInterestHandler(interestService services.InterestService, logger *zap.Logger) *InterestHandler {
	return &InterestHandler{
		interestService: interestService,
		logger:          logger,
	}
}

// RegisterRoutes registers the interest routes on the given mux.
func (h *InterestHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/generate-interest", authMiddleware.RequireAuth(h.Generate))
}

// Generate handles POST /api/generate-interest
func (h *InterestHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req services.InterestRequest
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

	if !services.IsValidInterestType(string(req.Type)) {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "type must be companyInterest, personInterest, or combinedInterest"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	result, err := h.interestService.Generate(r.Context(), &req)
	if err != nil {
		h.logger.Error("Interest generation failed",
			zap.String("company", req.CompanyName),
			zap.String("type", string(req.Type)),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "generate_interest_failed", "Failed to generate content"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := InterestResponse{
		Success:      true,
		Content:      result.Content,
		ResearchUsed: result.ResearchUsed,
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
