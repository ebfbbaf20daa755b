package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/vss-labs/sourcer-engine/pkg/apperrors"
	"github.com/vss-labs/sourcer-engine/pkg/auth"
	"github.com/vss-labs/sourcer-engine/pkg/services"
)

// UnlockResponse for POST /api/unlock-person
type UnlockResponse struct {
	Success                  bool   `json:"success"`
	Email                    string `json:"email,omitempty"`
	Phone                    string `json:"phone,omitempty"`
	ResearchSummary          string `json:"researchSummary,omitempty"`
	CompanyInterestParagraph string `json:"companyInterestParagraph"`
	PersonInterestParagraph  string `json:"personInterestParagraph"`
}

// UnlockBatchRequest for POST /api/unlock-people
type UnlockBatchRequest struct {
	People []*services.UnlockRequest `json:"people"`
}

// UnlockBatchEntry is one element of the batch response. Entries keep the
// request order; a failed entry carries its error message in place of a
// result.
type UnlockBatchEntry struct {
	Index   int             `json:"index"`
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Result  *UnlockResponse `json:"result,omitempty"`
}

// UnlockBatchResponse for POST /api/unlock-people
type UnlockBatchResponse struct {
	Success bool               `json:"success"`
	Results []UnlockBatchEntry `json:"results"`
}

// UnlockHandler handles contact reveal and enrichment requests.
type UnlockHandler struct {
	unlockService services.UnlockService
	logger        *zap.Logger
}

// NewUnlockHandler creates a new unlock handler.
func NewUnlockHandler(unlockService services.UnlockService, logger *zap.Logger) *UnlockHandler {
	return &UnlockHandler{
		unlockService: unlockService,
		logger:        logger,
	}
}

// RegisterRoutes registers the unlock routes on the given mux.
func (h *UnlockHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/unlock-person", authMiddleware.RequireAuth(h.Unlock))
	mux.HandleFunc("POST /api/unlock-people", authMiddleware.RequireAuth(h.UnlockBatch))
}

// Unlock handles POST /api/unlock-person
func (h *UnlockHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	var req services.UnlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	userID := auth.GetUserIDFromContext(r.Context())

	result, err := h.unlockService.Unlock(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error()); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		if errors.Is(err, apperrors.ErrRevealFailed) && result != nil {
			// Enrichment still ran; the response carries it with success=false.
			response := toUnlockResponse(result)
			response.Success = false
			if err := WriteJSON(w, http.StatusOK, response); err != nil {
				h.logger.Error("Failed to write response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Unlock failed",
			zap.String("user_id", userID),
			zap.String("company", req.CompanyName),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "unlock_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, toUnlockResponse(result)); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// UnlockBatch handles POST /api/unlock-people
func (h *UnlockHandler) UnlockBatch(w http.ResponseWriter, r *http.Request) {
	var req UnlockBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if len(req.People) == 0 {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "people is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	userID := auth.GetUserIDFromContext(r.Context())

	outcomes := h.unlockService.UnlockBatch(r.Context(), userID, req.People)

	entries := make([]UnlockBatchEntry, len(outcomes))
	for i, outcome := range outcomes {
		entry := UnlockBatchEntry{Index: outcome.Index}
		if outcome.Err != nil {
			entry.Error = outcome.Err.Error()
			if outcome.Result != nil {
				// Reveal failed but enrichment ran; keep what was produced.
				entry.Result = toUnlockResponse(outcome.Result)
				entry.Result.Success = false
			}
		} else {
			entry.Success = true
			entry.Result = toUnlockResponse(outcome.Result)
		}
		entries[i] = entry
	}

	if err := WriteJSON(w, http.StatusOK, UnlockBatchResponse{Success: true, Results: entries}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func toUnlockResponse(result *services.UnlockResult) *UnlockResponse {
	return &UnlockResponse{
		Success:                  true,
		Email:                    result.Email,
		Phone:                    result.Phone,
		ResearchSummary:          result.ResearchSummary,
		CompanyInterestParagraph: result.CompanyInterestParagraph,
		PersonInterestParagraph:  result.PersonInterestParagraph,
	}
}
