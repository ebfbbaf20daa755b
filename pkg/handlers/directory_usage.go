package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/vss-labs/sourcer-engine/pkg/auth"
	"github.com/vss-labs/sourcer-engine/pkg/directory"
	"github.com/vss-labs/sourcer-engine/pkg/services"
)

// UsageChecker validates a directory API key and reports remaining quota.
type UsageChecker interface {
	AuthHealth(ctx context.Context, apiKey string) (*directory.UsageReport, error)
}

// DirectoryUsageResponse for POST /api/directory-usage
type DirectoryUsageResponse struct {
	Success    bool                  `json:"success"`
	HasKey     bool                  `json:"hasKey"`
	IsValid    bool                  `json:"isValid,omitempty"`
	Error      string                `json:"error,omitempty"`
	RateLimits *directory.RateLimits `json:"rateLimits,omitempty"`
}

// DirectoryUsageHandler reports directory key validity and rate limit state.
type DirectoryUsageHandler struct {
	usage  UsageChecker
	keys   services.DirectoryKeyResolver
	logger *zap.Logger
}

// NewDirectoryUsageHandler creates a new directory usage handler.
func NewDirectoryUsageHandler(usage UsageChecker, keys services.DirectoryKeyResolver, logger *zap.Logger) *DirectoryUsageHandler {
	return &DirectoryUsageHandler{
		usage:  usage,
		keys:   keys,
		logger: logger,
	}
}

// RegisterRoutes registers the directory usage routes on the given mux.
func (h *DirectoryUsageHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/directory-usage", authMiddleware.RequireAuth(h.Check))
}

// Check handles POST /api/directory-usage
//
// A missing or invalid key is reported in the body, not as an HTTP error;
// the client renders both states in the settings screen.
func (h *DirectoryUsageHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserIDFromContext(r.Context())

	apiKey := h.keys.Resolve(r.Context(), userID)
	if apiKey == "" {
		response := DirectoryUsageResponse{
			Success: false,
			HasKey:  false,
			Error:   "No directory API key configured",
		}
		if err := WriteJSON(w, http.StatusOK, response); err != nil {
			h.logger.Error("Failed to write response", zap.Error(err))
		}
		return
	}

	report, err := h.usage.AuthHealth(r.Context(), apiKey)
	if err != nil {
		h.logger.Error("Directory usage check failed",
			zap.String("user_id", userID),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "directory_usage_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := DirectoryUsageResponse{
		Success:    report.IsValid,
		HasKey:     true,
		IsValid:    report.IsValid,
		RateLimits: &report.RateLimits,
	}
	if !report.IsValid {
		response.Error = "Directory API key is invalid or expired"
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
