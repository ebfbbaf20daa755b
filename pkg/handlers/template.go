package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/vss-labs/sourcer-engine/pkg/auth"
	"github.com/vss-labs/sourcer-engine/pkg/models"
	"github.com/vss-labs/sourcer-engine/pkg/services"
)

// AutoMapRequest for POST /api/auto-map-variables. Callers send either the
// bare variable names or the raw template to extract them from.
type AutoMapRequest struct {
	Variables []string `json:"variables,omitempty"`
	Template  string   `json:"template,omitempty"`
}

// AutoMapResponse for POST /api/auto-map-variables
type AutoMapResponse struct {
	Mappings models.Mapping `json:"mappings"`
}

// TestRenderRequest for POST /api/test-render
type TestRenderRequest struct {
	Template string         `json:"template"`
	Subject  string         `json:"subject,omitempty"`
	Mappings models.Mapping `json:"mappings,omitempty"`
}

// TestRenderResponse for POST /api/test-render
type TestRenderResponse struct {
	Success bool   `json:"success"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
}

// TemplateHandler handles template variable mapping and preview rendering.
type TemplateHandler struct {
	templateService services.TemplateService
	logger          *zap.Logger
}

// NewTemplateHandler creates a new template handler.
func NewTemplateHandler(templateService services.TemplateService, logger *zap.Logger) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
		logger:          logger,
	}
}

// RegisterRoutes registers the template routes on the given mux.
func (h *TemplateHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/auto-map-variables", authMiddleware.RequireAuth(h.AutoMap))
	mux.HandleFunc("POST /api/test-render", authMiddleware.RequireAuth(h.TestRender))
}

// AutoMap handles POST /api/auto-map-variables
//
// Mapping failures are not errors: an empty mapping comes back and the user
// maps variables by hand.
func (h *TemplateHandler) AutoMap(w http.ResponseWriter, r *http.Request) {
	var req AutoMapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	variables := req.Variables
	if len(variables) == 0 && req.Template != "" {
		for _, placeholder := range h.templateService.ParsePlaceholders(req.Template) {
			variables = append(variables, placeholder[2:len(placeholder)-2])
		}
	}

	mappings := h.templateService.AutoMap(r.Context(), variables)

	if err := WriteJSON(w, http.StatusOK, AutoMapResponse{Mappings: mappings}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// TestRender handles POST /api/test-render
func (h *TemplateHandler) TestRender(w http.ResponseWriter, r *http.Request) {
	var req TestRenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if req.Template == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "template is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := TestRenderResponse{
		Success: true,
		Subject: h.templateService.RenderTest(req.Subject, req.Mappings),
		Body:    h.templateService.RenderTest(req.Template, req.Mappings),
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
