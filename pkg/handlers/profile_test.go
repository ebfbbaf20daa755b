package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vss-labs/sourcer-engine/pkg/apperrors"
	"github.com/vss-labs/sourcer-engine/pkg/models"
)

func TestGetProfile(t *testing.T) {
	repo := &mockProfileRepository{
		GetByUserIDFunc: func(ctx context.Context, userID string) (*models.Profile, error) {
			assert.Equal(t, "user-1", userID)
			return &models.Profile{
				UserID:           "user-1",
				DirectoryAPIKey:  "secret-key",
				EmailTemplate:    "Hi {{First Name}}",
				VariableMappings: models.Mapping{"First Name": "firstName"},
			}, nil
		},
	}
	handler := NewProfileHandler(repo, &mockTemplateService{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	rec := doRequest(handler.Get, authedRequest(req, "user-1", ""))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.HasDirectoryKey)
	assert.Equal(t, "Hi {{First Name}}", resp.EmailTemplate)

	// The key itself never leaves the server.
	assert.NotContains(t, rec.Body.String(), "secret-key")
}

func TestGetProfile_NotFound(t *testing.T) {
	repo := &mockProfileRepository{
		GetByUserIDFunc: func(ctx context.Context, userID string) (*models.Profile, error) {
			return nil, apperrors.ErrNotFound
		},
	}
	handler := NewProfileHandler(repo, &mockTemplateService{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	rec := doRequest(handler.Get, authedRequest(req, "user-1", ""))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "user-1", resp.UserID)
	assert.False(t, resp.HasDirectoryKey)
	assert.NotNil(t, resp.VariableMappings)
	assert.NotNil(t, resp.Attachments)
}

func TestUpdateProfile_PrunesStaleMappings(t *testing.T) {
	var saved *models.Profile
	repo := &mockProfileRepository{
		UpsertFunc: func(ctx context.Context, profile *models.Profile) error {
			saved = profile
			return nil
		},
	}
	template := &mockTemplateService{
		PruneMappingsFunc: func(tmpl string, mappings models.Mapping) models.Mapping {
			return models.Mapping{"First Name": "firstName"}
		},
	}
	handler := NewProfileHandler(repo, template, zap.NewNop())

	body := `{
		"email_template": "Hi {{First Name}}",
		"variable_mappings": {"First Name": "firstName", "Old Var": "companyName"}
	}`
	req := httptest.NewRequest(http.MethodPut, "/api/profile", strings.NewReader(body))
	rec := doRequest(handler.Update, authedRequest(req, "user-1", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, saved)
	assert.Equal(t, "user-1", saved.UserID)
	assert.Len(t, saved.VariableMappings, 1)
	assert.NotContains(t, saved.VariableMappings, "Old Var")
}

func TestUpdateProfile_ClearedTemplateDropsAllMappings(t *testing.T) {
	var saved *models.Profile
	repo := &mockProfileRepository{
		UpsertFunc: func(ctx context.Context, profile *models.Profile) error {
			saved = profile
			return nil
		},
	}
	template := &mockTemplateService{
		PruneMappingsFunc: func(tmpl string, mappings models.Mapping) models.Mapping {
			assert.Empty(t, tmpl)
			return models.Mapping{}
		},
	}
	handler := NewProfileHandler(repo, template, zap.NewNop())

	body := `{
		"email_template": "",
		"variable_mappings": {"First Name": "firstName", "Old Var": "companyName"}
	}`
	req := httptest.NewRequest(http.MethodPut, "/api/profile", strings.NewReader(body))
	rec := doRequest(handler.Update, authedRequest(req, "user-1", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, saved)
	assert.Empty(t, saved.VariableMappings)
}

func TestUpdateProfile_InvalidJSON(t *testing.T) {
	handler := NewProfileHandler(&mockProfileRepository{}, &mockTemplateService{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPut, "/api/profile", strings.NewReader(`{broken`))
	rec := doRequest(handler.Update, authedRequest(req, "user-1", ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
