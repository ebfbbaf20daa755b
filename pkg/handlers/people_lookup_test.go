package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vss-labs/sourcer-engine/pkg/apperrors"
	"github.com/vss-labs/sourcer-engine/pkg/directory"
	"github.com/vss-labs/sourcer-engine/pkg/models"
	"github.com/vss-labs/sourcer-engine/pkg/services"
)

func TestPeopleLookup(t *testing.T) {
	lookup := &mockPeopleLookupService{
		LookupFunc: func(ctx context.Context, userID, companyName string, limit int, filters *services.PeopleFilters) (*services.PeopleLookupResult, error) {
			assert.Equal(t, "Stripe", companyName)
			assert.Equal(t, 25, limit)
			require.NotNil(t, filters)
			assert.Equal(t, []string{"founder", "c_suite"}, filters.Seniorities)
			assert.Equal(t, "engineering", filters.TitleKeyword)
			return &services.PeopleLookupResult{
				People:  []models.Person{{ID: "dir_1", Name: "Jane Roe", CompanyName: "Stripe"}},
				Company: &models.CompanyInfo{Name: "Stripe", Domain: "stripe.com"},
				Meta:    services.PeopleLookupMeta{DirectoryCount: 1, TotalUnique: 1},
			}, nil
		},
	}
	handler := NewPeopleLookupHandler(lookup, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/people-lookup",
		strings.NewReader(`{"companyName":"Stripe","limit":25,"seniorities":["founder","c_suite"],"titleKeyword":"engineering"}`))
	rec := doRequest(handler.Lookup, authedRequest(req, "user-1", ""))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp PeopleLookupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.People, 1)
	assert.Equal(t, "stripe.com", resp.Company.Domain)
}

func TestPeopleLookup_CompanyNotFound(t *testing.T) {
	lookup := &mockPeopleLookupService{
		LookupFunc: func(ctx context.Context, userID, companyName string, limit int, filters *services.PeopleFilters) (*services.PeopleLookupResult, error) {
			return &services.PeopleLookupResult{
				Company: &models.CompanyInfo{Name: companyName, Domain: "frobnicatelabs.com", DomainSynthesized: true},
				Meta:    services.PeopleLookupMeta{VariantsTried: true},
			}, fmt.Errorf("no people found: %w", apperrors.ErrCompanyNotFound)
		},
	}
	handler := NewPeopleLookupHandler(lookup, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/people-lookup",
		strings.NewReader(`{"companyName":"Frobnicate Labs"}`))
	rec := doRequest(handler.Lookup, authedRequest(req, "user-1", ""))

	// Not found is a 200 with success=false so the client can show the
	// resolved company context.
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PeopleLookupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "COMPANY_NOT_FOUND", resp.Error)
	assert.Contains(t, resp.Message, "Frobnicate Labs")
	assert.NotNil(t, resp.People)
	assert.Empty(t, resp.People)
	require.NotNil(t, resp.Company)
	assert.True(t, resp.Company.DomainSynthesized)
	assert.True(t, resp.Meta.VariantsTried)
}

func TestPeopleLookup_MissingCompanyName(t *testing.T) {
	handler := NewPeopleLookupHandler(&mockPeopleLookupService{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/people-lookup", strings.NewReader(`{"limit":10}`))
	rec := doRequest(handler.Lookup, authedRequest(req, "user-1", ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "companyName is required")
}

func TestPeopleLookup_NoAPIKey(t *testing.T) {
	lookup := &mockPeopleLookupService{
		LookupFunc: func(ctx context.Context, userID, companyName string, limit int, filters *services.PeopleFilters) (*services.PeopleLookupResult, error) {
			return nil, directory.ErrNoAPIKey
		},
	}
	handler := NewPeopleLookupHandler(lookup, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/people-lookup",
		strings.NewReader(`{"companyName":"Stripe"}`))
	rec := doRequest(handler.Lookup, authedRequest(req, "user-1", ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no_directory_key")
}
