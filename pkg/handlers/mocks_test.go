package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vss-labs/sourcer-engine/pkg/auth"
	"github.com/vss-labs/sourcer-engine/pkg/directory"
	"github.com/vss-labs/sourcer-engine/pkg/mailer"
	"github.com/vss-labs/sourcer-engine/pkg/models"
	"github.com/vss-labs/sourcer-engine/pkg/services"
)

// authedRequest attaches claims the way the auth middleware would, so
// handlers can be exercised directly.
func authedRequest(req *http.Request, userID, googleToken string) *http.Request {
	claims := &auth.Claims{
		RegisteredClaims:  jwt.RegisteredClaims{Subject: userID},
		GoogleAccessToken: googleToken,
	}
	ctx := context.WithValue(req.Context(), auth.ClaimsKey, claims)
	return req.WithContext(ctx)
}

func doRequest(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

type mockCompanySearchService struct {
	SearchFunc func(ctx context.Context, userID, prompt string) (*services.CompanySearchResult, error)
}

func (m *mockCompanySearchService) Search(ctx context.Context, userID, prompt string) (*services.CompanySearchResult, error) {
	return m.SearchFunc(ctx, userID, prompt)
}

type mockPeopleLookupService struct {
	LookupFunc func(ctx context.Context, userID, companyName string, limit int, filters *services.PeopleFilters) (*services.PeopleLookupResult, error)
}

func (m *mockPeopleLookupService) Lookup(ctx context.Context, userID, companyName string, limit int, filters *services.PeopleFilters) (*services.PeopleLookupResult, error) {
	return m.LookupFunc(ctx, userID, companyName, limit, filters)
}

type mockUnlockService struct {
	UnlockFunc      func(ctx context.Context, userID string, req *services.UnlockRequest) (*services.UnlockResult, error)
	UnlockBatchFunc func(ctx context.Context, userID string, reqs []*services.UnlockRequest) []services.BatchUnlockOutcome
}

func (m *mockUnlockService) Unlock(ctx context.Context, userID string, req *services.UnlockRequest) (*services.UnlockResult, error) {
	return m.UnlockFunc(ctx, userID, req)
}

func (m *mockUnlockService) UnlockBatch(ctx context.Context, userID string, reqs []*services.UnlockRequest) []services.BatchUnlockOutcome {
	return m.UnlockBatchFunc(ctx, userID, reqs)
}

type mockInterestService struct {
	GenerateFunc     func(ctx context.Context, req *services.InterestRequest) (*services.InterestResult, error)
	GeneratePairFunc func(ctx context.Context, req *services.InterestRequest, researchSummary string) *services.InterestPair
}

func (m *mockInterestService) Generate(ctx context.Context, req *services.InterestRequest) (*services.InterestResult, error) {
	return m.GenerateFunc(ctx, req)
}

func (m *mockInterestService) GeneratePair(ctx context.Context, req *services.InterestRequest, researchSummary string) *services.InterestPair {
	return m.GeneratePairFunc(ctx, req, researchSummary)
}

type mockTemplateService struct {
	ParsePlaceholdersFunc func(template string) []string
	AutoMapFunc           func(ctx context.Context, variables []string) models.Mapping
	ResolveFunc           func(ctx context.Context, template string, mappings models.Mapping, rc *services.ResolveContext) string
	RenderTestFunc        func(template string, mappings models.Mapping) string
	PruneMappingsFunc     func(template string, mappings models.Mapping) models.Mapping
}

func (m *mockTemplateService) ParsePlaceholders(template string) []string {
	return m.ParsePlaceholdersFunc(template)
}

func (m *mockTemplateService) AutoMap(ctx context.Context, variables []string) models.Mapping {
	return m.AutoMapFunc(ctx, variables)
}

func (m *mockTemplateService) Resolve(ctx context.Context, template string, mappings models.Mapping, rc *services.ResolveContext) string {
	return m.ResolveFunc(ctx, template, mappings, rc)
}

func (m *mockTemplateService) RenderTest(template string, mappings models.Mapping) string {
	return m.RenderTestFunc(template, mappings)
}

func (m *mockTemplateService) PruneMappings(template string, mappings models.Mapping) models.Mapping {
	return m.PruneMappingsFunc(template, mappings)
}

type mockTransport struct {
	SendFunc func(ctx context.Context, accessToken string, msg *mailer.OutgoingMessage) (string, error)
}

func (m *mockTransport) Send(ctx context.Context, accessToken string, msg *mailer.OutgoingMessage) (string, error) {
	return m.SendFunc(ctx, accessToken, msg)
}

type mockSentEmailRepository struct {
	InsertFunc     func(ctx context.Context, email *models.SentEmail) error
	ListByUserFunc func(ctx context.Context, userID string, limit int) ([]models.SentEmail, error)
}

func (m *mockSentEmailRepository) Insert(ctx context.Context, email *models.SentEmail) error {
	return m.InsertFunc(ctx, email)
}

func (m *mockSentEmailRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.SentEmail, error) {
	return m.ListByUserFunc(ctx, userID, limit)
}

type mockProfileRepository struct {
	GetByUserIDFunc func(ctx context.Context, userID string) (*models.Profile, error)
	UpsertFunc      func(ctx context.Context, profile *models.Profile) error
}

func (m *mockProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	return m.GetByUserIDFunc(ctx, userID)
}

func (m *mockProfileRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	return m.UpsertFunc(ctx, profile)
}

type mockUsageChecker struct {
	AuthHealthFunc func(ctx context.Context, apiKey string) (*directory.UsageReport, error)
}

func (m *mockUsageChecker) AuthHealth(ctx context.Context, apiKey string) (*directory.UsageReport, error) {
	return m.AuthHealthFunc(ctx, apiKey)
}

// staticKeyResolver resolves every user to the same key.
type staticKeyResolver string

func (s staticKeyResolver) Resolve(ctx context.Context, userID string) string {
	return string(s)
}
