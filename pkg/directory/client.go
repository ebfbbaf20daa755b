// Package directory provides a client for the B2B contact directory provider.
// All endpoints speak JSON over POST (except auth/health) and authenticate
// with a per-request x-api-key header, so one client instance can serve both
// the process-wide key and per-user keys.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/vss-labs/sourcer-engine/pkg/models"
)

// DefaultTimeout is the maximum time to wait for directory responses.
const DefaultTimeout = 30 * time.Second

// ErrNoAPIKey is returned when neither a per-user nor a process-wide
// directory key is available.
var ErrNoAPIKey = errors.New("no directory API key configured")

// Config holds directory client configuration.
type Config struct {
	BaseURL        string
	RequestsPerSec float64
	Burst          int
}

// PeopleQuery describes a people search. Exactly one of OrganizationName or
// OrganizationDomain should be set per call.
type PeopleQuery struct {
	OrganizationName   string
	OrganizationDomain string
	Limit              int
	Seniorities        []string
	TitleKeyword       string
}

// MatchResult holds the contact details revealed by a person match call.
type MatchResult struct {
	Email string
	Phone string
}

// RateLimits reports the provider's remaining quota as returned in
// auth/health response headers.
type RateLimits struct {
	MinuteRequestsLeft string `json:"minuteRequestsLeft"`
	MinuteUsage        string `json:"minuteUsage"`
	HourlyRequestsLeft string `json:"hourlyRequestsLeft"`
	HourlyUsage        string `json:"hourlyUsage"`
	DailyRequestsLeft  string `json:"dailyRequestsLeft"`
	DailyUsage         string `json:"dailyUsage"`
	RateLimitMinute    string `json:"rateLimitMinute"`
	RateLimitHourly    string `json:"rateLimitHourly"`
	RateLimitDaily     string `json:"rateLimitDaily"`
}

// UsageReport is the result of a key validation call.
type UsageReport struct {
	IsValid    bool       `json:"isValid"`
	RateLimits RateLimits `json:"rateLimits"`
}

// Client provides access to the directory provider API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient creates a new directory client. The rate limiter is shared
// across all keys; the provider throttles per account, but a single shared
// limiter keeps this process well under any per-key budget.
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("directory base URL is required")
	}
	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 2
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 4
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		logger:     logger.Named("directory"),
	}, nil
}

// organizationRecord mirrors the provider's organization payload.
type organizationRecord struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Domain           string `json:"domain"`
	WebsiteURL       string `json:"website_url"`
	Industry         string `json:"industry"`
	City             string `json:"city"`
	State            string `json:"state"`
	Country          string `json:"country"`
	EmployeeCount    int    `json:"employee_count"`
	FundingStatus    string `json:"funding_status"`
	FoundedYear      int    `json:"founded_year"`
	ShortDescription string `json:"short_description"`
	LinkedinURL      string `json:"linkedin_url"`
}

// personRecord mirrors the provider's person payload.
type personRecord struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Email            string `json:"email"`
	EmailDisplay     string `json:"email_display"`
	PhoneNumber      string `json:"phone_number"`
	SanitizedPhone   string `json:"sanitized_phone"`
	Title            string `json:"title"`
	Seniority        string `json:"seniority"`
	LinkedinURL      string `json:"linkedin_url"`
	OrganizationName string `json:"organization_name"`
}

// SearchOrganizations finds companies matching the criteria. Only non-empty
// criteria fields are sent. Quota errors (403, 422) are logged and surface
// as an empty result so that other search sources still contribute.
func (c *Client) SearchOrganizations(ctx context.Context, apiKey string, criteria *models.SearchCriteria) ([]models.Company, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	body := map[string]any{
		"per_page": 25,
	}
	if len(criteria.Industries) > 0 {
		body["q_organization_keyword_tags"] = criteria.Industries
	}
	if len(criteria.Locations) > 0 {
		body["organization_locations"] = criteria.Locations
	}
	if len(criteria.Sizes) > 0 {
		body["organization_num_employees_ranges"] = criteria.Sizes
	}
	if len(criteria.Keywords) > 0 {
		body["q_organization_name"] = joinKeywords(criteria.Keywords)
	}

	var result struct {
		Organizations []organizationRecord `json:"organizations"`
		Accounts      []organizationRecord `json:"accounts"`
	}
	ok, err := c.postJSON(ctx, apiKey, "organizations/search", body, &result)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.Company{}, nil
	}

	records := result.Organizations
	if len(records) == 0 {
		records = result.Accounts
	}

	companies := make([]models.Company, 0, len(records))
	for _, org := range records {
		companies = append(companies, toCompany(org))
	}
	return companies, nil
}

// FindOrganization looks up a single company by exact name. Returns nil when
// no record with a domain exists, so callers can try the next name variant.
func (c *Client) FindOrganization(ctx context.Context, apiKey, name string) (*models.CompanyInfo, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	body := map[string]any{
		"q_organization_name": name,
		"per_page":            1,
	}

	var result struct {
		Organizations []organizationRecord `json:"organizations"`
		Accounts      []organizationRecord `json:"accounts"`
	}
	ok, err := c.postJSON(ctx, apiKey, "mixed_companies/search", body, &result)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	records := result.Organizations
	if len(records) == 0 {
		records = result.Accounts
	}
	if len(records) == 0 || records[0].Domain == "" {
		return nil, nil
	}

	org := records[0]
	c.logger.Info("Resolved company domain",
		zap.String("name", org.Name),
		zap.String("domain", org.Domain),
		zap.String("variant", name))

	return &models.CompanyInfo{
		Name:        org.Name,
		Domain:      org.Domain,
		Industry:    org.Industry,
		Description: org.ShortDescription,
	}, nil
}

// SearchPeople finds people at an organization by name or domain.
func (c *Client) SearchPeople(ctx context.Context, apiKey string, query *PeopleQuery) ([]models.Person, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	limit := query.Limit
	if limit <= 0 {
		limit = 100
	}
	seniorities := query.Seniorities
	if len(seniorities) == 0 {
		seniorities = models.DefaultSeniorities
	}

	body := map[string]any{
		"per_page":           limit,
		"person_seniorities": seniorities,
	}
	if query.TitleKeyword != "" {
		body["q_keywords"] = query.TitleKeyword
	}
	switch {
	case query.OrganizationName != "":
		body["q_organization_name"] = query.OrganizationName
	case query.OrganizationDomain != "":
		body["q_organization_domains"] = query.OrganizationDomain
	default:
		return nil, fmt.Errorf("people query requires an organization name or domain")
	}

	var result struct {
		People     []personRecord `json:"people"`
		Pagination struct {
			TotalEntries int `json:"total_entries"`
		} `json:"pagination"`
	}
	ok, err := c.postJSON(ctx, apiKey, "mixed_people/search", body, &result)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.Person{}, nil
	}

	c.logger.Debug("People search returned",
		zap.Int("count", len(result.People)),
		zap.Int("total_entries", result.Pagination.TotalEntries))

	people := make([]models.Person, 0, len(result.People))
	for _, p := range result.People {
		people = append(people, toPerson(p, query.OrganizationName))
	}
	return people, nil
}

// MatchPerson reveals a person's contact details. Both names are required by
// the provider; locked placeholder emails are filtered out, so an empty
// Email on a successful match means the provider had nothing to reveal.
func (c *Client) MatchPerson(ctx context.Context, apiKey, firstName, lastName, organizationName string) (*MatchResult, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if firstName == "" || lastName == "" {
		return nil, fmt.Errorf("person match requires both first and last name")
	}

	body := map[string]any{
		"first_name":             firstName,
		"last_name":              lastName,
		"organization_name":      organizationName,
		"reveal_personal_emails": true,
	}

	var result struct {
		Person *personRecord `json:"person"`
	}
	ok, err := c.postJSON(ctx, apiKey, "people/match", body, &result)
	if err != nil {
		return nil, err
	}
	if !ok || result.Person == nil {
		return &MatchResult{}, nil
	}

	email := result.Person.Email
	if email == "" {
		email = result.Person.EmailDisplay
	}
	phone := result.Person.PhoneNumber
	if phone == "" {
		phone = result.Person.SanitizedPhone
	}

	return &MatchResult{
		Email: models.CleanEmail(email),
		Phone: phone,
	}, nil
}

// AuthHealth validates an API key and reports remaining rate-limit quota
// from the provider's response headers.
func (c *Client) AuthHealth(ctx context.Context, apiKey string) (*UsageReport, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint, err := buildURL(c.baseURL, "auth", "health")
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("x-api-key", apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call directory: %w", err)
	}
	defer resp.Body.Close()

	report := &UsageReport{
		RateLimits: RateLimits{
			MinuteRequestsLeft: resp.Header.Get("x-minute-requests-left"),
			MinuteUsage:        resp.Header.Get("x-minute-usage"),
			HourlyRequestsLeft: resp.Header.Get("x-hourly-requests-left"),
			HourlyUsage:        resp.Header.Get("x-hourly-usage"),
			DailyRequestsLeft:  resp.Header.Get("x-daily-requests-left"),
			DailyUsage:         resp.Header.Get("x-daily-usage"),
			RateLimitMinute:    resp.Header.Get("x-rate-limit-minute"),
			RateLimitHourly:    resp.Header.Get("x-rate-limit-hourly"),
			RateLimitDaily:     resp.Header.Get("x-rate-limit-daily"),
		},
	}

	if resp.StatusCode != http.StatusOK {
		return report, nil
	}

	var health struct {
		IsLoggedIn bool `json:"is_logged_in"`
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(body, &health); err != nil {
		return nil, fmt.Errorf("failed to parse health response: %w", err)
	}

	report.IsValid = health.IsLoggedIn
	return report, nil
}

// postJSON performs a rate-limited POST. The boolean result reports whether
// the call succeeded; quota and validation failures (403, 422) are logged
// and reported as ok=false without an error.
func (c *Client) postJSON(ctx context.Context, apiKey, endpoint string, body any, out any) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, err
	}

	target, err := buildURL(c.baseURL, endpoint)
	if err != nil {
		return false, fmt.Errorf("failed to build URL: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return false, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to call directory: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Directory API returned error",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(respBody)))
		if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnprocessableEntity {
			return false, nil
		}
		return false, fmt.Errorf("directory returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return false, fmt.Errorf("failed to parse directory response: %w", err)
	}
	return true, nil
}

// buildURL joins a base URL with path segments.
func buildURL(baseURL string, segments ...string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	parts := append([]string{u.Path}, segments...)
	u.Path = path.Join(parts...)
	return u.String(), nil
}

func toCompany(org organizationRecord) models.Company {
	website := org.WebsiteURL
	if website == "" && org.Domain != "" {
		website = "https://" + org.Domain
	}
	location := ""
	if org.City != "" {
		region := org.State
		if region == "" {
			region = org.Country
		}
		location = org.City + ", " + region
	}
	return models.Company{
		ID:            "dir_" + org.ID,
		Name:          orDefault(org.Name, "Unknown"),
		Domain:        org.Domain,
		Website:       website,
		Industry:      org.Industry,
		Location:      location,
		EmployeeCount: org.EmployeeCount,
		FundingStatus: org.FundingStatus,
		FoundedYear:   org.FoundedYear,
		Description:   org.ShortDescription,
		SocialURL:     org.LinkedinURL,
		Source:        models.SourceDirectory,
	}
}

func toPerson(p personRecord, fallbackCompany string) models.Person {
	company := p.OrganizationName
	if company == "" {
		company = fallbackCompany
	}
	return models.Person{
		ID:          "dir_" + p.ID,
		Name:        orDefault(p.Name, "Unknown"),
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       models.CleanEmail(p.Email),
		Phone:       p.PhoneNumber,
		Title:       p.Title,
		Seniority:   p.Seniority,
		SocialURL:   p.LinkedinURL,
		CompanyName: company,
		Source:      models.SourceDirectory,
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func joinKeywords(keywords []string) string {
	return strings.Join(keywords, " ")
}
