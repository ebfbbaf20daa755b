// Package research wraps a web-grounded chat-completions provider for
// company discovery and pre-outreach background research.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/vss-labs/sourcer-engine/pkg/jsonutil"
	"github.com/vss-labs/sourcer-engine/pkg/llm"
	"github.com/vss-labs/sourcer-engine/pkg/models"
)

// maxSearchResults caps how many companies a single web search contributes.
const maxSearchResults = 10

// noInfoPhrases mark a research answer as empty. Providers are instructed to
// answer with the first phrase when they find nothing; the rest catch the
// common ways models hedge instead.
var noInfoPhrases = []string{
	"no additional information found",
	"couldn't find",
	"i don't have",
}

const companySearchSystemPrompt = `You are a startup and company research assistant. When given a search query about companies or startups, search the web and return a JSON array of companies that match.

For each company found, include:
- name: company name
- domain: website domain (e.g., "stripe.com")
- industry: primary industry
- location: headquarters location
- description: brief description of what they do
- fundingStatus: if known (seed, series_a, series_b, etc.)

Return ONLY a valid JSON array like:
[{"name": "...", "domain": "...", "industry": "...", "location": "...", "description": "...", "fundingStatus": "..."}]

Find up to 10 relevant companies. Focus on startups and growth-stage companies.`

const personResearchSystemPrompt = `You are researching a professional for business outreach. Search the web and provide a brief 2-3 sentence summary about this person's background, achievements, or recent work that would be relevant for a business introduction. Focus on their professional accomplishments.

If you can't find specific information about this person, just say "No additional information found" - do NOT make up information.`

const companyResearchSystemPrompt = `You are a researcher. Find specific, recent, and interesting details about the company that an outreach writer could genuinely be excited about (e.g., specific API, open source tool, culture, recent funding, new product).

If you can't find specific information, just say "No additional information found" - do NOT make up information.`

// Service performs web-grounded research. All methods degrade to empty
// results on provider failure so the pipelines they feed keep moving.
type Service interface {
	// SearchCompanies finds companies on the open web matching a free-form
	// prompt.
	SearchCompanies(ctx context.Context, prompt string) ([]models.Company, error)

	// ResearchPerson summarizes a person's public professional background.
	// Returns empty string when nothing substantive was found.
	ResearchPerson(ctx context.Context, name, title, companyName string) (string, error)

	// ResearchCompany summarizes recent news and products for a company.
	// Returns empty string when nothing substantive was found.
	ResearchCompany(ctx context.Context, companyName string) (string, error)

	// ResearchTopic runs an arbitrary research query with a caller-supplied
	// system prompt, with the same no-information filtering.
	ResearchTopic(ctx context.Context, query, systemPrompt string) (string, error)
}

type service struct {
	client llm.CompletionClient
	logger *zap.Logger
}

var _ Service = (*service)(nil)

// NewService creates a research service on top of a web-grounded
// completion client. A nil client disables research; every call then
// reports no findings.
func NewService(client llm.CompletionClient, logger *zap.Logger) Service {
	return &service{
		client: client,
		logger: logger.Named("research"),
	}
}

// searchedCompany mirrors the JSON shape the search prompt asks for. Models
// flip between strings and numbers on the scalar fields, so those decode
// through jsonutil.
type searchedCompany struct {
	Name          string          `json:"name"`
	Domain        string          `json:"domain"`
	Industry      string          `json:"industry"`
	Location      string          `json:"location"`
	Description   string          `json:"description"`
	FundingStatus json.RawMessage `json:"fundingStatus"`
	EmployeeCount json.RawMessage `json:"employeeCount"`
	FoundedYear   json.RawMessage `json:"foundedYear"`
}

func (s *service) SearchCompanies(ctx context.Context, prompt string) ([]models.Company, error) {
	if s.client == nil {
		return []models.Company{}, nil
	}

	response, err := s.client.Complete(ctx, companySearchSystemPrompt,
		fmt.Sprintf("Find companies matching: %s", prompt), 0.2)
	if err != nil {
		s.logger.Warn("Web company search failed", zap.Error(err))
		return []models.Company{}, nil
	}

	found, err := llm.ParseJSONResponse[[]searchedCompany](response)
	if err != nil {
		s.logger.Warn("No JSON array in web search response", zap.Error(err))
		return []models.Company{}, nil
	}

	companies := make([]models.Company, 0, len(found))
	for i, c := range found {
		if i >= maxSearchResults {
			break
		}
		website := ""
		if c.Domain != "" {
			website = "https://" + c.Domain
		}
		companies = append(companies, models.Company{
			ID:            fmt.Sprintf("web_%d", i),
			Name:          orUnknown(c.Name),
			Domain:        c.Domain,
			Website:       website,
			Industry:      c.Industry,
			Location:      c.Location,
			EmployeeCount: jsonutil.FlexibleIntValue(c.EmployeeCount),
			FundingStatus: jsonutil.FlexibleStringValue(c.FundingStatus),
			FoundedYear:   jsonutil.FlexibleIntValue(c.FoundedYear),
			Description:   c.Description,
			Source:        models.SourceResearch,
		})
	}

	s.logger.Info("Web search found companies", zap.Int("count", len(companies)))
	return companies, nil
}

func (s *service) ResearchPerson(ctx context.Context, name, title, companyName string) (string, error) {
	query := strings.TrimSpace(fmt.Sprintf("%s %s %s", name, title, companyName))
	return s.ResearchTopic(ctx, "Research: "+query, personResearchSystemPrompt)
}

func (s *service) ResearchCompany(ctx context.Context, companyName string) (string, error) {
	query := fmt.Sprintf("Research recent news, specific products, or engineering blog posts for %s. Focus on technical details or company culture.", companyName)
	return s.ResearchTopic(ctx, query, companyResearchSystemPrompt)
}

func (s *service) ResearchTopic(ctx context.Context, query, systemPrompt string) (string, error) {
	if s.client == nil {
		return "", nil
	}

	response, err := s.client.Complete(ctx, systemPrompt, query, 0.3)
	if err != nil {
		s.logger.Warn("Research query failed", zap.Error(err))
		return "", nil
	}

	content := strings.TrimSpace(response)
	lowered := strings.ToLower(content)
	for _, phrase := range noInfoPhrases {
		if strings.Contains(lowered, phrase) {
			return "", nil
		}
	}
	return content, nil
}

func orUnknown(name string) string {
	if name == "" {
		return "Unknown"
	}
	return name
}
