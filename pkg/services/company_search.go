package services

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vss-labs/sourcer-engine/pkg/models"
	"github.com/vss-labs/sourcer-engine/pkg/research"
)

// CompanySearchResult is the merged output of one search.
type CompanySearchResult struct {
	Companies []models.Company  `json:"companies"`
	Meta      CompanySearchMeta `json:"meta"`
}

// CompanySearchMeta reports per-source counts and the interpreted criteria.
type CompanySearchMeta struct {
	DirectoryCount int                    `json:"directoryCount"`
	ResearchCount  int                    `json:"researchCount"`
	TotalUnique    int                    `json:"totalUnique"`
	Criteria       *models.SearchCriteria `json:"criteria"`
}

// CompanySearchService runs the full company discovery pipeline: interpret
// the prompt, fan out to the directory and the web in parallel, then merge.
type CompanySearchService interface {
	Search(ctx context.Context, userID, prompt string) (*CompanySearchResult, error)
}

type companySearchService struct {
	interpreter QueryInterpreter
	directory   Directory
	research    research.Service
	keys        DirectoryKeyResolver
	logger      *zap.Logger
}

var _ CompanySearchService = (*companySearchService)(nil)

// NewCompanySearchService creates the company search pipeline.
func NewCompanySearchService(
	interpreter QueryInterpreter,
	directoryClient Directory,
	researchService research.Service,
	keys DirectoryKeyResolver,
	logger *zap.Logger,
) CompanySearchService {
	return &companySearchService{
		interpreter: interpreter,
		directory:   directoryClient,
		research:    researchService,
		keys:        keys,
		logger:      logger.Named("company-search"),
	}
}

// Search runs both sources concurrently. A failing source contributes
// nothing rather than failing the search; only a fully dead pipeline
// surfaces an error to the caller.
func (s *companySearchService) Search(ctx context.Context, userID, prompt string) (*CompanySearchResult, error) {
	criteria := s.interpreter.Interpret(ctx, prompt)

	var directoryResults, researchResults []models.Company

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		apiKey := s.keys.Resolve(gctx, userID)
		companies, err := s.directory.SearchOrganizations(gctx, apiKey, criteria)
		if err != nil {
			s.logger.Warn("Directory search failed", zap.Error(err))
			return nil
		}
		directoryResults = companies
		return nil
	})
	g.Go(func() error {
		companies, err := s.research.SearchCompanies(gctx, prompt)
		if err != nil {
			s.logger.Warn("Web search failed", zap.Error(err))
			return nil
		}
		researchResults = companies
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Directory records carry verified firmographics, so they win ties.
	merged := dedupeCompanies(append(append([]models.Company{}, directoryResults...), researchResults...))

	s.logger.Info("Company search complete",
		zap.Int("directory", len(directoryResults)),
		zap.Int("research", len(researchResults)),
		zap.Int("unique", len(merged)))

	return &CompanySearchResult{
		Companies: merged,
		Meta: CompanySearchMeta{
			DirectoryCount: len(directoryResults),
			ResearchCount:  len(researchResults),
			TotalUnique:    len(merged),
			Criteria:       criteria,
		},
	}, nil
}

// dedupeCompanies keeps the first record per identity key, preserving input
// order.
func dedupeCompanies(companies []models.Company) []models.Company {
	seen := make(map[string]struct{}, len(companies))
	unique := make([]models.Company, 0, len(companies))
	for _, company := range companies {
		key := company.IdentityKey()
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, company)
	}
	return unique
}
