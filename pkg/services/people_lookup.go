package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/vss-labs/sourcer-engine/pkg/apperrors"
	"github.com/vss-labs/sourcer-engine/pkg/directory"
	"github.com/vss-labs/sourcer-engine/pkg/models"
)

// validPeopleLimits are the page sizes the lookup accepts; anything else
// falls back to the default.
var validPeopleLimits = []int{10, 15, 25, 50, 100}

const defaultPeopleLimit = 100

// PeopleLookupResult is the output of one people lookup.
type PeopleLookupResult struct {
	People  []models.Person     `json:"people"`
	Company *models.CompanyInfo `json:"company"`
	Meta    PeopleLookupMeta    `json:"meta"`
}

// PeopleLookupMeta reports how the lookup went.
type PeopleLookupMeta struct {
	DirectoryCount int  `json:"directoryCount"`
	TotalUnique    int  `json:"totalUnique"`
	VariantsTried  bool `json:"variantsTried"`
}

// PeopleFilters narrows a people search. A nil or zero value applies the
// default seniority set and no title filter.
type PeopleFilters struct {
	Seniorities  []string `json:"seniorities,omitempty"`
	TitleKeyword string   `json:"titleKeyword,omitempty"`
}

// PeopleLookupService finds decision makers at a company: resolve the
// company's domain via name variants, then search people by name and domain.
type PeopleLookupService interface {
	// Lookup returns apperrors.ErrCompanyNotFound (wrapped) when no people
	// can be found for any name variant. In that case the result is still
	// non-nil so callers can render the resolved company context.
	Lookup(ctx context.Context, userID, companyName string, limit int, filters *PeopleFilters) (*PeopleLookupResult, error)
}

type peopleLookupService struct {
	variants  NameVariantGenerator
	directory Directory
	keys      DirectoryKeyResolver
	maxNames  int
	logger    *zap.Logger
}

var _ PeopleLookupService = (*peopleLookupService)(nil)

// NewPeopleLookupService creates the people lookup pipeline. maxNameVariants
// caps how many name candidates are tried against the directory.
func NewPeopleLookupService(
	variants NameVariantGenerator,
	directoryClient Directory,
	keys DirectoryKeyResolver,
	maxNameVariants int,
	logger *zap.Logger,
) PeopleLookupService {
	if maxNameVariants <= 0 {
		maxNameVariants = 8
	}
	return &peopleLookupService{
		variants:  variants,
		directory: directoryClient,
		keys:      keys,
		maxNames:  maxNameVariants,
		logger:    logger.Named("people-lookup"),
	}
}

func (s *peopleLookupService) Lookup(ctx context.Context, userID, companyName string, limit int, filters *PeopleFilters) (*PeopleLookupResult, error) {
	limit = clampPeopleLimit(limit)
	if filters == nil {
		filters = &PeopleFilters{}
	}
	apiKey := s.keys.Resolve(ctx, userID)
	if apiKey == "" {
		return nil, directory.ErrNoAPIKey
	}

	company := s.resolveCompany(ctx, apiKey, companyName)
	s.logger.Info("Resolved company for lookup",
		zap.String("company", company.Name),
		zap.String("domain", company.Domain),
		zap.Bool("synthesized", company.DomainSynthesized))

	people, err := s.searchPeople(ctx, apiKey, companyName, company, limit, filters)
	if err != nil {
		return nil, err
	}

	if len(people) == 0 {
		return &PeopleLookupResult{
				People:  []models.Person{},
				Company: company,
				Meta:    PeopleLookupMeta{VariantsTried: true},
			}, fmt.Errorf("no people found at %q: %w",
				companyName, apperrors.ErrCompanyNotFound)
	}

	return &PeopleLookupResult{
		People:  people,
		Company: company,
		Meta: PeopleLookupMeta{
			DirectoryCount: len(people),
			TotalUnique:    len(people),
			VariantsTried:  true,
		},
	}, nil
}

// resolveCompany tries each name variant against the directory until one
// yields a domain. When none does, it synthesizes name + ".com" and flags
// the record so downstream consumers know the domain is a guess.
func (s *peopleLookupService) resolveCompany(ctx context.Context, apiKey, companyName string) *models.CompanyInfo {
	for _, variant := range s.variants.Variants(ctx, companyName, s.maxNames) {
		info, err := s.directory.FindOrganization(ctx, apiKey, variant)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				break
			}
			s.logger.Warn("Domain lookup failed for variant",
				zap.String("variant", variant), zap.Error(err))
			continue
		}
		if info != nil {
			return info
		}
	}

	fallback := models.NormalizeName(companyName) + ".com"
	s.logger.Info("No domain found, synthesizing fallback",
		zap.String("domain", fallback))
	return &models.CompanyInfo{
		Name:              companyName,
		Domain:            fallback,
		DomainSynthesized: true,
	}
}

// searchPeople runs the two-pass search: by company name, then by domain for
// the remainder. Records are deduplicated by provider ID and capped at limit.
func (s *peopleLookupService) searchPeople(ctx context.Context, apiKey, companyName string, company *models.CompanyInfo, limit int, filters *PeopleFilters) ([]models.Person, error) {
	seen := make(map[string]struct{})
	var people []models.Person

	byName, err := s.directory.SearchPeople(ctx, apiKey, &directory.PeopleQuery{
		OrganizationName: companyName,
		Limit:            limit,
		Seniorities:      filters.Seniorities,
		TitleKeyword:     filters.TitleKeyword,
	})
	if err != nil {
		return nil, err
	}
	for _, person := range byName {
		if _, ok := seen[person.ID]; ok {
			continue
		}
		seen[person.ID] = struct{}{}
		people = append(people, person)
	}

	if company.Domain != "" && len(people) < limit {
		byDomain, err := s.directory.SearchPeople(ctx, apiKey, &directory.PeopleQuery{
			OrganizationDomain: company.Domain,
			Limit:              limit,
			Seniorities:        filters.Seniorities,
			TitleKeyword:       filters.TitleKeyword,
		})
		if err != nil {
			s.logger.Warn("Domain people search failed", zap.Error(err))
		}
		for _, person := range byDomain {
			if len(people) >= limit {
				break
			}
			if _, ok := seen[person.ID]; ok {
				continue
			}
			seen[person.ID] = struct{}{}
			people = append(people, person)
		}
	}

	if len(people) > limit {
		people = people[:limit]
	}
	return people, nil
}

// clampPeopleLimit snaps the requested page size to the allowed set.
func clampPeopleLimit(limit int) int {
	for _, valid := range validPeopleLimits {
		if limit == valid {
			return limit
		}
	}
	return defaultPeopleLimit
}
