package services

import (
	"context"

	"github.com/vss-labs/sourcer-engine/pkg/directory"
	"github.com/vss-labs/sourcer-engine/pkg/models"
)

// Directory is the subset of the directory provider client the pipelines
// consume. Satisfied by *directory.Client.
type Directory interface {
	SearchOrganizations(ctx context.Context, apiKey string, criteria *models.SearchCriteria) ([]models.Company, error)
	FindOrganization(ctx context.Context, apiKey, name string) (*models.CompanyInfo, error)
	SearchPeople(ctx context.Context, apiKey string, query *directory.PeopleQuery) ([]models.Person, error)
	MatchPerson(ctx context.Context, apiKey, firstName, lastName, organizationName string) (*directory.MatchResult, error)
}

var _ Directory = (*directory.Client)(nil)
