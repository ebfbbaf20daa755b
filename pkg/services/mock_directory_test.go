package services

import (
	"context"

	"github.com/vss-labs/sourcer-engine/pkg/directory"
	"github.com/vss-labs/sourcer-engine/pkg/models"
	"github.com/vss-labs/sourcer-engine/pkg/research"
)

var _ research.Service = (*mockResearch)(nil)

// mockDirectory is a function-field mock of the Directory interface.
type mockDirectory struct {
	SearchOrganizationsFunc func(ctx context.Context, apiKey string, criteria *models.SearchCriteria) ([]models.Company, error)
	FindOrganizationFunc    func(ctx context.Context, apiKey, name string) (*models.CompanyInfo, error)
	SearchPeopleFunc        func(ctx context.Context, apiKey string, query *directory.PeopleQuery) ([]models.Person, error)
	MatchPersonFunc         func(ctx context.Context, apiKey, firstName, lastName, organizationName string) (*directory.MatchResult, error)
}

var _ Directory = (*mockDirectory)(nil)

func (m *mockDirectory) SearchOrganizations(ctx context.Context, apiKey string, criteria *models.SearchCriteria) ([]models.Company, error) {
	if m.SearchOrganizationsFunc != nil {
		return m.SearchOrganizationsFunc(ctx, apiKey, criteria)
	}
	return nil, nil
}

func (m *mockDirectory) FindOrganization(ctx context.Context, apiKey, name string) (*models.CompanyInfo, error) {
	if m.FindOrganizationFunc != nil {
		return m.FindOrganizationFunc(ctx, apiKey, name)
	}
	return nil, nil
}

func (m *mockDirectory) SearchPeople(ctx context.Context, apiKey string, query *directory.PeopleQuery) ([]models.Person, error) {
	if m.SearchPeopleFunc != nil {
		return m.SearchPeopleFunc(ctx, apiKey, query)
	}
	return nil, nil
}

func (m *mockDirectory) MatchPerson(ctx context.Context, apiKey, firstName, lastName, organizationName string) (*directory.MatchResult, error) {
	if m.MatchPersonFunc != nil {
		return m.MatchPersonFunc(ctx, apiKey, firstName, lastName, organizationName)
	}
	return &directory.MatchResult{}, nil
}

// staticKeys resolves every user to the same key.
type staticKeys string

func (k staticKeys) Resolve(ctx context.Context, userID string) string { return string(k) }

// mockResearch is a function-field mock of research.Service.
//
// Kept in the services package because it is only needed to exercise the
// pipelines that consume research output.
type mockResearch struct {
	SearchCompaniesFunc func(ctx context.Context, prompt string) ([]models.Company, error)
	ResearchPersonFunc  func(ctx context.Context, name, title, companyName string) (string, error)
	ResearchCompanyFunc func(ctx context.Context, companyName string) (string, error)
	ResearchTopicFunc   func(ctx context.Context, query, systemPrompt string) (string, error)
}

func (m *mockResearch) SearchCompanies(ctx context.Context, prompt string) ([]models.Company, error) {
	if m.SearchCompaniesFunc != nil {
		return m.SearchCompaniesFunc(ctx, prompt)
	}
	return nil, nil
}

func (m *mockResearch) ResearchPerson(ctx context.Context, name, title, companyName string) (string, error) {
	if m.ResearchPersonFunc != nil {
		return m.ResearchPersonFunc(ctx, name, title, companyName)
	}
	return "", nil
}

func (m *mockResearch) ResearchCompany(ctx context.Context, companyName string) (string, error) {
	if m.ResearchCompanyFunc != nil {
		return m.ResearchCompanyFunc(ctx, companyName)
	}
	return "", nil
}

func (m *mockResearch) ResearchTopic(ctx context.Context, query, systemPrompt string) (string, error) {
	if m.ResearchTopicFunc != nil {
		return m.ResearchTopicFunc(ctx, query, systemPrompt)
	}
	return "", nil
}
