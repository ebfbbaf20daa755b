// Package tools provides the MCP tool implementations for sourcer-engine.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/vss-labs/sourcer-engine/pkg/apperrors"
	"github.com/vss-labs/sourcer-engine/pkg/auth"
	"github.com/vss-labs/sourcer-engine/pkg/models"
	"github.com/vss-labs/sourcer-engine/pkg/repositories"
	"github.com/vss-labs/sourcer-engine/pkg/services"
)

// ProspectingToolDeps contains dependencies for the prospecting tools.
type ProspectingToolDeps struct {
	CompanySearch services.CompanySearchService
	PeopleLookup  services.PeopleLookupService
	Unlock        services.UnlockService
	Templates     services.TemplateService
	Profiles      repositories.ProfileRepository
	Logger        *zap.Logger
}

// RegisterProspectingTools registers all prospecting MCP tools.
func RegisterProspectingTools(s *server.MCPServer, deps *ProspectingToolDeps) {
	registerSearchCompaniesTool(s, deps)
	registerLookupPeopleTool(s, deps)
	registerUnlockPersonTool(s, deps)
	registerDraftEmailTool(s, deps)
}

// NewErrorResult creates a structured tool error result.
func NewErrorResult(code, message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("%s: %s", code, message))
}

func registerSearchCompaniesTool(s *server.MCPServer, deps *ProspectingToolDeps) {
	tool := mcp.NewTool(
		"search_companies",
		mcp.WithDescription(
			"Find companies matching a natural language description. "+
				"Combines a structured directory search with live web research and "+
				"returns deduplicated companies with name, domain, industry, and "+
				"location. Example: search_companies(prompt='AI startups in Boston "+
				"with less than 50 employees').",
		),
		mcp.WithString(
			"prompt",
			mcp.Required(),
			mcp.Description("Natural language description of the companies to find"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)

	s.AddTool(tool, searchCompaniesHandler(deps))
}

func searchCompaniesHandler(deps *ProspectingToolDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		prompt, err := req.RequireString("prompt")
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(prompt) == "" {
			return NewErrorResult("invalid_parameters", "prompt cannot be empty"), nil
		}

		result, err := deps.CompanySearch.Search(ctx, auth.GetUserIDFromContext(ctx), prompt)
		if err != nil {
			deps.Logger.Error("search_companies tool failed", zap.Error(err))
			return NewErrorResult("search_failed", err.Error()), nil
		}

		return jsonResult(result)
	}
}

func registerLookupPeopleTool(s *server.MCPServer, deps *ProspectingToolDeps) {
	tool := mcp.NewTool(
		"lookup_people",
		mcp.WithDescription(
			"Find decision makers at a company by name. Resolves the company "+
				"domain, trying name variations when the exact name misses, then "+
				"returns senior people with their titles. Contact details stay "+
				"locked until unlock_person is called.",
		),
		mcp.WithString(
			"company_name",
			mcp.Required(),
			mcp.Description("Company name to look up (e.g., 'Stripe')"),
		),
		mcp.WithNumber(
			"limit",
			mcp.Description("Maximum number of people to return (10, 15, 25, 50, or 100; default 100)"),
		),
		mcp.WithString(
			"title_keyword",
			mcp.Description("Optional keyword to match against job titles (e.g., 'engineering')"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)

	s.AddTool(tool, lookupPeopleHandler(deps))
}

func lookupPeopleHandler(deps *ProspectingToolDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		companyName, err := req.RequireString("company_name")
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(companyName) == "" {
			return NewErrorResult("invalid_parameters", "company_name cannot be empty"), nil
		}

		limit := 0
		if limitVal, ok := req.Params.Arguments.(map[string]any)["limit"]; ok {
			if limitFloat, ok := limitVal.(float64); ok {
				limit = int(limitFloat)
			}
		}

		result, err := deps.PeopleLookup.Lookup(ctx, auth.GetUserIDFromContext(ctx), companyName, limit, &services.PeopleFilters{
			TitleKeyword: req.GetString("title_keyword", ""),
		})
		if err != nil {
			if errors.Is(err, apperrors.ErrCompanyNotFound) {
				return NewErrorResult("company_not_found",
					fmt.Sprintf("company %q was not found; check the spelling or try a different name", companyName)), nil
			}
			deps.Logger.Error("lookup_people tool failed", zap.Error(err))
			return NewErrorResult("lookup_failed", err.Error()), nil
		}

		return jsonResult(result)
	}
}

func registerUnlockPersonTool(s *server.MCPServer, deps *ProspectingToolDeps) {
	tool := mcp.NewTool(
		"unlock_person",
		mcp.WithDescription(
			"Reveal a person's email and phone through the directory, research "+
				"them on the web, and generate two short personalized interest "+
				"paragraphs for outreach.",
		),
		mcp.WithString(
			"first_name",
			mcp.Required(),
			mcp.Description("Person's first name"),
		),
		mcp.WithString(
			"last_name",
			mcp.Required(),
			mcp.Description("Person's last name"),
		),
		mcp.WithString(
			"company_name",
			mcp.Required(),
			mcp.Description("Company the person works at"),
		),
		mcp.WithString(
			"title",
			mcp.Description("Person's job title, if known"),
		),
		mcp.WithString(
			"company_domain",
			mcp.Description("Company website domain, if known (improves match accuracy)"),
		),
	)

	s.AddTool(tool, unlockPersonHandler(deps))
}

func unlockPersonHandler(deps *ProspectingToolDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		firstName, err := req.RequireString("first_name")
		if err != nil {
			return nil, err
		}
		lastName, err := req.RequireString("last_name")
		if err != nil {
			return nil, err
		}
		companyName, err := req.RequireString("company_name")
		if err != nil {
			return nil, err
		}

		unlockReq := &services.UnlockRequest{
			FirstName:     firstName,
			LastName:      lastName,
			CompanyName:   companyName,
			Title:         req.GetString("title", ""),
			CompanyDomain: req.GetString("company_domain", ""),
		}

		result, err := deps.Unlock.Unlock(ctx, auth.GetUserIDFromContext(ctx), unlockReq)
		if err != nil {
			if errors.Is(err, apperrors.ErrValidation) {
				return NewErrorResult("invalid_parameters", err.Error()), nil
			}
			deps.Logger.Error("unlock_person tool failed", zap.Error(err))
			return NewErrorResult("unlock_failed", err.Error()), nil
		}

		return jsonResult(result)
	}
}

func registerDraftEmailTool(s *server.MCPServer, deps *ProspectingToolDeps) {
	tool := mcp.NewTool(
		"draft_email",
		mcp.WithDescription(
			"Render the user's stored outreach template against a prospect. "+
				"Placeholders are filled from the given person and company fields; "+
				"interest placeholders trigger research-backed generation. Returns "+
				"the subject and body ready for send-email.",
		),
		mcp.WithString(
			"first_name",
			mcp.Required(),
			mcp.Description("Prospect's first name"),
		),
		mcp.WithString(
			"last_name",
			mcp.Required(),
			mcp.Description("Prospect's last name"),
		),
		mcp.WithString(
			"company_name",
			mcp.Required(),
			mcp.Description("Prospect's company name"),
		),
		mcp.WithString(
			"title",
			mcp.Description("Prospect's job title"),
		),
		mcp.WithString(
			"company_domain",
			mcp.Description("Company website domain"),
		),
		mcp.WithString(
			"company_industry",
			mcp.Description("Company industry"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	s.AddTool(tool, draftEmailHandler(deps))
}

func draftEmailHandler(deps *ProspectingToolDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		firstName, err := req.RequireString("first_name")
		if err != nil {
			return nil, err
		}
		lastName, err := req.RequireString("last_name")
		if err != nil {
			return nil, err
		}
		companyName, err := req.RequireString("company_name")
		if err != nil {
			return nil, err
		}

		userID := auth.GetUserIDFromContext(ctx)

		profile, err := deps.Profiles.GetByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return NewErrorResult("no_template", "no email template stored; configure one in settings first"), nil
			}
			deps.Logger.Error("draft_email tool failed", zap.Error(err))
			return NewErrorResult("draft_failed", err.Error()), nil
		}
		if profile.EmailTemplate == "" {
			return NewErrorResult("no_template", "no email template stored; configure one in settings first"), nil
		}

		rc := &services.ResolveContext{
			Person: &models.Person{
				FirstName:   firstName,
				LastName:    lastName,
				Name:        strings.TrimSpace(firstName + " " + lastName),
				Title:       req.GetString("title", ""),
				CompanyName: companyName,
			},
			Company: &models.CompanyInfo{
				Name:     companyName,
				Domain:   req.GetString("company_domain", ""),
				Industry: req.GetString("company_industry", ""),
			},
		}

		draft := map[string]string{
			"subject": deps.Templates.Resolve(ctx, profile.EmailSubject, profile.VariableMappings, rc),
			"body":    deps.Templates.Resolve(ctx, profile.EmailTemplate, profile.VariableMappings, rc),
		}

		return jsonResult(draft)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(encoded)), nil
}
