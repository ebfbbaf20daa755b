package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/vss-labs/sourcer-engine/pkg/llm"
	"github.com/vss-labs/sourcer-engine/pkg/models"
)

// placeholderPattern matches {{Variable Name}} placeholders, non-greedy.
var placeholderPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

const autoMapSystemPrompt = "You are a precise JSON generator. Output only valid JSON."

// TestRenderData provides sample values for test-draft rendering, one per
// generator.
var TestRenderData = map[models.Generator]string{
	models.GeneratorFirstName:          "John",
	models.GeneratorLastName:           "Doe",
	models.GeneratorFullName:           "John Doe",
	models.GeneratorCompanyName:        "Acme Corp",
	models.GeneratorCompanyDomain:      "acme.com",
	models.GeneratorCompanyIndustry:    "Technology",
	models.GeneratorCompanyDescription: "Leading innovator in widget technology.",
	models.GeneratorCompanyInterest:    "We are impressed by Acme Corp's recent Series B funding and expansion into AI widgets.",
	models.GeneratorPersonInterest:     "Your background in Widget Engineering at WidgetCo makes you a perfect fit.",
	models.GeneratorCombinedInterest:   "We are impressed by Acme Corp's recent work. Your background makes you a perfect fit.",
}

// ResolveContext carries the prospect a template is being resolved against.
type ResolveContext struct {
	Person  *models.Person
	Company *models.CompanyInfo
}

// TemplateService parses email templates, maps their variables to data
// generators, and resolves them against a prospect.
type TemplateService interface {
	// ParsePlaceholders returns the distinct {{...}} placeholders in a
	// template, full braces included, in first-occurrence order.
	ParsePlaceholders(template string) []string

	// AutoMap asks the model to match bare variable names to generators in
	// one batched call. Unmatched variables are absent from the result.
	// Degrades to an empty mapping on provider failure.
	AutoMap(ctx context.Context, variables []string) models.Mapping

	// Resolve substitutes every mapped placeholder with its generated value.
	// Interest generators call into generation at most once per person;
	// their output is memoized onto the person record. Unmapped placeholders
	// render as [Variable Name] and stray braces are stripped.
	Resolve(ctx context.Context, template string, mappings models.Mapping, rc *ResolveContext) string

	// RenderTest substitutes sample data for every mapped placeholder.
	RenderTest(template string, mappings models.Mapping) string

	// PruneMappings drops mappings whose placeholder no longer appears in
	// the template.
	PruneMappings(template string, mappings models.Mapping) models.Mapping
}

type templateService struct {
	client   llm.CompletionClient
	interest InterestService
	logger   *zap.Logger
}

var _ TemplateService = (*templateService)(nil)

// NewTemplateService creates a template service. client may be nil, which
// disables auto-mapping.
func NewTemplateService(client llm.CompletionClient, interestService InterestService, logger *zap.Logger) TemplateService {
	return &templateService{
		client:   client,
		interest: interestService,
		logger:   logger.Named("template"),
	}
}

func (s *templateService) ParsePlaceholders(template string) []string {
	matches := placeholderPattern.FindAllString(template, -1)
	seen := make(map[string]struct{}, len(matches))
	placeholders := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		placeholders = append(placeholders, m)
	}
	return placeholders
}

func (s *templateService) AutoMap(ctx context.Context, variables []string) models.Mapping {
	if len(variables) == 0 || s.client == nil {
		return models.Mapping{}
	}

	var catalogue strings.Builder
	for _, def := range models.GeneratorCatalogue {
		fmt.Fprintf(&catalogue, "- value: %q, label: %q, description: %q\n",
			def.Value, def.Label, def.Description)
	}

	prompt := fmt.Sprintf(`You are an intelligent assistant that maps email template variables to system data generators.

Available Generators:
%s
User's Template Variables:
%s

Task:
For each user variable, predict the best matching "value" from the Available Generators.
If a variable seems to be a custom placeholder that doesn't match any generator (e.g., "Meeting Time", "My Name"), return null for that variable.

Return JSON format only:
{
    "Variable Name": "generator_value",
    "Another Variable": "another_value_or_null"
}`, catalogue.String(), strings.Join(variables, ", "))

	response, err := s.client.Complete(ctx, autoMapSystemPrompt, prompt, 0.1)
	if err != nil {
		s.logger.Warn("Auto-map failed", zap.Error(err))
		return models.Mapping{}
	}

	raw, err := llm.ParseJSONResponse[map[string]*string](response)
	if err != nil {
		s.logger.Warn("No valid JSON in auto-map response", zap.Error(err))
		return models.Mapping{}
	}

	mappings := models.Mapping{}
	for variable, generator := range raw {
		if generator == nil || !models.IsValidGenerator(*generator) {
			continue
		}
		mappings[variable] = *generator
	}
	return mappings
}

func (s *templateService) Resolve(ctx context.Context, template string, mappings models.Mapping, rc *ResolveContext) string {
	resolved := template
	for _, placeholder := range s.ParsePlaceholders(template) {
		name := strings.TrimSuffix(strings.TrimPrefix(placeholder, "{{"), "}}")
		generator, ok := lookupMapping(mappings, placeholder, name)
		value := ""
		if ok && models.IsValidGenerator(generator) {
			value = s.generateValue(ctx, models.Generator(generator), rc)
		}
		if value == "" {
			value = "[" + name + "]"
		}
		resolved = strings.ReplaceAll(resolved, placeholder, value)
	}
	return stripBraces(resolved)
}

func (s *templateService) RenderTest(template string, mappings models.Mapping) string {
	resolved := template
	for _, placeholder := range s.ParsePlaceholders(template) {
		name := strings.TrimSuffix(strings.TrimPrefix(placeholder, "{{"), "}}")
		generator, ok := lookupMapping(mappings, placeholder, name)
		value := ""
		if ok {
			value = TestRenderData[models.Generator(generator)]
		}
		if value == "" {
			value = "[" + name + "]"
		}
		resolved = strings.ReplaceAll(resolved, placeholder, value)
	}
	return stripBraces(resolved)
}

func (s *templateService) PruneMappings(template string, mappings models.Mapping) models.Mapping {
	present := make(map[string]struct{})
	for _, placeholder := range s.ParsePlaceholders(template) {
		present[placeholder] = struct{}{}
		present[strings.TrimSuffix(strings.TrimPrefix(placeholder, "{{"), "}}")] = struct{}{}
	}

	pruned := models.Mapping{}
	for variable, generator := range mappings {
		if _, ok := present[variable]; ok {
			pruned[variable] = generator
		}
	}
	return pruned
}

// generateValue resolves one generator against the prospect. Interest
// generators are served from the person record when already populated and
// memoized onto it otherwise.
func (s *templateService) generateValue(ctx context.Context, generator models.Generator, rc *ResolveContext) string {
	person := rc.Person
	company := rc.Company

	switch generator {
	case models.GeneratorFirstName:
		return person.FirstName
	case models.GeneratorLastName:
		return person.LastName
	case models.GeneratorFullName:
		return person.FullName()
	case models.GeneratorCompanyName:
		if company != nil && company.Name != "" {
			return company.Name
		}
		return person.CompanyName
	case models.GeneratorCompanyDomain:
		if company != nil {
			return company.Domain
		}
		return ""
	case models.GeneratorCompanyIndustry:
		if company != nil {
			return company.Industry
		}
		return ""
	case models.GeneratorCompanyDescription:
		if company != nil {
			return company.Description
		}
		return ""
	case models.GeneratorCompanyInterest:
		if person.CompanyInterestParagraph == "" {
			person.CompanyInterestParagraph = s.generateInterest(ctx, InterestCompany, rc)
		}
		return person.CompanyInterestParagraph
	case models.GeneratorPersonInterest:
		if person.PersonInterestParagraph == "" {
			person.PersonInterestParagraph = s.generateInterest(ctx, InterestPerson, rc)
		}
		return person.PersonInterestParagraph
	case models.GeneratorCombinedInterest:
		if person.CombinedInterestParagraph == "" {
			person.CombinedInterestParagraph = s.generateInterest(ctx, InterestCombined, rc)
		}
		return person.CombinedInterestParagraph
	}
	return ""
}

func (s *templateService) generateInterest(ctx context.Context, interestType InterestType, rc *ResolveContext) string {
	req := &InterestRequest{
		Type:        interestType,
		CompanyName: rc.Person.CompanyName,
		PersonName:  rc.Person.FullName(),
		PersonTitle: rc.Person.Title,
	}
	if rc.Company != nil {
		if rc.Company.Name != "" {
			req.CompanyName = rc.Company.Name
		}
		req.CompanyIndustry = rc.Company.Industry
	}

	result, err := s.interest.Generate(ctx, req)
	if err != nil {
		s.logger.Warn("Interest generation during resolve failed", zap.Error(err))
		return ""
	}
	return result.Content
}

// lookupMapping accepts mappings keyed either by the full placeholder or by
// the bare variable name.
func lookupMapping(mappings models.Mapping, placeholder, name string) (string, bool) {
	if generator, ok := mappings[placeholder]; ok {
		return generator, true
	}
	generator, ok := mappings[name]
	return generator, ok
}

// stripBraces removes brace pairs left behind by imperfect placeholder
// detection.
func stripBraces(text string) string {
	return strings.NewReplacer("{{", "", "}}", "").Replace(text)
}
