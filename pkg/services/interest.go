package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/vss-labs/sourcer-engine/pkg/llm"
	"github.com/vss-labs/sourcer-engine/pkg/research"
)

// InterestType selects which flavor of interest paragraph to generate.
type InterestType string

const (
	InterestCompany  InterestType = "companyInterest"
	InterestPerson   InterestType = "personInterest"
	InterestCombined InterestType = "combinedInterest"
)

// IsValidInterestType reports whether value names a known interest type.
func IsValidInterestType(value string) bool {
	switch InterestType(value) {
	case InterestCompany, InterestPerson, InterestCombined:
		return true
	}
	return false
}

// InterestRequest carries the prospect context for a generation call.
type InterestRequest struct {
	Type            InterestType `json:"type"`
	CompanyName     string       `json:"companyName"`
	CompanyIndustry string       `json:"companyIndustry,omitempty"`
	PersonName      string       `json:"personName,omitempty"`
	PersonTitle     string       `json:"personTitle,omitempty"`
	PersonSeniority string       `json:"personSeniority,omitempty"`
}

// InterestResult is one generated paragraph plus the research that fed it.
type InterestResult struct {
	Content      string `json:"content"`
	ResearchUsed string `json:"researchUsed,omitempty"`
}

// InterestPair holds the two paragraphs produced during an unlock.
type InterestPair struct {
	CompanyInterest string `json:"companyInterest"`
	PersonInterest  string `json:"personInterest"`
}

// InterestService writes personalized outreach paragraphs. Generation is
// best-effort: when the model fails or returns garbage the service falls
// back to deterministic sentences assembled from the outreach profile, so a
// result is always produced.
type InterestService interface {
	// Generate researches the prospect and writes one paragraph of the
	// requested type.
	Generate(ctx context.Context, req *InterestRequest) (*InterestResult, error)

	// GeneratePair writes the company and person paragraphs used by the
	// unlock pipeline, optionally grounded in a research summary.
	GeneratePair(ctx context.Context, req *InterestRequest, researchSummary string) *InterestPair
}

type interestService struct {
	client   llm.CompletionClient
	research research.Service
	profile  *OutreachProfile
	logger   *zap.Logger
}

var _ InterestService = (*interestService)(nil)

// NewInterestService creates an interest generation service.
func NewInterestService(client llm.CompletionClient, researchService research.Service, profile *OutreachProfile, logger *zap.Logger) InterestService {
	return &interestService{
		client:   client,
		research: researchService,
		profile:  profile,
		logger:   logger.Named("interest"),
	}
}

func (s *interestService) Generate(ctx context.Context, req *InterestRequest) (*InterestResult, error) {
	if req.CompanyName == "" {
		return nil, fmt.Errorf("companyName is required")
	}

	var researchUsed string
	var systemPrompt, userPrompt string

	switch req.Type {
	case InterestCompany:
		researchUsed, _ = s.research.ResearchCompany(ctx, req.CompanyName)
		systemPrompt = s.singleParagraphPrompt(`Write a 1-2 sentence "Company Interest" paragraph.
- It MUST be specific to the company using the provided research.
- Express genuine excitement (e.g., "I'm a huge user of...", "I recently used...", "I love how...").
- Do NOT be generic. Mention specific products, features, or initiatives.
- If research is sparse, focus on their known industry reputation but keep it high energy.`)
		userPrompt = fmt.Sprintf("Company: %s\nIndustry: %s\nResearch: %s",
			req.CompanyName, req.CompanyIndustry, researchUsed)

	case InterestPerson:
		researchUsed, _ = s.research.ResearchPerson(ctx, req.PersonName, req.PersonTitle, req.CompanyName)
		systemPrompt = s.singleParagraphPrompt(`Write a 1-2 sentence "Person Interest" paragraph.
- It MUST be specific to the person using the provided research.
- E.g., "I've been following your work on...", "I saw your talk at...", "Big fan of your article on...".
- If no specific research is found, compliment their role/tenure/impact at the company generally but warmly.`)
		userPrompt = fmt.Sprintf("Person: %s\nRole: %s\nCompany: %s\nResearch: %s",
			req.PersonName, req.PersonTitle, req.CompanyName, researchUsed)

	case InterestCombined:
		researchUsed, _ = s.research.ResearchTopic(ctx,
			fmt.Sprintf("Research %s at %s and recent company news.", req.PersonName, req.CompanyName),
			"Find a connection between the person and the company's recent work.")
		systemPrompt = s.singleParagraphPrompt(fmt.Sprintf(`Write a 1-2 sentence "Combined Interest" paragraph.
- Connect the person to the company's mission or recent success.
- E.g., "I'm a huge fan of %s's recent [project] and I know your team led the effort..."
- Keep it natural and enthusiastic.`, req.CompanyName))
		userPrompt = fmt.Sprintf("Person: %s\nRole: %s\nCompany: %s\nResearch: %s",
			req.PersonName, req.PersonTitle, req.CompanyName, researchUsed)

	default:
		return nil, fmt.Errorf("unknown interest type %q", req.Type)
	}

	content, err := s.client.Complete(ctx, systemPrompt, userPrompt, 0.7)
	if err != nil {
		s.logger.Warn("Interest generation failed, using fallback", zap.Error(err))
		content = s.fallbackFor(req.Type, req)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		content = s.fallbackFor(req.Type, req)
	}

	return &InterestResult{Content: content, ResearchUsed: researchUsed}, nil
}

const pairResponseShape = `Return ONLY valid JSON:
{"companyInterest": "...", "personInterest": "..."}`

func (s *interestService) GeneratePair(ctx context.Context, req *InterestRequest, researchSummary string) *InterestPair {
	fallback := &InterestPair{
		CompanyInterest: s.fallbackFor(InterestCompany, req),
		PersonInterest:  s.fallbackFor(InterestPerson, req),
	}
	if s.client == nil {
		return fallback
	}

	systemPrompt := fmt.Sprintf(`You are writing personalized outreach paragraphs for %s.

%s

Write two SHORT paragraphs (2-3 sentences each):
1. "companyInterest": Express genuine interest in what the target company does
2. "personInterest": Express specific interest in what this person does at the company. If additional research is provided, reference specific achievements or work.

Be professional, enthusiastic, and specific. Make it personal - reference their actual role and any research findings.

%s`, s.profile.Company, s.profile.Context(), pairResponseShape)

	userPrompt := fmt.Sprintf("Company: %s\nIndustry: %s\n\nPerson: %s\nRole: %s\nSeniority: %s",
		req.CompanyName,
		orFallback(req.CompanyIndustry, "Technology"),
		req.PersonName,
		orFallback(req.PersonTitle, "Team member"),
		orFallback(req.PersonSeniority, "Unknown"))
	if researchSummary != "" {
		userPrompt += "\n\nAdditional research about this person:\n" + researchSummary
	}

	response, err := s.client.Complete(ctx, systemPrompt, userPrompt, 0.7)
	if err != nil {
		s.logger.Warn("Paragraph generation failed, using fallback", zap.Error(err))
		return fallback
	}

	if pair, err := llm.ParseJSONResponse[InterestPair](response); err == nil &&
		pair.CompanyInterest != "" && pair.PersonInterest != "" {
		return &pair
	}

	// The JSON was malformed (usually truncated); salvage whatever labeled
	// fields survive before giving up on the response.
	fields := llm.ExtractLabeledFields(response, []string{"companyInterest", "personInterest"})
	recovered := &InterestPair{
		CompanyInterest: fields["companyInterest"],
		PersonInterest:  fields["personInterest"],
	}
	if recovered.CompanyInterest == "" {
		recovered.CompanyInterest = fallback.CompanyInterest
	}
	if recovered.PersonInterest == "" {
		recovered.PersonInterest = fallback.PersonInterest
	}
	if fields["companyInterest"] == "" && fields["personInterest"] == "" {
		s.logger.Warn("Could not parse paragraph response, using fallback")
	}
	return recovered
}

// singleParagraphPrompt frames a per-type instruction with the sender's
// offering context.
func (s *interestService) singleParagraphPrompt(instruction string) string {
	return fmt.Sprintf("You are writing a personalized email introduction for %s.\n%s\n\n%s",
		s.profile.Company, s.profile.Context(), instruction)
}

// fallbackFor assembles a deterministic sentence from the outreach profile.
func (s *interestService) fallbackFor(interestType InterestType, req *InterestRequest) string {
	switch interestType {
	case InterestPerson:
		return fmt.Sprintf("We're particularly interested in connecting with %s given their expertise as %s. Your insights would be invaluable as we discuss how %s could help.",
			orFallback(req.PersonName, "your team"),
			orFallback(req.PersonTitle, "a key team member"),
			s.profile.Company)
	case InterestCombined:
		return fmt.Sprintf("We at %s are excited about %s's work, and %s's role there makes this a conversation we'd love to have.",
			s.profile.Company,
			req.CompanyName,
			orFallback(req.PersonName, "your team"))
	default:
		return fmt.Sprintf("We at %s are excited about %s's work in %s and would love to explore how we can support your growth.",
			s.profile.Company,
			req.CompanyName,
			orFallback(req.CompanyIndustry, "the technology sector"))
	}
}

func orFallback(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
