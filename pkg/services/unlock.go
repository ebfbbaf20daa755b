package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/vss-labs/sourcer-engine/pkg/apperrors"
	"github.com/vss-labs/sourcer-engine/pkg/directory"
	"github.com/vss-labs/sourcer-engine/pkg/llm"
	"github.com/vss-labs/sourcer-engine/pkg/models"
	"github.com/vss-labs/sourcer-engine/pkg/research"
)

// UnlockRequest identifies the person to unlock. FirstName, LastName and
// CompanyName are required; the reveal call fails closed without them.
type UnlockRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Name            string `json:"name,omitempty"`
	Title           string `json:"title,omitempty"`
	Seniority       string `json:"seniority,omitempty"`
	CompanyName     string `json:"companyName"`
	CompanyDomain   string `json:"companyDomain,omitempty"`
	CompanyIndustry string `json:"companyIndustry,omitempty"`
}

// UnlockResult carries everything one unlock produced. Email is empty when
// the provider had no revealable address; the enrichment fields are always
// populated.
type UnlockResult struct {
	Email                    string `json:"email,omitempty"`
	Phone                    string `json:"phone,omitempty"`
	ResearchSummary          string `json:"researchSummary,omitempty"`
	CompanyInterestParagraph string `json:"companyInterestParagraph"`
	PersonInterestParagraph  string `json:"personInterestParagraph"`
}

// BatchUnlockOutcome pairs a batch entry with its result or error.
type BatchUnlockOutcome struct {
	Index  int           `json:"index"`
	Result *UnlockResult `json:"result,omitempty"`
	Err    error         `json:"-"`
}

// UnlockService runs the unlock pipeline: reveal contact details through the
// directory, research the person on the web, and generate the two interest
// paragraphs. Research and generation are best-effort and run even when the
// reveal call fails.
type UnlockService interface {
	// Unlock returns apperrors.ErrRevealFailed (wrapped) alongside a non-nil
	// result when the reveal call failed but enrichment still ran; only an
	// invalid request yields a nil result.
	Unlock(ctx context.Context, userID string, req *UnlockRequest) (*UnlockResult, error)

	// UnlockBatch processes requests concurrently with a bounded pool.
	// Outcomes are indexed into the request slice; a failed entry does not
	// stop the rest.
	UnlockBatch(ctx context.Context, userID string, reqs []*UnlockRequest) []BatchUnlockOutcome
}

type unlockService struct {
	directory Directory
	research  research.Service
	interest  InterestService
	keys      DirectoryKeyResolver
	pool      *llm.WorkerPool
	logger    *zap.Logger
}

var _ UnlockService = (*unlockService)(nil)

// NewUnlockService creates the unlock pipeline. maxConcurrent bounds batch
// parallelism.
func NewUnlockService(
	directoryClient Directory,
	researchService research.Service,
	interestService InterestService,
	keys DirectoryKeyResolver,
	maxConcurrent int,
	logger *zap.Logger,
) UnlockService {
	return &unlockService{
		directory: directoryClient,
		research:  researchService,
		interest:  interestService,
		keys:      keys,
		pool:      llm.NewWorkerPool(llm.WorkerPoolConfig{MaxConcurrent: maxConcurrent}, logger),
		logger:    logger.Named("unlock"),
	}
}

func (s *unlockService) Unlock(ctx context.Context, userID string, req *UnlockRequest) (*UnlockResult, error) {
	if req.FirstName == "" || req.LastName == "" || req.CompanyName == "" {
		return nil, fmt.Errorf("firstName, lastName and companyName are required: %w", apperrors.ErrValidation)
	}

	displayName := req.Name
	if displayName == "" {
		displayName = req.FirstName + " " + req.LastName
	}
	s.logger.Info("Unlocking person",
		zap.String("person", displayName),
		zap.String("company", req.CompanyName))

	apiKey := s.keys.Resolve(ctx, userID)
	match, revealErr := s.directory.MatchPerson(ctx, apiKey, req.FirstName, req.LastName, req.CompanyName)
	if revealErr != nil {
		// Research and generation still run; the caller learns about the
		// failed reveal through the returned error.
		s.logger.Warn("Contact reveal failed",
			zap.String("person", displayName),
			zap.Error(revealErr))
		match = &directory.MatchResult{}
		revealErr = fmt.Errorf("%w: %v", apperrors.ErrRevealFailed, revealErr)
	}

	summary, _ := s.research.ResearchPerson(ctx, displayName, req.Title, req.CompanyName)

	pair := s.interest.GeneratePair(ctx, &InterestRequest{
		CompanyName:     req.CompanyName,
		CompanyIndustry: req.CompanyIndustry,
		PersonName:      displayName,
		PersonTitle:     req.Title,
		PersonSeniority: req.Seniority,
	}, summary)

	s.logger.Info("Unlocked person",
		zap.String("person", displayName),
		zap.Bool("email_revealed", match.Email != ""))

	return &UnlockResult{
		Email:                    match.Email,
		Phone:                    match.Phone,
		ResearchSummary:          summary,
		CompanyInterestParagraph: pair.CompanyInterest,
		PersonInterestParagraph:  pair.PersonInterest,
	}, revealErr
}

func (s *unlockService) UnlockBatch(ctx context.Context, userID string, reqs []*UnlockRequest) []BatchUnlockOutcome {
	items := make([]llm.WorkItem[BatchUnlockOutcome], len(reqs))
	for i, req := range reqs {
		i, req := i, req
		items[i] = llm.WorkItem[BatchUnlockOutcome]{
			ID: fmt.Sprintf("unlock-%d", i),
			Execute: func(ctx context.Context) (BatchUnlockOutcome, error) {
				result, err := s.Unlock(ctx, userID, req)
				return BatchUnlockOutcome{Index: i, Result: result, Err: err}, nil
			},
		}
	}

	results := llm.Process(ctx, s.pool, items)

	outcomes := make([]BatchUnlockOutcome, len(reqs))
	for _, r := range results {
		if r.Err != nil {
			// Only context cancellation reaches here; per-entry failures are
			// carried inside the outcome itself.
			if idx, err := strconv.Atoi(strings.TrimPrefix(r.ID, "unlock-")); err == nil && idx < len(outcomes) {
				outcomes[idx] = BatchUnlockOutcome{Index: idx, Err: r.Err}
			}
			continue
		}
		outcomes[r.Result.Index] = r.Result
	}
	return outcomes
}

// Apply copies an unlock result onto a person record. Enrichment fields are
// written once and kept; a later unlock never clears them.
func (r *UnlockResult) Apply(p *models.Person) {
	if r.Email != "" {
		p.Email = r.Email
	}
	if r.Phone != "" {
		p.Phone = r.Phone
	}
	if r.ResearchSummary != "" {
		p.ResearchSummary = r.ResearchSummary
	}
	if r.CompanyInterestParagraph != "" {
		p.CompanyInterestParagraph = r.CompanyInterestParagraph
	}
	if r.PersonInterestParagraph != "" {
		p.PersonInterestParagraph = r.PersonInterestParagraph
	}
	p.IsUnlocked = true
}
