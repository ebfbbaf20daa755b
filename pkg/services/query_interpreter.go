package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/vss-labs/sourcer-engine/pkg/llm"
	"github.com/vss-labs/sourcer-engine/pkg/models"
)

const criteriaSystemPrompt = `You are a search criteria extractor. Given a natural language query about finding companies/startups, extract structured search criteria.

Return ONLY valid JSON with this structure:
{
  "industries": ["software", "fintech", etc] - industry keywords,
  "locations": ["san francisco, ca", "new york, ny"] - city/state/country,
  "sizes": ["1-10", "11-50", "51-200", "201-500", "501-1000", "1001-5000", "5001-10000", "10000+"] - employee counts,
  "keywords": ["ai", "saas", "developer tools"] - other relevant keywords,
  "fundingStatus": "seed" | "series_a" | "series_b" | "series_c" | "funded" | null
}

Be liberal with keywords to maximize search results.`

// minKeywordLength filters stopwords out of the fallback keyword split.
const minKeywordLength = 3

// QueryInterpreter turns a free-form prospecting prompt into structured
// search criteria.
type QueryInterpreter interface {
	// Interpret never fails: when the model is unavailable or returns
	// garbage it falls back to plain keyword extraction from the prompt.
	Interpret(ctx context.Context, prompt string) *models.SearchCriteria
}

type queryInterpreter struct {
	client llm.CompletionClient
	logger *zap.Logger
}

var _ QueryInterpreter = (*queryInterpreter)(nil)

// NewQueryInterpreter creates a query interpreter backed by the generation
// model. Pass a nil client to get pure keyword extraction.
func NewQueryInterpreter(client llm.CompletionClient, logger *zap.Logger) QueryInterpreter {
	return &queryInterpreter{
		client: client,
		logger: logger.Named("query-interpreter"),
	}
}

func (q *queryInterpreter) Interpret(ctx context.Context, prompt string) *models.SearchCriteria {
	if q.client == nil {
		return fallbackCriteria(prompt)
	}

	response, err := q.client.Complete(ctx, criteriaSystemPrompt, prompt, 0.1)
	if err != nil {
		q.logger.Warn("Criteria extraction failed, using keyword fallback", zap.Error(err))
		return fallbackCriteria(prompt)
	}

	criteria, err := llm.ParseJSONResponse[models.SearchCriteria](response)
	if err != nil {
		q.logger.Warn("No valid JSON in criteria response, using keyword fallback", zap.Error(err))
		return fallbackCriteria(prompt)
	}

	criteria.Sizes = filterSizes(criteria.Sizes)

	q.logger.Debug("Extracted search criteria",
		zap.Strings("industries", criteria.Industries),
		zap.Strings("locations", criteria.Locations),
		zap.Strings("keywords", criteria.Keywords))
	return &criteria
}

// fallbackCriteria extracts keywords directly from the prompt: lowercase
// whitespace tokens longer than minKeywordLength characters.
func fallbackCriteria(prompt string) *models.SearchCriteria {
	var keywords []string
	for _, word := range strings.Fields(strings.ToLower(prompt)) {
		if len(word) > minKeywordLength {
			keywords = append(keywords, word)
		}
	}
	return &models.SearchCriteria{
		Industries: []string{},
		Locations:  []string{},
		Sizes:      []string{},
		Keywords:   keywords,
	}
}

// filterSizes drops size buckets the directory provider does not recognize.
func filterSizes(sizes []string) []string {
	valid := make([]string, 0, len(sizes))
	for _, size := range sizes {
		for _, bucket := range models.EmployeeSizeBuckets {
			if size == bucket {
				valid = append(valid, size)
				break
			}
		}
	}
	return valid
}
