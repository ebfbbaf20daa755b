package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vss-labs/sourcer-engine/pkg/llm"
)

func TestInterpret_ParsesCriteriaJSON(t *testing.T) {
	mock := llm.NewStaticMockClient(`{
		"industries": ["fintech"],
		"locations": ["san francisco, ca"],
		"sizes": ["11-50", "not-a-bucket"],
		"keywords": ["payments", "api"],
		"fundingStatus": "series_a"
	}`)

	interp := NewQueryInterpreter(mock, zap.NewNop())
	criteria := interp.Interpret(context.Background(), "seed fintech startups in SF")

	require.NotNil(t, criteria)
	assert.Equal(t, []string{"fintech"}, criteria.Industries)
	assert.Equal(t, []string{"san francisco, ca"}, criteria.Locations)
	assert.Equal(t, []string{"11-50"}, criteria.Sizes, "unknown size buckets dropped")
	assert.Equal(t, "series_a", criteria.FundingStatus)
}

func TestInterpret_FallbackOnProviderError(t *testing.T) {
	mock := &llm.MockCompletionClient{
		CompleteFunc: func(ctx context.Context, system, prompt string, temperature float64) (string, error) {
			return "", errors.New("unavailable")
		},
	}

	interp := NewQueryInterpreter(mock, zap.NewNop())
	criteria := interp.Interpret(context.Background(), "Find AI startups in Berlin")

	assert.Empty(t, criteria.Industries)
	assert.Equal(t, []string{"find", "startups", "berlin"}, criteria.Keywords,
		"lowercase tokens longer than three characters")
}

func TestInterpret_FallbackOnGarbageResponse(t *testing.T) {
	mock := llm.NewStaticMockClient("Sure! Here are my thoughts on your search, with no JSON at all.")

	interp := NewQueryInterpreter(mock, zap.NewNop())
	criteria := interp.Interpret(context.Background(), "developer tools companies")

	assert.Equal(t, []string{"developer", "tools", "companies"}, criteria.Keywords)
}

func TestInterpret_NilClientUsesKeywords(t *testing.T) {
	interp := NewQueryInterpreter(nil, zap.NewNop())
	criteria := interp.Interpret(context.Background(), "big data")

	assert.Equal(t, []string{"data"}, criteria.Keywords)
}
