package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vss-labs/sourcer-engine/pkg/llm"
)

func TestVariants_NoProviderReturnsOriginalOnly(t *testing.T) {
	gen := NewNameVariantGenerator(nil, zap.NewNop())
	variants := gen.Variants(context.Background(), "Acme", 8)

	assert.Equal(t, []string{"Acme"}, variants)
}

func TestVariants_OriginalNameComesFirst(t *testing.T) {
	gen := NewNameVariantGenerator(llm.NewStaticMockClient(`[]`), zap.NewNop())
	variants := gen.Variants(context.Background(), "Stripe", 8)

	require.NotEmpty(t, variants)
	assert.Equal(t, "Stripe", variants[0])
	assert.Contains(t, variants, "stripe.com")
	assert.Contains(t, variants, "Stripe Inc")
}

func TestVariants_StripsLegalSuffix(t *testing.T) {
	gen := NewNameVariantGenerator(llm.NewStaticMockClient(`[]`), zap.NewNop())
	variants := gen.Variants(context.Background(), "Acme Corp", 8)

	assert.Equal(t, "Acme Corp", variants[0])
	assert.Contains(t, variants, "Acme")
	assert.Contains(t, variants, "acme.com")
}

func TestVariants_MergesModelSuggestions(t *testing.T) {
	mock := llm.NewStaticMockClient(`["Stripe", "Stripe, Inc.", "Stripe Payments"]`)

	gen := NewNameVariantGenerator(mock, zap.NewNop())
	variants := gen.Variants(context.Background(), "Stripe", 10)

	assert.Contains(t, variants, "Stripe Payments")
}

func TestVariants_DedupesCaseInsensitively(t *testing.T) {
	mock := llm.NewStaticMockClient(`["STRIPE", "stripe", "Stripe Inc"]`)

	gen := NewNameVariantGenerator(mock, zap.NewNop())
	variants := gen.Variants(context.Background(), "Stripe", 20)

	lower := make(map[string]int)
	for _, v := range variants {
		lower[strings.ToLower(v)]++
	}
	assert.Equal(t, 1, lower["stripe"])
}

func TestVariants_CapsCount(t *testing.T) {
	mock := llm.NewStaticMockClient(`["A1", "A2", "A3", "A4", "A5", "A6", "A7", "A8", "A9"]`)

	gen := NewNameVariantGenerator(mock, zap.NewNop())
	variants := gen.Variants(context.Background(), "Acme Widgets Inc", 4)

	assert.Len(t, variants, 4)
	assert.Equal(t, "Acme Widgets Inc", variants[0])
}

func TestVariants_ModelFailureStillDeterministic(t *testing.T) {
	mock := &llm.MockCompletionClient{
		CompleteFunc: func(ctx context.Context, system, prompt string, temperature float64) (string, error) {
			return "", errors.New("down")
		},
	}

	gen := NewNameVariantGenerator(mock, zap.NewNop())
	variants := gen.Variants(context.Background(), "Acme Inc", 8)

	assert.Equal(t, "Acme Inc", variants[0])
	assert.Contains(t, variants, "Acme")
}
