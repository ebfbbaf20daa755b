package services

import (
	"context"
	"strings"

	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"github.com/vss-labs/sourcer-engine/pkg/llm"
	"github.com/vss-labs/sourcer-engine/pkg/models"
)

const variantSystemPrompt = `You help find variations of company names. Given a company name, return 3-5 possible variations that might help find the company in a database. Include the original name, common abbreviations, full legal name, and domain-style variations.

Return ONLY a JSON array of strings, like:
["Stripe", "Stripe Inc", "stripe.com", "Stripe, Inc."]`

// legalSuffixes are trimmed from and appended to names when generating
// deterministic variants.
var legalSuffixes = []string{"inc", "inc.", "llc", "ltd", "ltd.", "corp", "corp.", "co", "co."}

// NameVariantGenerator produces candidate spellings of a company name for
// directory lookup. The original name is always the first candidate.
type NameVariantGenerator interface {
	// Variants never fails: without a configured model the original name is
	// the only candidate. Results are deduplicated preserving insertion
	// order and capped at maxVariants.
	Variants(ctx context.Context, companyName string, maxVariants int) []string
}

type nameVariantGenerator struct {
	client llm.CompletionClient
	logger *zap.Logger
}

var _ NameVariantGenerator = (*nameVariantGenerator)(nil)

// NewNameVariantGenerator creates a variant generator. With a nil client the
// generator returns the original name unchanged.
func NewNameVariantGenerator(client llm.CompletionClient, logger *zap.Logger) NameVariantGenerator {
	return &nameVariantGenerator{
		client: client,
		logger: logger.Named("name-variants"),
	}
}

func (g *nameVariantGenerator) Variants(ctx context.Context, companyName string, maxVariants int) []string {
	if maxVariants <= 0 {
		maxVariants = 8
	}
	if g.client == nil {
		return []string{strings.TrimSpace(companyName)}
	}

	candidates := []string{companyName}
	candidates = append(candidates, deterministicVariants(companyName)...)
	candidates = append(candidates, g.modelVariants(ctx, companyName)...)

	seen := make(map[string]struct{}, len(candidates))
	variants := make([]string, 0, maxVariants)
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		key := strings.ToLower(candidate)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		variants = append(variants, candidate)
		if len(variants) >= maxVariants {
			break
		}
	}
	return variants
}

func (g *nameVariantGenerator) modelVariants(ctx context.Context, companyName string) []string {
	response, err := g.client.Complete(ctx, variantSystemPrompt, companyName, 0.3)
	if err != nil {
		g.logger.Warn("Model variant generation failed", zap.Error(err))
		return nil
	}

	variants, err := llm.ParseJSONResponse[[]string](response)
	if err != nil {
		g.logger.Warn("No JSON array in variant response", zap.Error(err))
		return nil
	}
	return variants
}

// deterministicVariants derives lookup candidates without a model: the name
// with legal suffixes stripped, suffixed forms, a domain-style form, and
// singular/plural inflections of the final word.
func deterministicVariants(companyName string) []string {
	var variants []string

	base := stripLegalSuffix(companyName)
	if base != companyName {
		variants = append(variants, base)
	}

	variants = append(variants, base+" Inc", base+", Inc.")

	if domain := models.NormalizeName(base); domain != "" {
		variants = append(variants, domain+".com")
	}

	words := strings.Fields(base)
	if len(words) > 0 {
		last := words[len(words)-1]
		for _, inflected := range []string{inflection.Singular(last), inflection.Plural(last)} {
			if inflected != "" && !strings.EqualFold(inflected, last) {
				variants = append(variants, strings.Join(append(words[:len(words)-1:len(words)-1], inflected), " "))
			}
		}
	}

	return variants
}

// stripLegalSuffix removes a trailing legal form ("Inc", "LLC", ...) and any
// preceding comma.
func stripLegalSuffix(name string) string {
	trimmed := strings.TrimSpace(name)
	words := strings.Fields(trimmed)
	if len(words) < 2 {
		return trimmed
	}

	last := strings.ToLower(words[len(words)-1])
	for _, suffix := range legalSuffixes {
		if last == suffix {
			return strings.TrimRight(strings.TrimSpace(strings.Join(words[:len(words)-1], " ")), ",")
		}
	}
	return trimmed
}
