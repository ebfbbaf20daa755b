package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/vss-labs/sourcer-engine/pkg/llm"
	"github.com/vss-labs/sourcer-engine/pkg/models"
)

func newTemplateService(client llm.CompletionClient) TemplateService {
	interest := NewInterestService(client, &mockResearch{}, testProfile(), zap.NewNop())
	return NewTemplateService(client, interest, zap.NewNop())
}

func TestParsePlaceholders(t *testing.T) {
	svc := newTemplateService(nil)

	tests := []struct {
		name     string
		template string
		want     []string
	}{
		{
			name:     "distinct placeholders in order",
			template: "Hi {{First Name}},\n\n{{Company Interest}}\n\nBest,\n{{First Name}}",
			want:     []string{"{{First Name}}", "{{Company Interest}}"},
		},
		{
			name:     "no placeholders",
			template: "Hello there.",
			want:     []string{},
		},
		{
			name:     "adjacent placeholders parsed separately",
			template: "{{A}}{{B}}",
			want:     []string{"{{A}}", "{{B}}"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.ParsePlaceholders(tt.template))
		})
	}
}

func TestAutoMap_KeepsOnlyValidGenerators(t *testing.T) {
	client := llm.NewStaticMockClient(`{
		"POC First Name": "firstName",
		"Company": "companyName",
		"Meeting Time": null,
		"Weird": "notAGenerator"
	}`)

	svc := newTemplateService(client)
	mappings := svc.AutoMap(context.Background(), []string{"POC First Name", "Company", "Meeting Time", "Weird"})

	assert.Equal(t, models.Mapping{
		"POC First Name": "firstName",
		"Company":        "companyName",
	}, mappings)
}

func TestAutoMap_EmptyInputSkipsModel(t *testing.T) {
	client := llm.NewMockCompletionClient()
	svc := newTemplateService(client)

	mappings := svc.AutoMap(context.Background(), nil)
	assert.Empty(t, mappings)
	assert.Zero(t, client.CompleteCalls)
}

func TestAutoMap_ProviderFailureDegrades(t *testing.T) {
	client := &llm.MockCompletionClient{
		CompleteFunc: func(ctx context.Context, system, prompt string, temperature float64) (string, error) {
			return "", errors.New("down")
		},
	}

	svc := newTemplateService(client)
	assert.Empty(t, svc.AutoMap(context.Background(), []string{"First Name"}))
}

func TestResolve_SubstitutesMappedValues(t *testing.T) {
	svc := newTemplateService(nil)
	p := &models.Person{
		FirstName:   "Jane",
		LastName:    "Roe",
		CompanyName: "Acme",
	}

	resolved := svc.Resolve(context.Background(),
		"Hi {{First Name}}, greetings from us to {{Company}}. Bye {{First Name}}.",
		models.Mapping{"{{First Name}}": "firstName", "{{Company}}": "companyName"},
		&ResolveContext{Person: p})

	assert.Equal(t, "Hi Jane, greetings from us to Acme. Bye Jane.", resolved)
}

func TestResolve_UnmappedPlaceholderBecomesBracketed(t *testing.T) {
	svc := newTemplateService(nil)
	resolved := svc.Resolve(context.Background(),
		"See you at {{Meeting Time}}.",
		models.Mapping{},
		&ResolveContext{Person: &models.Person{}})

	assert.Equal(t, "See you at [Meeting Time].", resolved)
}

func TestResolve_MemoizesInterestOntoPerson(t *testing.T) {
	calls := 0
	client := &llm.MockCompletionClient{
		CompleteFunc: func(ctx context.Context, system, prompt string, temperature float64) (string, error) {
			calls++
			return "Generated interest paragraph.", nil
		},
	}

	svc := newTemplateService(client)
	p := &models.Person{FirstName: "Jane", CompanyName: "Acme"}
	rc := &ResolveContext{Person: p, Company: &models.CompanyInfo{Name: "Acme", Industry: "robotics"}}
	mappings := models.Mapping{"{{Company Interest}}": "companyInterest"}

	first := svc.Resolve(context.Background(), "{{Company Interest}}", mappings, rc)
	second := svc.Resolve(context.Background(), "{{Company Interest}}", mappings, rc)

	assert.Contains(t, first, "Generated interest paragraph.")
	assert.Equal(t, first, second)
	assert.Equal(t, "Generated interest paragraph.", p.CompanyInterestParagraph)
	assert.Equal(t, 1, calls, "generation runs once, later resolves reuse the person record")
}

func TestResolve_StripsStrayBraces(t *testing.T) {
	svc := newTemplateService(nil)
	resolved := svc.Resolve(context.Background(),
		"Broken {{ placeholder",
		models.Mapping{},
		&ResolveContext{Person: &models.Person{}})

	assert.Equal(t, "Broken  placeholder", resolved)
}

func TestRenderTest_UsesSampleData(t *testing.T) {
	svc := newTemplateService(nil)
	rendered := svc.RenderTest(
		"Hi {{First Name}} at {{Company}}, {{Unmapped}}",
		models.Mapping{"{{First Name}}": "firstName", "{{Company}}": "companyName"})

	assert.Equal(t, "Hi John at Acme Corp, [Unmapped]", rendered)
}

func TestPruneMappings(t *testing.T) {
	svc := newTemplateService(nil)
	pruned := svc.PruneMappings(
		"Hi {{First Name}}",
		models.Mapping{
			"{{First Name}}": "firstName",
			"{{Removed}}":    "companyName",
		})

	assert.Equal(t, models.Mapping{"{{First Name}}": "firstName"}, pruned)
}
