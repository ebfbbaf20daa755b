package services

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// OutreachProfile describes the sender's offering. Interest-generation
// prompts quote it, and the deterministic fallback sentences are assembled
// from it when a model response cannot be parsed.
type OutreachProfile struct {
	SenderName        string   `yaml:"sender_name"`
	Company           string   `yaml:"company"`
	Product           string   `yaml:"product"`
	ValuePropositions []string `yaml:"value_propositions"`
	Tone              string   `yaml:"tone"`
}

// LoadOutreachProfile reads the sender profile from a YAML file.
func LoadOutreachProfile(path string) (*OutreachProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read outreach profile: %w", err)
	}

	var profile OutreachProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse outreach profile: %w", err)
	}

	if profile.Company == "" {
		return nil, fmt.Errorf("outreach profile must name a company")
	}
	return &profile, nil
}

// Context renders the profile as prompt context for generation calls.
func (p *OutreachProfile) Context() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s offers %s.", p.Company, p.Product)
	if len(p.ValuePropositions) > 0 {
		b.WriteString(" It " + strings.Join(p.ValuePropositions, "; ") + ".")
	}
	if p.Tone != "" {
		fmt.Fprintf(&b, " Writing tone: %s.", p.Tone)
	}
	return b.String()
}
