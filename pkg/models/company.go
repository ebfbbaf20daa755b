package models

import "strings"

// Source identifies which provider class produced an entity record.
type Source string

const (
	// SourceDirectory marks records from the structured company/people directory.
	SourceDirectory Source = "directory"
	// SourceResearch marks records extracted from web-research output.
	SourceResearch Source = "research"
)

// Company is the canonical organization record produced by the search
// adapters. Records are ephemeral: constructed per search response, never
// persisted, scoped to a single query.
type Company struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Domain        string `json:"domain,omitempty"`
	Website       string `json:"website,omitempty"`
	Industry      string `json:"industry,omitempty"`
	Location      string `json:"location,omitempty"`
	EmployeeCount int    `json:"employeeCount,omitempty"`
	FundingStatus string `json:"fundingStatus,omitempty"`
	FoundedYear   int    `json:"foundedYear,omitempty"`
	Description   string `json:"description,omitempty"`
	SocialURL     string `json:"socialUrl,omitempty"`
	Source        Source `json:"source"`
}

// CompanyInfo is the slim company record used for people lookup and
// template resolution. Domain may be synthesized from the name when the
// directory could not resolve one; DomainSynthesized flags that case so
// downstream consumers do not treat the guess as ground truth.
type CompanyInfo struct {
	Name              string `json:"name"`
	Domain            string `json:"domain,omitempty"`
	Industry          string `json:"industry,omitempty"`
	Description       string `json:"description,omitempty"`
	DomainSynthesized bool   `json:"domainSynthesized,omitempty"`
}

// NormalizeDomain lowercases a domain and strips a leading "www." prefix.
func NormalizeDomain(domain string) string {
	d := strings.ToLower(strings.TrimSpace(domain))
	return strings.TrimPrefix(d, "www.")
}

// NormalizeName reduces a company name to lowercase alphanumerics so that
// punctuation and spacing variants ("Acme, Inc." vs "ACME INC") compare equal.
func NormalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IdentityKey returns the string used to decide whether two Company records
// denote the same real-world entity: normalized domain when present,
// otherwise normalized name.
func (c *Company) IdentityKey() string {
	if d := NormalizeDomain(c.Domain); d != "" {
		return d
	}
	return NormalizeName(c.Name)
}
