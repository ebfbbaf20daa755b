package models

import "strings"

// LockedEmailSentinel is the substring the directory provider places in email
// fields that have not been paid for. An email containing it is equivalent to
// no email at all and must never be surfaced.
const LockedEmailSentinel = "email_not_unlocked"

// Seniority ranks recognized by the directory provider, ordered most senior
// first. Used both as a people-search filter and as the default filter set.
var DefaultSeniorities = []string{"founder", "c_suite", "vp", "director", "manager", "senior"}

// Person is the canonical person record. Created by a people search; the
// enrichment fields (ResearchSummary and the interest paragraphs) are filled
// in exactly once per unlock and accumulate, never reset.
type Person struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Title       string `json:"title,omitempty"`
	Seniority   string `json:"seniority,omitempty"`
	SocialURL   string `json:"socialUrl,omitempty"`
	CompanyName string `json:"companyName"`
	Source      Source `json:"source"`

	IsUnlocked bool `json:"isUnlocked"`

	ResearchSummary           string `json:"researchSummary,omitempty"`
	CompanyInterestParagraph  string `json:"companyInterestParagraph,omitempty"`
	PersonInterestParagraph   string `json:"personInterestParagraph,omitempty"`
	CombinedInterestParagraph string `json:"combinedInterestParagraph,omitempty"`
}

// FullName returns the display name, falling back to first+last when the
// provider omitted the composed form.
func (p *Person) FullName() string {
	if p.Name != "" {
		return p.Name
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// CleanEmail filters the provider's locked-email sentinel: any email
// containing it resolves to empty string.
func CleanEmail(email string) string {
	if email == "" || strings.Contains(email, LockedEmailSentinel) {
		return ""
	}
	return email
}
