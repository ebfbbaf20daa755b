package models

// EmployeeSizeBuckets is the fixed enumeration of employee-count ranges the
// directory provider accepts. Criteria sizes outside this set are dropped.
var EmployeeSizeBuckets = []string{
	"1-10", "11-50", "51-200", "201-500", "501-1000",
	"1001-5000", "5001-10000", "10000+",
}

// SearchCriteria is the structured form of a free-text company query.
// Produced once per query by the interpreter and immutable thereafter.
type SearchCriteria struct {
	Industries    []string `json:"industries"`
	Locations     []string `json:"locations"`
	Sizes         []string `json:"sizes"`
	Keywords      []string `json:"keywords"`
	FundingStatus string   `json:"fundingStatus,omitempty"`
}

// IsEmpty reports whether no criteria field would contribute to a provider
// query.
func (c *SearchCriteria) IsEmpty() bool {
	return len(c.Industries) == 0 && len(c.Locations) == 0 &&
		len(c.Sizes) == 0 && len(c.Keywords) == 0 && c.FundingStatus == ""
}
