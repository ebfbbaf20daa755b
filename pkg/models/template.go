package models

// Generator identifies a system capability a template placeholder can be
// mapped to: either a fixed data field or an LLM-generated paragraph class.
type Generator string

const (
	GeneratorFirstName          Generator = "firstName"
	GeneratorLastName           Generator = "lastName"
	GeneratorFullName           Generator = "fullName"
	GeneratorCompanyName        Generator = "companyName"
	GeneratorCompanyDomain      Generator = "companyDomain"
	GeneratorCompanyIndustry    Generator = "companyIndustry"
	GeneratorCompanyDescription Generator = "companyDescription"
	GeneratorCompanyInterest    Generator = "companyInterest"
	GeneratorPersonInterest     Generator = "personInterest"
	GeneratorCombinedInterest   Generator = "combinedInterest"
)

// GeneratorDefinition describes one catalogue entry for auto-mapping prompts
// and settings UIs.
type GeneratorDefinition struct {
	Value       Generator `json:"value"`
	Label       string    `json:"label"`
	Description string    `json:"description"`
}

// GeneratorCatalogue is the fixed set of generators placeholders can map to.
// The auto-mapper sends this catalogue verbatim to the language model.
var GeneratorCatalogue = []GeneratorDefinition{
	{GeneratorFirstName, "First Name", "The first name of the person (e.g. John)"},
	{GeneratorLastName, "Last Name", "The last name of the person (e.g. Doe)"},
	{GeneratorFullName, "Full Name", "The full name of the person (e.g. John Doe)"},
	{GeneratorCompanyName, "Company Name", "The name of the company (e.g. Acme Corp)"},
	{GeneratorCompanyDomain, "Company Domain", "The website domain of the company (e.g. acme.com)"},
	{GeneratorCompanyIndustry, "Company Industry", "The industry of the company (e.g. Software)"},
	{GeneratorCompanyDescription, "Company Description", "A brief description of what the company does."},
	{GeneratorCompanyInterest, "Company Interest", "A personalized 1-2 sentence paragraph about why we are interested in the company, based on research."},
	{GeneratorPersonInterest, "Person Interest", "A personalized 1-2 sentence paragraph about why we are interested in the person, based on their background/work."},
	{GeneratorCombinedInterest, "Combined Interest", "A personalized 1-2 sentence paragraph connecting the person to the company."},
}

// IsValidGenerator reports whether a value names a catalogue generator.
func IsValidGenerator(value string) bool {
	for _, def := range GeneratorCatalogue {
		if string(def.Value) == value {
			return true
		}
	}
	return false
}

// Mapping associates a placeholder's full bracketed text (e.g. "{{First
// Name}}") with a generator value. Placeholders absent from the map are
// unmapped and render as explicit markers.
type Mapping map[string]string
