package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON_Object(t *testing.T) {
	response := `Here is the result:
{"companyInterest": "We love Acme.", "personInterest": "Great work on {widgets}."}
Hope that helps!`

	jsonStr, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.JSONEq(t, `{"companyInterest": "We love Acme.", "personInterest": "Great work on {widgets}."}`, jsonStr)
}

func TestExtractJSON_Array(t *testing.T) {
	response := `[{"name": "Stripe", "domain": "stripe.com"}, {"name": "Plaid"}]`

	jsonStr, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.JSONEq(t, response, jsonStr)
}

func TestExtractJSON_CodeFence(t *testing.T) {
	response := "```json\n{\"industries\": [\"fintech\"]}\n```"

	jsonStr, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.JSONEq(t, `{"industries": ["fintech"]}`, jsonStr)
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	response := `{"text": "a \"quoted\" value with } inside"}`

	jsonStr, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.Equal(t, response, jsonStr)
}

func TestExtractJSON_NoJSON(t *testing.T) {
	_, err := ExtractJSON("I could not find any companies matching that query.")
	assert.Error(t, err)
}

func TestParseJSONResponse(t *testing.T) {
	type criteria struct {
		Keywords []string `json:"keywords"`
	}

	result, err := ParseJSONResponse[criteria](`prefix {"keywords": ["saas", "ai"]} suffix`)
	require.NoError(t, err)
	assert.Equal(t, []string{"saas", "ai"}, result.Keywords)
}

func TestExtractLabeledFields(t *testing.T) {
	// Truncated near-JSON that fails strict parsing
	response := `{"companyInterest": "We admire Acme's developer tools.", "personInterest": "Your talk was great...`

	fields := ExtractLabeledFields(response, []string{"companyInterest", "personInterest", "combinedInterest"})
	assert.Equal(t, "We admire Acme's developer tools.", fields["companyInterest"])
	_, ok := fields["personInterest"] // value never closed its quote
	assert.False(t, ok)
	_, ok = fields["combinedInterest"]
	assert.False(t, ok)
}

func TestExtractLabeledFields_EscapedQuotes(t *testing.T) {
	response := `"companyInterest": "We love \"Acme\" products."`

	fields := ExtractLabeledFields(response, []string{"companyInterest"})
	assert.Equal(t, `We love "Acme" products.`, fields["companyInterest"])
}
