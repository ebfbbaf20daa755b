package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOutreachProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "outreach.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sender_name: "Alex"
company: "Sourcer Labs"
product: "a prospecting copilot"
value_propositions:
  - "saves hours per list"
tone: "warm"
`), 0o600))

	profile, err := LoadOutreachProfile(path)
	require.NoError(t, err)

	assert.Equal(t, "Sourcer Labs", profile.Company)
	assert.Equal(t, []string{"saves hours per list"}, profile.ValuePropositions)

	context := profile.Context()
	assert.Contains(t, context, "Sourcer Labs offers a prospecting copilot.")
	assert.Contains(t, context, "saves hours per list")
	assert.Contains(t, context, "warm")
}

func TestLoadOutreachProfile_MissingCompany(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "outreach.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`sender_name: "Alex"`), 0o600))

	_, err := LoadOutreachProfile(path)
	assert.Error(t, err)
}

func TestLoadOutreachProfile_MissingFile(t *testing.T) {
	_, err := LoadOutreachProfile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
