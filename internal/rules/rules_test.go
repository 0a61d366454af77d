package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRulesValidate(t *testing.T) {
	r := DefaultRules()
	assert.NoError(t, r.Validate())

	assert.Contains(t, r.WEG.BoundaryMarkers, "umlagefähige kosten:")
	assert.Contains(t, r.WEG.BoundaryMarkers, "umlagefaehige kosten:")
	assert.Equal(t, "der betrag wurde wie folgt aufgeteilt:", r.WEG.SplitMarker)
	assert.Contains(t, r.Bank.Keywords, "miete")
	assert.NotEmpty(t, r.Rental.BaseRent)
	assert.Contains(t, r.AI.ExcludedKeywords, "instandhaltung")
}

func TestLoadOverridesSection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")

	content := `bank:
  keywords:
    - wohngeld
    - schmidt
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	r, err := Load(path)
	require.NoError(t, err)

	// overridden section replaced
	assert.Equal(t, []string{"wohngeld", "schmidt"}, r.Bank.Keywords)
	// untouched sections keep defaults
	assert.Contains(t, r.WEG.BoundaryMarkers, "umlagefähige kosten:")
	assert.NotEmpty(t, r.Rental.TenantName)
}

func TestLoadRejectsBadPattern(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")

	content := `rental:
  base_rent:
    - "Kaltmiete[:\\s+(bad"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/rules.yaml")
	assert.Error(t, err)
}
