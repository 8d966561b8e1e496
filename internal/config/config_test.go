package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/adlens-cli/internal/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "en", c.Language)
	assert.Equal(t, "xlsx", c.DefaultFormat)
	assert.Equal(t, ":8080", c.ServerAddr)
	assert.Equal(t, analysis.DefaultThresholds(), c.Thresholds)
	assert.Equal(t, filepath.Join(home, ".adlens", "workspaces"), c.WorkspacesDir)
}

func TestLoadFileAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	body := `language: ru
delimiter: ";"
organic_keywords: [partner]
aliases:
  ads:
    spent: ["Budget used"]
thresholds:
  high_roi: 200
`
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	t.Setenv("ADLENS_SERVER_ADDR", ":9999")

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "ru", c.Language)
	assert.Equal(t, ":9999", c.ServerAddr)
	assert.Equal(t, 200.0, c.Thresholds.HighROI)
	assert.Equal(t, 50.0, c.Thresholds.LowROI, "unset thresholds keep defaults")
	assert.Equal(t, []string{"Budget used"}, c.Aliases.Ads["spent"])

	po, err := c.ParserOptions()
	require.NoError(t, err)
	assert.Equal(t, ';', po.Delimiter)

	ao, err := c.AnalysisOptions()
	require.NoError(t, err)
	assert.Equal(t, "ru", ao.Language)
	_, kw := ao.Classifier.Explain("Partner")
	assert.Equal(t, "partner", kw)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	c, err := Load(p)
	require.NoError(t, err)
	c.Language = "ru"
	c.Thresholds.MinLeads = 5
	require.NoError(t, Save(c, p))

	again, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "ru", again.Language)
	assert.Equal(t, 5.0, again.Thresholds.MinLeads)
}

func TestParseRune(t *testing.T) {
	for in, want := range map[string]rune{"": 0, "tab": '\t', `\t`: '\t', ",": ',', "space": ' '} {
		got, err := ParseRune(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseRune(";;")
	assert.Error(t, err)
}
