package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"stubs"}, cfg.Stubs.Roots)
	assert.Equal(t, []string{".rb"}, cfg.Stubs.Extensions)
	assert.Equal(t, filepath.Join(".stubdex", "index.db"), cfg.Index.Path)
	assert.Equal(t, 500, cfg.Watch.DebounceMS)
	assert.False(t, cfg.Logging.DebugMode)
}

func TestLoadMissingFileFallsBackToDefault(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveAndLoad(t *testing.T) {
	ws := t.TempDir()

	cfg := Default()
	cfg.Stubs.Roots = []string{"core", "stdlib"}
	cfg.Lint.Disabled = []string{"const-naming"}
	cfg.Lint.Severity = map[string]string{"missing-doc": "error"}
	cfg.Watch.DebounceMS = 250
	require.NoError(t, cfg.Save(ws))

	loaded, err := Load(ws)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	ws := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(ws, ".stubdex"), 0755))
	require.NoError(t, os.WriteFile(Path(ws), []byte("stubs: [not: a: mapping"), 0644))

	_, err := Load(ws)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty roots", func(c *Config) { c.Stubs.Roots = nil }},
		{"empty extensions", func(c *Config) { c.Stubs.Extensions = nil }},
		{"empty index path", func(c *Config) { c.Index.Path = "" }},
		{"negative debounce", func(c *Config) { c.Watch.DebounceMS = -1 }},
		{"bad severity", func(c *Config) { c.Lint.Severity = map[string]string{"missing-doc": "fatal"} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLintOptions(t *testing.T) {
	cfg := Default()
	cfg.Lint.Disabled = []string{"empty-doc", "const-naming"}
	cfg.Lint.Severity = map[string]string{"missing-doc": "error"}

	disabled, severity := cfg.LintOptions()
	assert.True(t, disabled["empty-doc"])
	assert.True(t, disabled["const-naming"])
	assert.False(t, disabled["missing-doc"])
	assert.Equal(t, "error", severity["missing-doc"])
}
