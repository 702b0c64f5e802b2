package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesInlinerTunables(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	content := `
[inliner]
no-inline-complexity = 5
composite-construct-cap = 4

[output]
format = "json"
color = false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadDefault(dir)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Inliner.NoInlineComplexity)
	assert.Equal(t, 4, cfg.Inliner.CompositeConstructCap)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.False(t, cfg.Output.Color)
	assert.True(t, cfg.Output.ShowBanner, "unset show-banner must keep the default")
}

func TestLoadRejectsNegativeComplexity(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	content := "[inliner]\nno-inline-complexity = -1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadDefault(dir)
	assert.Error(t, err)
}
