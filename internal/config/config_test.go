package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happyhackingspace/cooc/internal/window"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cooc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadPrecedence(t *testing.T) {
	path := writeYAML(t, "window: 3\nformat: coo\ngroup_by: domain\n")
	t.Setenv("COOC_WINDOW", "7")
	t.Setenv("COOC_LOWERCASE", "true")

	cfg, err := Load(path, map[string]any{"group_by": "field"})
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Window)
	assert.Equal(t, "coo", cfg.Format)
	assert.Equal(t, "field", cfg.GroupBy)
	assert.True(t, cfg.Lowercase)
	assert.Equal(t, "features", cfg.Output)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
	}{
		{"zero window", map[string]any{"window": 0}},
		{"unknown format", map[string]any{"format": "parquet"}},
		{"unknown grouping", map[string]any{"group_by": "sentence"}},
		{"empty output", map[string]any{"output": ""}},
		{"negative samples", map[string]any{"verify_samples": -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load("", tt.overrides)
			assert.Error(t, err)
		})
	}
}

func TestLoadWindowErrorsMatchInvalidWindow(t *testing.T) {
	_, err := Load("", map[string]any{"window": "-2"})
	assert.ErrorIs(t, err, window.ErrInvalidWindow)

	_, err = Load("", map[string]any{"format": "parquet"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, window.ErrInvalidWindow)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolveInputKind(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "corpus.tsv")
	require.NoError(t, os.WriteFile(file, []byte("g\ta\n"), 0644))

	cfg := Default()
	_, err := cfg.ResolveInputKind()
	assert.Error(t, err)

	cfg.Input = dir
	kind, err := cfg.ResolveInputKind()
	require.NoError(t, err)
	assert.Equal(t, "folder", kind)

	cfg.Input = file
	kind, err = cfg.ResolveInputKind()
	require.NoError(t, err)
	assert.Equal(t, "tsv", kind)

	cfg.InputKind = "folder"
	kind, err = cfg.ResolveInputKind()
	require.NoError(t, err)
	assert.Equal(t, "folder", kind)
}
