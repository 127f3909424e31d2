package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesLoadableDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultPath)

	require.NoError(t, Init(path, false))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# sitewatch configuration.")
	assert.Contains(t, string(data), "aggregate_timeout: 300ms")

	cfg, err := Load(path)
	require.NoError(t, err)
	want, err := FromDefaults(dir)
	require.NoError(t, err)
	assert.Equal(t, want, cfg)
}

func TestInitRefusesOverwriteWithoutForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte("mirror:\n  mode: native\n"), 0o644))

	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "auto", cfg.Mirror.Mode)
}
