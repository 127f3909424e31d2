package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitewatch/internal/config"
	ferrors "git.home.luguber.info/inful/sitewatch/internal/foundation/errors"
)

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := loadConfig(config.DefaultPath)
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, cfg.ProjectDir)
	assert.Equal(t, filepath.Join(wd, "build"), cfg.Paths.BuildDir)
}

func TestLoadConfigExplicitPathMustExist(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "custom.yaml"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestLoadConfigReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("paths:\n  build_dir: out\n"), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out"), cfg.Paths.BuildDir)
}

func TestWatchCmdApplyOverrides(t *testing.T) {
	cfg := config.Default()
	cmd := WatchCmd{NoBrowser: true, MetricsAddr: "127.0.0.1:9100"}
	cmd.apply(&cfg)
	assert.False(t, cfg.Browser.Enabled)
	assert.Equal(t, "127.0.0.1:9100", cfg.Metrics.Listen)

	cfg = config.Default()
	cfg.Metrics.Listen = ":9000"
	(&WatchCmd{}).apply(&cfg)
	assert.True(t, cfg.Browser.Enabled)
	assert.Equal(t, ":9000", cfg.Metrics.Listen)
}
