package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitewatch/internal/config"
)

func TestInitWritesLoadableConfig(t *testing.T) {
	dir := t.TempDir()
	g, out := newTestGlobal()

	cmd := &InitCmd{Output: dir}
	require.NoError(t, cmd.Run(g, &CLI{Config: config.DefaultPath}))

	path := filepath.Join(dir, config.DefaultPath)
	assert.FileExists(t, path)
	assert.Contains(t, out.String(), "Writing configuration to "+path)
	assert.Contains(t, out.String(), "initialized successfully")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.ProjectDir)
}

func TestInitRefusesToOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitewatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("# mine\n"), 0o644))
	g, out := newTestGlobal()

	err := RunInit(g, path, false)
	require.Error(t, err)
	assert.Contains(t, out.String(), "Initialization failed")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# mine\n", string(data))

	require.NoError(t, RunInit(g, path, true))
}
