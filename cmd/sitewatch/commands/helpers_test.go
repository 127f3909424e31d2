package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitewatch/internal/config"
)

// publishScript emulates a bundler run that emits a clean build.
const publishScript = `mkdir -p build && ` +
	`printf '{"assets":[{"name":"favicon.abc123.ico"}]}' > build/webpack-assets.json && ` +
	`printf 'ICO' > build/favicon.abc123.ico && ` +
	`printf '<html><head><link rel="icon" href="/favicon.ico"></head></html>' > build/index.html && ` +
	`echo '{"errors":[],"warnings":[]}'`

type testProject struct {
	root     string
	project  string
	static   string
	template string
}

func newTestProject(t *testing.T) testProject {
	t.Helper()
	root := t.TempDir()
	p := testProject{
		root:     root,
		project:  filepath.Join(root, "project"),
		static:   filepath.Join(root, "static"),
		template: filepath.Join(root, "www", "html.template"),
	}
	require.NoError(t, os.MkdirAll(filepath.Join(p.project, "src"), 0o755))
	return p
}

// config returns defaults rooted at the project with every external sink disabled.
func (p testProject) config(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.FromDefaults(p.project)
	require.NoError(t, err)
	cfg.Bundler.Command = []string{"sh", "-c", publishScript}
	cfg.Browser.Enabled = false
	cfg.Mirror.Mode = "native"
	cfg.Journal.Path = filepath.Join(p.root, "journal.db")
	return cfg
}

func newTestGlobal() (*Global, *bytes.Buffer) {
	var out bytes.Buffer
	return &Global{Out: &out}, &out
}
