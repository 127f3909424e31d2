package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitewatch/internal/journal"
)

func waitForFile(t *testing.T, path string) {
	t.Helper()
	require.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, 10*time.Second, 20*time.Millisecond, "expected %s to appear", path)
}

func TestRunWatchPublishesInitialBuild(t *testing.T) {
	p := newTestProject(t)
	cfg := p.config(t)
	cfg.Metrics.Listen = "127.0.0.1:0"
	stale := filepath.Join(cfg.Paths.BuildDir, "stale.js")
	writeBuild(t, cfg.Paths.BuildDir, map[string]string{"stale.js": "old"})
	g, out := newTestGlobal()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- runWatch(ctx, g, cfg, true) }()

	waitForFile(t, p.template)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}

	assert.NoFileExists(t, stale)
	assert.FileExists(t, filepath.Join(p.static, "favicon.ico"))
	assert.Contains(t, out.String(), "Compiling...")
	assert.Contains(t, out.String(), "Compiled successfully!")

	store, err := journal.Open(cfg.Journal.Path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	entries, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)

	var types []journal.EventType
	for _, e := range entries {
		types = append(types, e.Type)
	}
	assert.Contains(t, types, journal.CycleStarted)
	assert.Contains(t, types, journal.CycleReported)
	assert.Contains(t, types, journal.CycleFinalized)
}

func TestSessionRecordsMetrics(t *testing.T) {
	p := newTestProject(t)
	cfg := p.config(t)
	cfg.Journal.Path = ""
	g, _ := newTestGlobal()

	s, err := newSession(g, cfg, true)
	require.NoError(t, err)
	defer s.close()
	s.scheduler.Start()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.controller.Run(ctx, s.bundler) }()

	waitForFile(t, p.template)
	require.Eventually(t, func() bool { return s.controller.Published() }, 5*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	n, err := testutil.GatherAndCount(s.registry, "sitewatch_cycles_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = testutil.GatherAndCount(s.registry, "sitewatch_finalize_stage_results_total")
	require.NoError(t, err)
	assert.Positive(t, n)
}

func TestRunWatchRejectsUnusablePaths(t *testing.T) {
	p := newTestProject(t)
	cfg := p.config(t)
	cfg.Paths.StaticDir = cfg.Paths.BuildDir
	g, _ := newTestGlobal()

	err := runWatch(context.Background(), g, cfg, true)
	require.Error(t, err)
}
