package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/sitewatch/internal/foundation/errors"
	"git.home.luguber.info/inful/sitewatch/internal/journal"
)

func seedJournal(t *testing.T, path string) {
	t.Helper()
	store, err := journal.Open(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	_, err = store.Append(ctx, "cycle-1", journal.CycleStarted, nil, nil)
	require.NoError(t, err)
	_, err = store.Append(ctx, "cycle-1", journal.CycleFinalized, journal.FinalizedPayload{StaticDir: "/srv/static"}, nil)
	require.NoError(t, err)
	_, err = store.Append(ctx, "cycle-2", journal.CycleStarted, nil, nil)
	require.NoError(t, err)
}

func TestHistoryListsRecentEntries(t *testing.T) {
	p := newTestProject(t)
	cfg := p.config(t)
	seedJournal(t, cfg.Journal.Path)
	g, out := newTestGlobal()

	require.NoError(t, runHistory(context.Background(), g, cfg, 20, ""))
	text := out.String()
	assert.Contains(t, text, "CYCLE")
	assert.Contains(t, text, "cycle-1")
	assert.Contains(t, text, "cycle-2")
	assert.Contains(t, text, "cycle_finalized")
}

func TestHistoryFiltersByCycle(t *testing.T) {
	p := newTestProject(t)
	cfg := p.config(t)
	seedJournal(t, cfg.Journal.Path)
	g, out := newTestGlobal()

	require.NoError(t, runHistory(context.Background(), g, cfg, 20, "cycle-2"))
	assert.Contains(t, out.String(), "cycle-2")
	assert.NotContains(t, out.String(), "cycle-1")
}

func TestHistoryEmptyJournal(t *testing.T) {
	p := newTestProject(t)
	cfg := p.config(t)
	g, out := newTestGlobal()

	require.NoError(t, runHistory(context.Background(), g, cfg, 5, ""))
	assert.Equal(t, "No build cycles recorded\n", out.String())
}

func TestHistoryRequiresJournal(t *testing.T) {
	p := newTestProject(t)
	cfg := p.config(t)
	cfg.Journal.Path = ""
	g, _ := newTestGlobal()

	err := runHistory(context.Background(), g, cfg, 5, "")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	cfg = p.config(t)
	err = runHistory(context.Background(), g, cfg, 0, "")
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}
