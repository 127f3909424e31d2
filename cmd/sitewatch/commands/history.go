package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"git.home.luguber.info/inful/sitewatch/internal/config"
	ferrors "git.home.luguber.info/inful/sitewatch/internal/foundation/errors"
	"git.home.luguber.info/inful/sitewatch/internal/journal"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int    `short:"n" default:"20" help:"Number of entries to show"`
	Cycle string `help:"Show every entry of one cycle instead of the most recent ones"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	return runHistory(context.Background(), g, cfg, h.Limit, h.Cycle)
}

func runHistory(ctx context.Context, g *Global, cfg *config.Config, limit int, cycle string) error {
	if cfg.Journal.Path == "" {
		return ferrors.ConfigError("journal is disabled").WithContext("key", "journal.path").Build()
	}
	if limit <= 0 {
		return ferrors.ValidationError("limit must be positive").WithContext("limit", limit).Build()
	}

	store, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	var entries []journal.Entry
	if cycle != "" {
		entries, err = store.ByCycle(ctx, cycle)
	} else {
		entries, err = store.Recent(ctx, limit)
	}
	if err != nil {
		return err
	}

	out := g.out()
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(out, "No build cycles recorded")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.Timestamp.Local().Format(time.DateTime),
			e.CycleID,
			string(e.Type),
			string(e.Payload),
		})
	}
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("ID", "TIME", "CYCLE", "EVENT", "DETAILS").
		Rows(rows...)
	_, _ = fmt.Fprintln(out, t.String())
	return nil
}
