package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/sitewatch/internal/config"
	"git.home.luguber.info/inful/sitewatch/internal/finalize"
)

// FinalizeCmd implements the 'finalize' command.
type FinalizeCmd struct {
	NoVerify bool `name:"no-verify" help:"Skip checking the template's asset references"`
}

func (f *FinalizeCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return runFinalize(ctx, g, cfg, f.NoVerify)
}

func runFinalize(ctx context.Context, g *Global, cfg *config.Config, noVerify bool) error {
	mirror, err := finalize.NewMirror(finalize.MirrorMode(cfg.Mirror.Mode))
	if err != nil {
		return err
	}
	opts := []finalize.Option{finalize.WithMirror(mirror), finalize.WithLogger(g.logger())}
	if noVerify {
		opts = append(opts, finalize.WithoutVerify())
	}
	fin, err := finalize.New(cfg.FinalizePaths(), opts...)
	if err != nil {
		return err
	}

	res, err := fin.Finalize(ctx)
	if err != nil {
		return err
	}

	out := g.out()
	paths := fin.Paths()
	_, _ = fmt.Fprintf(out, "Published %s to %s (%s mirror)\n", paths.BuildDir, paths.StaticDir, mirror.Name())
	_, _ = fmt.Fprintf(out, "Template: %s\n", paths.TemplatePath)
	if res.Favicon != "" {
		_, _ = fmt.Fprintf(out, "Favicon: %s\n", res.Favicon)
	}
	for _, st := range res.Stages {
		_, _ = fmt.Fprintf(out, "  %-16s %-8s %s\n", st.Stage, st.Result, st.Duration.Round(time.Microsecond))
	}
	for _, missing := range res.MissingAssets {
		_, _ = fmt.Fprintf(out, "Missing asset: %s\n", missing)
	}
	return nil
}
