package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/sitewatch/internal/browser"
	"git.home.luguber.info/inful/sitewatch/internal/bundler"
	"git.home.luguber.info/inful/sitewatch/internal/config"
	"git.home.luguber.info/inful/sitewatch/internal/finalize"
	ferrors "git.home.luguber.info/inful/sitewatch/internal/foundation/errors"
	"git.home.luguber.info/inful/sitewatch/internal/journal"
	"git.home.luguber.info/inful/sitewatch/internal/metrics"
	"git.home.luguber.info/inful/sitewatch/internal/notify"
	"git.home.luguber.info/inful/sitewatch/internal/schedule"
	"git.home.luguber.info/inful/sitewatch/internal/terminal"
	"git.home.luguber.info/inful/sitewatch/internal/watch"
)

const retentionJobName = "journal-retention"

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	NoClear     bool   `name:"no-clear" help:"Keep earlier output on screen between cycles"`
	NoBrowser   bool   `name:"no-browser" help:"Never open or reload the browser"`
	MetricsAddr string `name:"metrics-addr" help:"Serve Prometheus metrics on this address (overrides metrics.listen)"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	w.apply(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return runWatch(ctx, g, cfg, w.NoClear)
}

// apply folds command-line overrides into cfg.
func (w *WatchCmd) apply(cfg *config.Config) {
	if w.NoBrowser {
		cfg.Browser.Enabled = false
	}
	if w.MetricsAddr != "" {
		cfg.Metrics.Listen = w.MetricsAddr
	}
}

// session holds everything one watch run owns.
type session struct {
	controller *watch.Controller
	bundler    *bundler.CommandBundler
	scheduler  *schedule.Scheduler
	registry   *prom.Registry
	closers    []func()
}

func (s *session) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// newSession wires the watch controller to the bundler, the finalizer and
// every optional sink enabled in cfg.
func newSession(g *Global, cfg *config.Config, noClear bool) (_ *session, err error) {
	logger := g.logger()
	s := &session{registry: prom.NewRegistry()}
	defer func() {
		if err != nil {
			s.close()
		}
	}()

	s.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewPrometheusRecorder(s.registry)

	mirror, err := finalize.NewMirror(finalize.MirrorMode(cfg.Mirror.Mode))
	if err != nil {
		return nil, err
	}
	fin, err := finalize.New(cfg.FinalizePaths(),
		finalize.WithMirror(mirror),
		finalize.WithRecorder(recorder),
		finalize.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	var displayOpts []terminal.Option
	if noClear {
		displayOpts = append(displayOpts, terminal.WithoutClear())
	}
	display := terminal.New(g.out(), displayOpts...)

	s.scheduler, err = schedule.New()
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, func() {
		if err := s.scheduler.Shutdown(); err != nil {
			logger.Warn("Scheduler shutdown failed", "error", err)
		}
	})

	opts := []watch.Option{
		watch.WithScheduler(s.scheduler),
		watch.WithRecorder(recorder),
		watch.WithLogger(logger),
	}
	if cfg.Browser.Enabled {
		b := browser.NewController(cfg.Browser.URL, browser.WithLogger(logger))
		opts = append(opts, watch.WithBrowser(b, cfg.Browser.Delay))
	}

	if cfg.Journal.Path != "" {
		store, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { _ = store.Close() })
		opts = append(opts, watch.WithObservers(journal.NewObserver(store, journal.GitMetadata(cfg.ProjectDir))))
		if cfg.Journal.Retention > 0 {
			job := journal.RetentionJob(store, cfg.Journal.Retention)
			if _, err := s.scheduler.Every(retentionJobName, journal.RetentionInterval(cfg.Journal.Retention), job); err != nil {
				return nil, err
			}
		}
	}

	if cfg.Notify.NATSURL != "" {
		pub, err := notify.Connect(cfg.Notify.NATSURL, cfg.Notify.Subject)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, pub.Close)
		opts = append(opts, watch.WithObservers(pub))
	}

	s.bundler, err = bundler.NewCommandBundler(cfg.BundlerOptions(), bundler.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	s.controller = watch.NewController(display, fin, opts...)
	return s, nil
}

// runWatch runs the session until ctx is canceled or a publish fails.
func runWatch(ctx context.Context, g *Global, cfg *config.Config, noClear bool) error {
	logger := g.logger()
	if cfg.CleanBuildDir {
		if err := os.RemoveAll(cfg.Paths.BuildDir); err != nil {
			return ferrors.FileSystemError("failed to clean build directory").
				WithCause(err).
				WithContext("path", cfg.Paths.BuildDir).
				Build()
		}
	}

	s, err := newSession(g, cfg, noClear)
	if err != nil {
		return err
	}
	defer s.close()
	s.scheduler.Start()

	group, gctx := errgroup.WithContext(ctx)
	runCtx, stop := context.WithCancel(gctx)
	defer stop()

	group.Go(func() error {
		defer stop()
		return s.controller.Run(runCtx, s.bundler)
	})

	if cfg.Metrics.Listen != "" {
		srv := metrics.NewServer(cfg.Metrics.Listen, s.registry, logger)
		group.Go(func() error {
			return srv.ListenAndServe(runCtx)
		})
	}

	logger.Debug("Watching for changes",
		slog.Any("dirs", cfg.Bundler.Watch),
		slog.String("static_dir", cfg.Paths.StaticDir))
	return group.Wait()
}
