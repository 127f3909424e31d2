package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitewatch/internal/browser"
	"git.home.luguber.info/inful/sitewatch/internal/build"
	"git.home.luguber.info/inful/sitewatch/internal/bundler"
	"git.home.luguber.info/inful/sitewatch/internal/diagnostics"
	"git.home.luguber.info/inful/sitewatch/internal/finalize"
	"git.home.luguber.info/inful/sitewatch/internal/logfields"
	"git.home.luguber.info/inful/sitewatch/internal/metrics"
)

// DefaultBrowserDelay separates a publish from the browser notification.
const DefaultBrowserDelay = 2 * time.Second

// Display renders cycle progress for the developer.
type Display interface {
	Clear()
	Compiling()
	Report(r diagnostics.Report)
}

// Finalizer publishes the build directory.
type Finalizer interface {
	Finalize(ctx context.Context) (*finalize.Result, error)
	Paths() finalize.Paths
}

// BrowserNotifier points the browser at the site. reload is false for the first publish.
type BrowserNotifier interface {
	Notify(ctx context.Context, reload bool) browser.Action
}

// Scheduler runs a function once after a delay.
type Scheduler interface {
	After(name string, delay time.Duration, fn func()) (uuid.UUID, error)
}

// Bundler produces build events until ctx is canceled or the handler fails.
type Bundler interface {
	Watch(ctx context.Context, handle bundler.Handler) error
}

// Controller drives one watch session. Handle must be called from a single
// goroutine; State and Published may be called from any.
type Controller struct {
	display   Display
	finalizer Finalizer
	browser   BrowserNotifier
	delay     time.Duration
	scheduler Scheduler
	observers []CycleObserver
	recorder  metrics.Recorder
	logger    *slog.Logger
	newID     func() string
	now       func() time.Time

	mu           sync.Mutex
	state        State
	published    bool
	cycleID      string
	compileStart time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithBrowser notifies b delay after each publish.
func WithBrowser(b BrowserNotifier, delay time.Duration) Option {
	return func(c *Controller) {
		c.browser = b
		c.delay = delay
	}
}

// WithScheduler runs browser notifications on s. Without one they run inline.
func WithScheduler(s Scheduler) Option { return func(c *Controller) { c.scheduler = s } }

func WithObservers(obs ...CycleObserver) Option {
	return func(c *Controller) { c.observers = append(c.observers, obs...) }
}

func WithRecorder(r metrics.Recorder) Option { return func(c *Controller) { c.recorder = r } }

func WithLogger(l *slog.Logger) Option { return func(c *Controller) { c.logger = l } }

// WithIDGenerator replaces the cycle id source.
func WithIDGenerator(f func() string) Option { return func(c *Controller) { c.newID = f } }

// NewController returns an idle controller.
func NewController(display Display, finalizer Finalizer, opts ...Option) *Controller {
	c := &Controller{
		display:   display,
		finalizer: finalizer,
		delay:     DefaultBrowserDelay,
		recorder:  metrics.NoopRecorder{},
		logger:    slog.Default(),
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Published reports whether any cycle has been finalized successfully.
func (c *Controller) Published() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.published
}

// Run feeds the bundler's events into Handle until the bundler stops.
func (c *Controller) Run(ctx context.Context, b Bundler) error {
	return b.Watch(ctx, c.Handle)
}

// Handle processes one bundler event. It returns an error only when
// finalization fails.
func (c *Controller) Handle(ctx context.Context, ev build.Event) error {
	switch ev.Kind {
	case build.Invalidated:
		c.beginCycle(ctx, true)
		return nil
	case build.Done:
		if c.currentCycle() == "" {
			c.beginCycle(ctx, false)
		}
		return c.finishCycle(ctx, ev.Result)
	case build.Failed:
		c.failCycle(ctx, ev.Err)
		return nil
	default:
		c.logger.Warn("Ignoring unknown bundler event", "kind", ev.Kind.String())
		return nil
	}
}

// beginCycle starts a new cycle. show is false for a Done that arrives
// without a preceding Invalidated; the display is left as it is.
func (c *Controller) beginCycle(ctx context.Context, show bool) {
	id := c.newID()
	c.mu.Lock()
	c.state = Compiling
	c.cycleID = id
	c.compileStart = c.now()
	c.mu.Unlock()

	if show {
		c.display.Clear()
		c.display.Compiling()
	}
	c.logger.Debug("Build cycle started", logfields.CycleID(id), logfields.State(Compiling.String()))
	c.observe(ctx, "started", func(ctx context.Context, o CycleObserver) error { return o.CycleStarted(ctx, id) })
}

func (c *Controller) finishCycle(ctx context.Context, result build.CompilationResult) error {
	c.mu.Lock()
	c.state = Reporting
	id := c.cycleID
	compile := c.now().Sub(c.compileStart)
	c.mu.Unlock()

	report := diagnostics.Classify(result)
	c.display.Clear()
	c.display.Report(report)
	c.recorder.ObserveCompileDuration(compile)
	c.observe(ctx, "reported", func(ctx context.Context, o CycleObserver) error {
		return o.CycleReported(ctx, CycleReport{CycleID: id, Report: report, CompileDuration: compile})
	})

	if !report.Succeeded() {
		c.recorder.IncCycle(metrics.CycleErrors)
		c.logger.Debug("Build failed; publish skipped", logfields.CycleID(id), logfields.Outcome(string(report.Status)))
		c.reset()
		return nil
	}

	c.setState(Finalizing)
	res, err := c.finalizer.Finalize(ctx)
	outcome := CycleFinalize{CycleID: id, Paths: c.finalizer.Paths(), Result: res, Err: err}
	if err != nil {
		c.recorder.IncCycle(metrics.CycleFinalizeFailed)
		stage, _ := finalize.FailedStage(err)
		c.logger.Error("Failed to publish build",
			logfields.CycleID(id),
			logfields.Stage(string(stage)),
			logfields.Error(err))
		c.observe(ctx, "finalized", func(ctx context.Context, o CycleObserver) error { return o.CycleFinalized(ctx, outcome) })
		c.reset()
		return err
	}

	c.mu.Lock()
	reload := c.published
	c.published = true
	c.mu.Unlock()
	outcome.Reload = reload

	c.scheduleBrowser(ctx, id, reload)
	if report.Status == diagnostics.StatusWarnings {
		c.recorder.IncCycle(metrics.CycleWarnings)
	} else {
		c.recorder.IncCycle(metrics.CycleSuccess)
	}
	c.logger.Debug("Build published",
		logfields.CycleID(id),
		logfields.Duration(res.Duration),
		"reload", reload)
	c.observe(ctx, "finalized", func(ctx context.Context, o CycleObserver) error { return o.CycleFinalized(ctx, outcome) })
	c.reset()
	return nil
}

func (c *Controller) failCycle(ctx context.Context, cause error) {
	id := c.currentCycle()
	if id == "" {
		id = c.newID()
	}
	c.recorder.IncCycle(metrics.CycleFailed)
	c.logger.Error("Bundler could not produce a build", logfields.CycleID(id), logfields.Error(cause))
	c.observe(ctx, "failed", func(ctx context.Context, o CycleObserver) error { return o.CycleFailed(ctx, id, cause) })
	c.reset()
}

// scheduleBrowser notifies the browser after the configured delay without
// blocking the event loop.
func (c *Controller) scheduleBrowser(ctx context.Context, id string, reload bool) {
	if c.browser == nil {
		return
	}
	notifyCtx := context.WithoutCancel(ctx)
	notify := func() {
		action := c.browser.Notify(notifyCtx, reload)
		c.recorder.IncBrowserAction(string(action))
	}
	if c.scheduler == nil {
		notify()
		return
	}
	if _, err := c.scheduler.After("browser-"+id, c.delay, notify); err != nil {
		c.logger.Warn("Failed to schedule browser notification", logfields.CycleID(id), logfields.Error(err))
	}
}

// observe delivers an event to every observer with an uncanceled context.
func (c *Controller) observe(ctx context.Context, event string, fn func(context.Context, CycleObserver) error) {
	ctx = context.WithoutCancel(ctx)
	for _, o := range c.observers {
		if err := fn(ctx, o); err != nil {
			c.logger.Warn("Cycle observer failed", "event", event, logfields.Error(err))
		}
	}
}

func (c *Controller) currentCycle() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cycleID
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Controller) reset() {
	c.mu.Lock()
	c.state = Idle
	c.cycleID = ""
	c.compileStart = time.Time{}
	c.mu.Unlock()
}
