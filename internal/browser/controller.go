package browser

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/sitewatch/internal/logfields"
)

// Action is what Notify ended up doing.
type Action string

const (
	ActionReused     Action = "reused"
	ActionOpened     Action = "opened"
	ActionOpenFailed Action = "open_failed"
	ActionDropped    Action = "dropped"
)

// Controller decides between reusing a tab, opening a new one, or doing nothing.
type Controller struct {
	url    string
	reuser TabReuser
	opener Opener
	logger *slog.Logger
}

type Option func(*Controller)

func WithReuser(r TabReuser) Option { return func(c *Controller) { c.reuser = r } }

func WithOpener(o Opener) Option { return func(c *Controller) { c.opener = o } }

func WithLogger(l *slog.Logger) Option { return func(c *Controller) { c.logger = l } }

// NewController returns a controller for url using the platform reuser and opener.
func NewController(url string, opts ...Option) *Controller {
	c := &Controller{
		url:    url,
		reuser: NewAppleScriptReuser(),
		opener: NewSystemOpener(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the development URL.
func (c *Controller) URL() string { return c.url }

// Notify points the browser at the URL. The first publish passes reload=false.
// Failures are logged at debug level and never returned.
func (c *Controller) Notify(ctx context.Context, reload bool) Action {
	strategy := StrategyFor(reload)
	res := c.reuser.Reuse(ctx, c.url, strategy)
	if res.Outcome == Success {
		c.logger.Debug("Reused browser tab", logfields.URL(c.url), "strategy", string(strategy))
		return ActionReused
	}
	c.logger.Debug("Browser tab reuse not possible",
		logfields.URL(c.url),
		logfields.Outcome(res.Outcome.String()),
		logfields.Error(res.Reason))

	if reload {
		return ActionDropped
	}
	if err := c.opener.Open(ctx, c.url); err != nil {
		c.logger.Debug("Failed to open browser", logfields.URL(c.url), logfields.Error(err))
		return ActionOpenFailed
	}
	return ActionOpened
}
