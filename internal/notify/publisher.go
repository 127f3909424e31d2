// Package notify announces finished publishes on NATS so servers in front of
// the static directory can pick up the new template.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	ferrors "git.home.luguber.info/inful/sitewatch/internal/foundation/errors"
	"git.home.luguber.info/inful/sitewatch/internal/watch"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "sitewatch.published"

const flushTimeout = 2 * time.Second

// Conn is the part of *nats.Conn the publisher uses.
type Conn interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	Close()
}

// Published is the message body sent after every successful finalize.
type Published struct {
	CycleID       string    `json:"cycle_id"`
	StaticDir     string    `json:"static_dir"`
	Template      string    `json:"template"`
	PublishedAt   time.Time `json:"published_at"`
	MissingAssets []string  `json:"missing_assets"`
}

// Publisher sends Published messages. It observes watch cycles and ignores
// everything except successful finalizes.
type Publisher struct {
	watch.NopObserver
	conn    Conn
	subject string
	now     func() time.Time
}

var _ watch.CycleObserver = (*Publisher)(nil)

// Connect dials url and returns a publisher for subject.
func Connect(url, subject string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("sitewatch"),
		nats.Timeout(5*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("Disconnected from NATS", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			slog.Info("Reconnected to NATS", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, ferrors.NotifyError("failed to connect to NATS").
			WithCause(err).
			WithContext("url", url).
			Build()
	}
	slog.Info("NATS publish notifications enabled", "url", url, "subject", subject)
	return NewPublisher(conn, subject), nil
}

// NewPublisher wraps an existing connection.
func NewPublisher(conn Conn, subject string) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Publisher{conn: conn, subject: subject, now: time.Now}
}

// Subject returns the subject messages are published on.
func (p *Publisher) Subject() string { return p.subject }

// Publish sends msg and waits for the server to acknowledge the flush.
func (p *Publisher) Publish(msg Published) error {
	if msg.MissingAssets == nil {
		msg.MissingAssets = []string{}
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return ferrors.NotifyError("failed to marshal publish notification").WithCause(err).Build()
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return ferrors.NotifyError("failed to publish notification").
			WithCause(err).
			WithContext("subject", p.subject).
			Build()
	}
	if err := p.conn.FlushTimeout(flushTimeout); err != nil {
		return ferrors.NotifyError("failed to flush notification").
			WithCause(err).
			WithContext("subject", p.subject).
			Build()
	}
	return nil
}

func (p *Publisher) CycleFinalized(_ context.Context, f watch.CycleFinalize) error {
	if f.Err != nil || f.Result == nil {
		return nil
	}
	return p.Publish(Published{
		CycleID:       f.CycleID,
		StaticDir:     f.Paths.StaticDir,
		Template:      f.Paths.TemplatePath,
		PublishedAt:   p.now().UTC(),
		MissingAssets: f.Result.MissingAssets,
	})
}

// Close closes the connection.
func (p *Publisher) Close() {
	p.conn.Close()
}
