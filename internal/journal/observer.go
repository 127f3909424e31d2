package journal

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitewatch/internal/finalize"
	"git.home.luguber.info/inful/sitewatch/internal/watch"
)

// Observer writes watch cycles to a Store.
type Observer struct {
	store    *Store
	metadata map[string]string
}

var _ watch.CycleObserver = (*Observer)(nil)

// NewObserver records into store, tagging every entry with metadata.
func NewObserver(store *Store, metadata map[string]string) *Observer {
	return &Observer{store: store, metadata: metadata}
}

func (o *Observer) CycleStarted(ctx context.Context, cycleID string) error {
	_, err := o.store.Append(ctx, cycleID, CycleStarted, nil, o.metadata)
	return err
}

func (o *Observer) CycleReported(ctx context.Context, r watch.CycleReport) error {
	_, err := o.store.Append(ctx, r.CycleID, CycleReported, ReportedPayload{
		Status:            string(r.Report.Status),
		Errors:            r.Report.Errors,
		Warnings:          r.Report.Warnings,
		CompileDurationMS: r.CompileDuration.Milliseconds(),
	}, o.metadata)
	return err
}

func (o *Observer) CycleFailed(ctx context.Context, cycleID string, cause error) error {
	_, err := o.store.Append(ctx, cycleID, CycleFailed, FailedPayload{Error: errString(cause)}, o.metadata)
	return err
}

func (o *Observer) CycleFinalized(ctx context.Context, f watch.CycleFinalize) error {
	if f.Err != nil {
		stage, _ := finalize.FailedStage(f.Err)
		_, err := o.store.Append(ctx, f.CycleID, CycleFinalizeFailed, FailedPayload{
			Error: f.Err.Error(),
			Stage: string(stage),
		}, o.metadata)
		return err
	}

	p := FinalizedPayload{
		StaticDir: f.Paths.StaticDir,
		Template:  f.Paths.TemplatePath,
		Reload:    f.Reload,
	}
	if f.Result != nil {
		p.Favicon = f.Result.Favicon
		p.MissingAssets = f.Result.MissingAssets
		p.DurationMS = f.Result.Duration.Milliseconds()
	}
	_, err := o.store.Append(ctx, f.CycleID, CycleFinalized, p, o.metadata)
	return err
}

// RetentionJob returns a function that prunes entries older than retention.
func RetentionJob(store *Store, retention time.Duration) func() {
	return func() {
		n, err := store.Prune(context.Background(), store.now().Add(-retention))
		if err != nil {
			slog.Warn("Journal retention failed", "error", err)
			return
		}
		if n > 0 {
			slog.Debug("Pruned journal entries", "count", n)
		}
	}
}

// RetentionInterval is how often RetentionJob should run for a retention window.
func RetentionInterval(retention time.Duration) time.Duration {
	return min(retention, time.Hour)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
