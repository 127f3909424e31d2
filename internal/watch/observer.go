package watch

import (
	"context"
	"time"

	"git.home.luguber.info/inful/sitewatch/internal/diagnostics"
	"git.home.luguber.info/inful/sitewatch/internal/finalize"
)

// CycleReport is what an observer learns once a cycle's diagnostics are known.
type CycleReport struct {
	CycleID         string
	Report          diagnostics.Report
	CompileDuration time.Duration
}

// CycleFinalize is the outcome of finalizing a successful cycle. Exactly one
// of Result and Err is set.
type CycleFinalize struct {
	CycleID string
	Paths   finalize.Paths
	Result  *finalize.Result
	Err     error
	// Reload is the browser strategy scheduled after a successful finalize.
	Reload bool
}

// CycleObserver is told about every cycle. Errors are logged by the
// controller and never change the cycle's outcome.
type CycleObserver interface {
	CycleStarted(ctx context.Context, cycleID string) error
	CycleReported(ctx context.Context, r CycleReport) error
	CycleFailed(ctx context.Context, cycleID string, cause error) error
	CycleFinalized(ctx context.Context, f CycleFinalize) error
}

// NopObserver implements CycleObserver with no-ops; embed it to observe a subset.
type NopObserver struct{}

func (NopObserver) CycleStarted(context.Context, string) error          { return nil }
func (NopObserver) CycleReported(context.Context, CycleReport) error    { return nil }
func (NopObserver) CycleFailed(context.Context, string, error) error    { return nil }
func (NopObserver) CycleFinalized(context.Context, CycleFinalize) error { return nil }
