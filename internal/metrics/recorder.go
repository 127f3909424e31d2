package metrics

import "time"

// ResultLabel is the outcome of one finalize stage.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultWarning ResultLabel = "warning"
	ResultFatal   ResultLabel = "fatal"
)

// CycleOutcome is the terminal outcome of one watch cycle.
type CycleOutcome string

const (
	CycleSuccess        CycleOutcome = "success"
	CycleWarnings       CycleOutcome = "warnings"
	CycleErrors         CycleOutcome = "errors"
	CycleFailed         CycleOutcome = "failed"
	CycleFinalizeFailed CycleOutcome = "finalize_failed"
)

// Recorder receives cycle, finalize and browser observations.
type Recorder interface {
	IncCycle(outcome CycleOutcome)
	ObserveCompileDuration(d time.Duration)
	ObserveFinalizeDuration(d time.Duration)
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBrowserAction(action string)
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

func (NoopRecorder) IncCycle(CycleOutcome)                      {}
func (NoopRecorder) ObserveCompileDuration(time.Duration)       {}
func (NoopRecorder) ObserveFinalizeDuration(time.Duration)      {}
func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncBrowserAction(string)                    {}
