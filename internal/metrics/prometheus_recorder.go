package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "sitewatch"

// PrometheusRecorder implements Recorder with Prometheus collectors.
type PrometheusRecorder struct {
	cycles           *prom.CounterVec
	compileDuration  prom.Histogram
	finalizeDuration prom.Histogram
	stageDuration    *prom.HistogramVec
	stageResults     *prom.CounterVec
	browserActions   *prom.CounterVec
}

// NewPrometheusRecorder creates the collectors and registers them on reg.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		cycles: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Watch cycles by outcome",
		}, []string{"outcome"}),
		compileDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "compile_duration_seconds",
			Help:      "Time from invalidation to the bundler's done event",
			Buckets:   prom.DefBuckets,
		}),
		finalizeDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "finalize_duration_seconds",
			Help:      "Duration of the artifact finalizer",
			Buckets:   prom.DefBuckets,
		}),
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "finalize_stage_duration_seconds",
			Help:      "Duration of individual finalize stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "finalize_stage_results_total",
			Help:      "Finalize stage results by outcome",
		}, []string{"stage", "result"}),
		browserActions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "browser_actions_total",
			Help:      "Browser notifications by action taken",
		}, []string{"action"}),
	}
	reg.MustRegister(pr.cycles, pr.compileDuration, pr.finalizeDuration,
		pr.stageDuration, pr.stageResults, pr.browserActions)
	return pr
}

func (p *PrometheusRecorder) IncCycle(outcome CycleOutcome) {
	p.cycles.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveCompileDuration(d time.Duration) {
	p.compileDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveFinalizeDuration(d time.Duration) {
	p.finalizeDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBrowserAction(action string) {
	p.browserActions.WithLabelValues(action).Inc()
}
