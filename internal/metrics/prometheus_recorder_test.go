package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.IncCycle(CycleSuccess)
	pr.IncCycle(CycleSuccess)
	pr.IncCycle(CycleErrors)
	pr.ObserveCompileDuration(300 * time.Millisecond)
	pr.ObserveFinalizeDuration(40 * time.Millisecond)
	pr.ObserveStageDuration("mirror", 25*time.Millisecond)
	pr.IncStageResult("favicon", ResultWarning)
	pr.IncBrowserAction("reused")

	assert.InDelta(t, 2, testutil.ToFloat64(pr.cycles.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.cycles.WithLabelValues("errors")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.stageResults.WithLabelValues("favicon", "warning")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.browserActions.WithLabelValues("reused")), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncCycle(CycleWarnings)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `sitewatch_cycles_total{outcome="warnings"} 1`)
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncCycle(CycleFailed)
	r.ObserveStageDuration("mirror", time.Second)
}
