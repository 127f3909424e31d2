// Package metrics records watch-cycle observability data.
//
// Components take a Recorder and default to NoopRecorder, so metrics cost
// nothing unless the watch command is started with a metrics listen address,
// in which case a PrometheusRecorder is injected and HTTPHandler serves it.
package metrics
