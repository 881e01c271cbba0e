package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Analysis Metrics
var (
	Evaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEvaluations,
			Help: HelpTextEvaluations,
		},
		[]string{LabelKind},
	)

	OverflowWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameOverflowWarnings,
			Help: HelpTextOverflowWarnings,
		},
		[]string{LabelKind},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCacheLookups,
			Help: HelpTextCacheLookups,
		},
		[]string{LabelResult},
	)

	ScenarioReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameScenarioReloads,
			Help: HelpTextScenarioReloads,
		},
		[]string{LabelResult},
	)

	SimulatedTrials = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSimulatedTrials,
			Help: HelpTextSimulatedTrials,
		},
	)

	ScenarioFormulas = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameScenarioFormulas,
			Help: HelpTextScenarioFormulas,
		},
	)
)

// RecordEvaluation counts one pipeline run. kind is the formula kind, or
// KindExplicit for a hand-entered bonus.
func RecordEvaluation(kind string, exceeded bool) {
	Evaluations.WithLabelValues(kind).Inc()
	if exceeded {
		OverflowWarnings.WithLabelValues(kind).Inc()
	}
}

// RecordCacheLookup counts one evaluation cache lookup.
func RecordCacheLookup(hit bool) {
	if hit {
		CacheLookups.WithLabelValues(ResultHit).Inc()
		return
	}
	CacheLookups.WithLabelValues(ResultMiss).Inc()
}

// RecordReload counts one scenario reload attempt.
func RecordReload(err error) {
	if err != nil {
		ScenarioReloads.WithLabelValues(ResultFailure).Inc()
		return
	}
	ScenarioReloads.WithLabelValues(ResultSuccess).Inc()
}
