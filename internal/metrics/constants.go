package metrics

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Analysis metric names
const (
	MetricNameEvaluations      = "luck_evaluations_total"
	MetricNameOverflowWarnings = "luck_overflow_warnings_total"
	MetricNameCacheLookups     = "luck_cache_lookups_total"
	MetricNameScenarioReloads  = "luck_scenario_reloads_total"
	MetricNameSimulatedTrials  = "luck_simulated_trials_total"
	MetricNameScenarioFormulas = "luck_scenario_formulas"
)

// Help texts
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Number of HTTP requests being served"

	HelpTextEvaluations      = "Pipeline evaluations by formula kind"
	HelpTextOverflowWarnings = "Evaluations whose projected rates exceeded 1"
	HelpTextCacheLookups     = "Evaluation cache lookups by result"
	HelpTextScenarioReloads  = "Scenario reload attempts by result"
	HelpTextSimulatedTrials  = "Kills simulated by Monte Carlo verification"
	HelpTextScenarioFormulas = "Formulas in the active scenario"
)

// Labels
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelKind   = "kind"
	LabelResult = "result"
)

// Label values
const (
	ResultHit     = "hit"
	ResultMiss    = "miss"
	ResultSuccess = "success"
	ResultFailure = "failure"
	KindExplicit  = "explicit"
)

// HTTPLatencyBuckets are tuned for in-memory computations.
var HTTPLatencyBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1}
