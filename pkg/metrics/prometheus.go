package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusRecorder implements the Recorder interface using Prometheus metrics.
type PrometheusRecorder struct {
	modelCallsTotal   *prometheus.CounterVec
	modelCallDuration *prometheus.HistogramVec
	parseStrategies   *prometheus.CounterVec
	reviewRejections  *prometheus.CounterVec
	runsTotal         *prometheus.CounterVec
	runIterations     *prometheus.HistogramVec
	runDuration       *prometheus.HistogramVec
}

// NewPrometheusRecorder creates a new Prometheus-based metrics recorder,
// registering its collectors with the given registerer (nil means the default
// registry).
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &PrometheusRecorder{
		modelCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipeline_model_calls_total",
				Help: "Total number of model invocations by role, model, and status",
			},
			[]string{"role", "model", "status", "error_type"},
		),
		modelCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pipeline_model_call_duration_seconds",
				Help:    "Duration of model invocations in seconds",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			},
			[]string{"role", "model"},
		),
		parseStrategies: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipeline_parse_strategy_total",
				Help: "Code-block extraction hits by parse strategy",
			},
			[]string{"strategy"},
		),
		reviewRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipeline_review_rejections_total",
				Help: "Review rejections by stage (static or model)",
			},
			[]string{"stage"},
		),
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipeline_runs_total",
				Help: "Completed pipeline runs by terminal outcome",
			},
			[]string{"outcome"},
		),
		runIterations: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pipeline_run_iterations",
				Help:    "Review iterations consumed per run",
				Buckets: prometheus.LinearBuckets(1, 1, 10),
			},
			[]string{"outcome"},
		),
		runDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pipeline_run_duration_seconds",
				Help:    "End-to-end pipeline run duration in seconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"outcome"},
		),
	}
}

// ObserveModelCall records a completed model invocation for a role.
func (p *PrometheusRecorder) ObserveModelCall(role, model string, success bool, errorType string, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	p.modelCallsTotal.WithLabelValues(role, model, status, errorType).Inc()
	p.modelCallDuration.WithLabelValues(role, model).Observe(duration.Seconds())
}

// IncParseStrategy increments the hit counter for a code-block parse strategy.
func (p *PrometheusRecorder) IncParseStrategy(strategy string) {
	p.parseStrategies.WithLabelValues(strategy).Inc()
}

// IncReviewRejection increments the rejection counter for a review stage.
func (p *PrometheusRecorder) IncReviewRejection(stage string) {
	p.reviewRejections.WithLabelValues(stage).Inc()
}

// ObserveRun records a completed pipeline run and its terminal outcome.
func (p *PrometheusRecorder) ObserveRun(outcome string, iterations int, duration time.Duration) {
	p.runsTotal.WithLabelValues(outcome).Inc()
	p.runIterations.WithLabelValues(outcome).Observe(float64(iterations))
	p.runDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}
