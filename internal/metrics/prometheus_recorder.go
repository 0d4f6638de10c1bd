package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every bookpress metric name.
const Namespace = "bookpress"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stepDuration *prom.HistogramVec
	runDuration  prom.Histogram
	stepResults  *prom.CounterVec
	runOutcome   *prom.CounterVec
	lastSuccess  prom.Gauge
}

// Tool builds routinely take minutes, so the buckets stretch past DefBuckets.
var durationBuckets = []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600, 1200}

// NewPrometheusRecorder constructs and registers Prometheus metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stepDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: Namespace,
			Name:      "step_duration_seconds",
			Help:      "Duration of individual external tool steps",
			Buckets:   durationBuckets,
		}, []string{"step"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: Namespace,
			Name:      "run_duration_seconds",
			Help:      "Total run duration",
			Buckets:   durationBuckets,
		}),
		stepResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: Namespace,
			Name:      "step_results_total",
			Help:      "Step result counts by outcome",
		}, []string{"step", "result"}),
		runOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: Namespace,
			Name:      "run_outcomes_total",
			Help:      "Run outcomes by final status",
		}, []string{"outcome"}),
		lastSuccess: prom.NewGauge(prom.GaugeOpts{
			Namespace: Namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run",
		}),
	}
	reg.MustRegister(pr.stepDuration, pr.runDuration, pr.stepResults, pr.runOutcome, pr.lastSuccess)
	return pr
}

func (p *PrometheusRecorder) ObserveStepDuration(step string, d time.Duration) {
	if p == nil || p.stepDuration == nil {
		return
	}
	p.stepDuration.WithLabelValues(step).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStepResult(step string, result ResultLabel) {
	if p == nil || p.stepResults == nil {
		return
	}
	p.stepResults.WithLabelValues(step, string(result)).Inc()
}

func (p *PrometheusRecorder) IncRunOutcome(outcome string) {
	if p == nil || p.runOutcome == nil {
		return
	}
	p.runOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) SetLastSuccess(t time.Time) {
	if p == nil || p.lastSuccess == nil {
		return
	}
	p.lastSuccess.Set(float64(t.Unix()))
}
