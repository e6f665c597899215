package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "citepage"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration   *prom.HistogramVec
	stageResults    *prom.CounterVec
	runDuration     prom.Histogram
	runOutcome      *prom.CounterVec
	variants        prom.Counter
	attempts        prom.Counter
	budgetExhausted prom.Counter
	registrySize    prom.Gauge
	lastRun         prom.Gauge
}

// NewPrometheusRecorder constructs metrics and registers them on reg. A nil
// reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual generation stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Total generation run duration",
			Buckets:   prom.DefBuckets,
		}),
		runOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "run_outcomes_total",
			Help:      "Generation runs by final status",
		}, []string{"outcome"}),
		variants: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "variants_generated_total",
			Help:      "Accepted citation variants",
		}),
		attempts: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "generation_attempts_total",
			Help:      "Citation generation attempts including collisions",
		}),
		budgetExhausted: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "attempt_budget_exhausted_total",
			Help:      "Runs that produced fewer variants than requested",
		}),
		registrySize: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "registry_entries",
			Help:      "Hashes held in the uniqueness registry after the last run",
		}),
		lastRun: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed run",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.stageResults, pr.runDuration, pr.runOutcome,
		pr.variants, pr.attempts, pr.budgetExhausted, pr.registrySize, pr.lastRun)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome OutcomeLabel) {
	if p == nil {
		return
	}
	p.runOutcome.WithLabelValues(string(outcome)).Inc()
	p.lastRun.SetToCurrentTime()
}

func (p *PrometheusRecorder) AddVariants(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.variants.Add(float64(n))
}

func (p *PrometheusRecorder) AddAttempts(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.attempts.Add(float64(n))
}

func (p *PrometheusRecorder) IncBudgetExhausted() {
	if p == nil {
		return
	}
	p.budgetExhausted.Inc()
}

func (p *PrometheusRecorder) SetRegistrySize(n int) {
	if p == nil {
		return
	}
	p.registrySize.Set(float64(n))
}
