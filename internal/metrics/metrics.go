package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	runsTotal     *prometheus.CounterVec
	runDuration   prometheus.Histogram
	barsProcessed prometheus.Counter

	tradesTotal    *prometheus.CounterVec
	entriesSkipped *prometheus.CounterVec

	runsActive prometheus.Gauge
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgerunner_runs_total",
				Help: "Total number of backtest runs",
			},
			[]string{"profile", "status"},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "edgerunner_run_duration_seconds",
				Help:    "Backtest run duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
			},
		),
		barsProcessed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "edgerunner_bars_processed_total",
				Help: "Total number of bars walked by the simulator",
			},
		),
		tradesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgerunner_trades_total",
				Help: "Total number of closed trades",
			},
			[]string{"reason"},
		),
		entriesSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgerunner_entries_skipped_total",
				Help: "Entries refused by a filter or risk layer",
			},
			[]string{"filter"},
		),
		runsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "edgerunner_runs_active",
				Help: "Number of runs currently executing",
			},
		),
	}

	reg.MustRegister(r.runsTotal)
	reg.MustRegister(r.runDuration)
	reg.MustRegister(r.barsProcessed)
	reg.MustRegister(r.tradesTotal)
	reg.MustRegister(r.entriesSkipped)
	reg.MustRegister(r.runsActive)

	return r
}

// RecordRun records a run completion.
func (r *Registry) RecordRun(profile, status string, duration float64) {
	r.runsTotal.WithLabelValues(profile, status).Inc()
	r.runDuration.Observe(duration)
}

// RecordBars adds to the processed-bar counter.
func (r *Registry) RecordBars(n int) {
	r.barsProcessed.Add(float64(n))
}

// RecordTrade records a closed trade by exit reason.
func (r *Registry) RecordTrade(reason string) {
	r.tradesTotal.WithLabelValues(reason).Inc()
}

// RecordSkip records a refused entry by filter name.
func (r *Registry) RecordSkip(filter string, n int) {
	if n <= 0 {
		return
	}
	r.entriesSkipped.WithLabelValues(filter).Add(float64(n))
}

// RunStarted increments the active-run gauge.
func (r *Registry) RunStarted() {
	r.runsActive.Inc()
}

// RunFinished decrements the active-run gauge.
func (r *Registry) RunFinished() {
	r.runsActive.Dec()
}
