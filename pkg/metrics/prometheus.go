package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetches          *prometheus.CounterVec
	fetchLatency     *prometheus.HistogramVec
	batchLatency     prometheus.Histogram
	batchSymbols     prometheus.Histogram
	batchFailed      prometheus.Counter
	staleBatches     prometheus.Counter
	validationErrors prometheus.Counter
	activeSessions   prometheus.Gauge
}

// New creates a recorder registered on reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Recorder{
		fetches: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockdash_history_fetches_total",
				Help: "History requests per symbol by result",
			},
			[]string{"symbol", "result"},
		),
		fetchLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockdash_history_fetch_seconds",
				Help:    "Latency of one history request",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		),
		batchLatency: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stockdash_batch_seconds",
				Help:    "Time from dispatch until every request in a batch settled",
				Buckets: prometheus.DefBuckets,
			},
		),
		batchSymbols: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stockdash_batch_symbols",
				Help:    "Symbols per batch",
				Buckets: []float64{1, 2, 3},
			},
		),
		batchFailed: f.NewCounter(
			prometheus.CounterOpts{
				Name: "stockdash_batch_failed_symbols_total",
				Help: "Symbols that settled empty because their request failed",
			},
		),
		staleBatches: f.NewCounter(
			prometheus.CounterOpts{
				Name: "stockdash_stale_batches_total",
				Help: "Batches dropped because a newer submit superseded them",
			},
		),
		validationErrors: f.NewCounter(
			prometheus.CounterOpts{
				Name: "stockdash_submit_validation_errors_total",
				Help: "Submits rejected before any request was made",
			},
		),
		activeSessions: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "stockdash_active_sessions",
				Help: "Sessions currently held in memory",
			},
		),
	}
}

func (r *Recorder) RecordFetch(symbol string, ok bool, seconds float64) {
	result := "ok"
	if !ok {
		result = "error"
	}
	r.fetches.WithLabelValues(symbol, result).Inc()
	r.fetchLatency.WithLabelValues(result).Observe(seconds)
}

func (r *Recorder) RecordBatch(symbols, failed int, seconds float64) {
	r.batchLatency.Observe(seconds)
	r.batchSymbols.Observe(float64(symbols))
	r.batchFailed.Add(float64(failed))
}

func (r *Recorder) RecordStaleBatch() {
	r.staleBatches.Inc()
}

func (r *Recorder) RecordValidationError() {
	r.validationErrors.Inc()
}

func (r *Recorder) SetActiveSessions(n int) {
	r.activeSessions.Set(float64(n))
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordFetch(string, bool, float64) {}
func (Nop) RecordBatch(int, int, float64)     {}
func (Nop) RecordStaleBatch()                 {}
func (Nop) RecordValidationError()            {}
func (Nop) SetActiveSessions(int)             {}
