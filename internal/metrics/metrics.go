// Package metrics records generation counters and histograms and exports
// them in the Prometheus text format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/eykd/edi-trainer-go/internal/domain"
)

// Recorder owns a private registry so that runs and tests never share
// collectors.
type Recorder struct {
	registry *prometheus.Registry

	transactions *prometheus.CounterVec
	injected     *prometheus.CounterVec
	segments     prometheus.Histogram
	duration     prometheus.Histogram
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		transactions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "editrainer_transactions_total",
				Help: "Transactions generated, by error target",
			},
			[]string{"target"},
		),
		injected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "editrainer_errors_injected_total",
				Help: "Defects injected, by error kind",
			},
			[]string{"kind"},
		),
		segments: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "editrainer_transaction_segments",
			Help:    "Rendered segments per transaction",
			Buckets: prometheus.LinearBuckets(10, 10, 8),
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "editrainer_generation_duration_seconds",
			Help:    "Time spent generating one transaction",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
}

// Observe records one generated transaction.
func (r *Recorder) Observe(d *domain.Directive, segments int, elapsed time.Duration) {
	r.transactions.WithLabelValues(string(d.Target())).Inc()
	if d.HasError() {
		r.injected.WithLabelValues(d.Outcome().Kind.String()).Inc()
	}
	r.segments.Observe(float64(segments))
	r.duration.Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// WriteFile writes every metric to path in the text exposition format.
func (r *Recorder) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
