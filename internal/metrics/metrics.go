// Package metrics exposes Prometheus instrumentation for batch runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector tracks batch run outcomes on a private registry.
type Collector struct {
	registry      *prometheus.Registry
	recordsTotal  *prometheus.CounterVec
	batchRuns     *prometheus.CounterVec
	batchDuration prometheus.Histogram
}

// NewCollector constructs a collector with default counters and histograms.
func NewCollector() (*Collector, error) {
	registry := prometheus.NewRegistry()

	recordsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tweet_resolver",
		Subsystem: "batch",
		Name:      "records_total",
		Help:      "Source records handled per outcome (processed, errored, skipped).",
	}, []string{"outcome"})

	batchRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tweet_resolver",
		Subsystem: "batch",
		Name:      "runs_total",
		Help:      "Batch invocations by result (completed, aborted).",
	}, []string{"result"})

	batchDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tweet_resolver",
		Subsystem: "batch",
		Name:      "run_duration_seconds",
		Help:      "Wall-clock duration of full batch runs.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 4, 8),
	})

	for _, c := range []prometheus.Collector{recordsTotal, batchRuns, batchDuration} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return &Collector{
		registry:      registry,
		recordsTotal:  recordsTotal,
		batchRuns:     batchRuns,
		batchDuration: batchDuration,
	}, nil
}

// Handler returns an HTTP handler for exposing Prometheus metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveBatch records the aggregate outcome of a completed batch run.
func (c *Collector) ObserveBatch(processed, errored, skipped int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.recordsTotal.WithLabelValues("processed").Add(float64(processed))
	c.recordsTotal.WithLabelValues("errored").Add(float64(errored))
	c.recordsTotal.WithLabelValues("skipped").Add(float64(skipped))
	c.batchRuns.WithLabelValues("completed").Inc()
	c.batchDuration.Observe(elapsed.Seconds())
}

// ObserveAbort records a batch run that failed before completing.
func (c *Collector) ObserveAbort() {
	if c == nil {
		return
	}
	c.batchRuns.WithLabelValues("aborted").Inc()
}
