// Package metrics provides Prometheus metrics collection for MapForge.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds all Prometheus metrics for the transformation engine.
type Collector struct {
	// Execution metrics
	ExecutionsTotal   *prometheus.CounterVec
	ExecutionDuration prometheus.Histogram
	ConnectionsTotal  *prometheus.CounterVec
	ExecutionIssues   prometheus.Counter

	// Schema resolver metrics
	OrderTableBuilds      prometheus.Counter
	OrderTableBuildErrors prometheus.Counter
	OrderTableCacheHits   prometheus.Counter

	// Validation metrics
	ValidationsTotal prometheus.Counter
	ViolationsTotal  *prometheus.CounterVec
}

// New creates a collector and registers its metrics with the registerer.
// Pass prometheus.DefaultRegisterer for the process-wide registry, or a
// fresh registry in tests.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		ExecutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mapforge",
				Name:      "executions_total",
				Help:      "Total number of mapping executions",
			},
			[]string{"result"},
		),
		ExecutionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "mapforge",
				Name:      "execution_duration_seconds",
				Help:      "Mapping execution duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
		),
		ConnectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mapforge",
				Name:      "connections_total",
				Help:      "Total number of executed mapping connections",
			},
			[]string{"result"},
		),
		ExecutionIssues: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "mapforge",
				Name:      "execution_issues_total",
				Help:      "Total number of per-connection execution issues",
			},
		),
		OrderTableBuilds: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "mapforge",
				Name:      "order_table_builds_total",
				Help:      "Total number of element-order table builds",
			},
		),
		OrderTableBuildErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "mapforge",
				Name:      "order_table_build_errors_total",
				Help:      "Total number of failed element-order table builds",
			},
		),
		OrderTableCacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "mapforge",
				Name:      "order_table_cache_hits_total",
				Help:      "Total number of order-table cache hits",
			},
		),
		ValidationsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "mapforge",
				Name:      "validations_total",
				Help:      "Total number of document validations",
			},
		),
		ViolationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mapforge",
				Name:      "violations_total",
				Help:      "Total number of validation violations",
			},
			[]string{"severity"},
		),
	}

	reg.MustRegister(
		c.ExecutionsTotal,
		c.ExecutionDuration,
		c.ConnectionsTotal,
		c.ExecutionIssues,
		c.OrderTableBuilds,
		c.OrderTableBuildErrors,
		c.OrderTableCacheHits,
		c.ValidationsTotal,
		c.ViolationsTotal,
	)
	return c
}
