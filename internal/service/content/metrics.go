package content

import (
	"errors"
	"time"

	"pagetree/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pagetree_operation_duration_seconds",
		Help:    "Latency of tree engine operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "outcome"})

	treeSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pagetree_tree_nodes",
		Help:    "Nodes returned per tree operation",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	}, []string{"operation"})

	brokenLinks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pagetree_broken_links_total",
		Help: "Parent references that did not resolve during a walk",
	}, []string{"operation"})
)

// observe records the latency of one operation under its outcome label
func observe(operation string, start time.Time, err error) {
	operationDuration.WithLabelValues(operation, outcome(err)).Observe(time.Since(start).Seconds())
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrConfiguration), errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrHierarchy):
		return "hierarchy"
	default:
		return "error"
	}
}
