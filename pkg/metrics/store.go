package metrics

import (
	"github.com/marmos91/envstore/pkg/store"
)

// NewStoreMetrics creates a Prometheus-backed store.Metrics registered on the
// active registry.
//
// Returns nil if metrics are not enabled (InitRegistry not called) or if the
// prometheus implementation package has not been linked in. Pass the result
// straight to store.WithMetrics:
//
//	import _ "github.com/marmos91/envstore/pkg/metrics/prometheus"
//
//	metrics.InitRegistry()
//	s, err := store.New(cfg, store.WithMetrics(metrics.NewStoreMetrics()))
func NewStoreMetrics() store.Metrics {
	if !IsEnabled() || newPrometheusStoreMetrics == nil {
		return nil
	}
	return newPrometheusStoreMetrics()
}

// newPrometheusStoreMetrics is set by pkg/metrics/prometheus during package
// initialization, keeping this package free of an import cycle.
var newPrometheusStoreMetrics func() store.Metrics

// RegisterStoreMetricsConstructor registers the Prometheus store metrics
// constructor.
func RegisterStoreMetricsConstructor(constructor func() store.Metrics) {
	newPrometheusStoreMetrics = constructor
}
