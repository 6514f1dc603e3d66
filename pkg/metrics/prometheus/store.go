// Package prometheus implements the envstore metrics interfaces with
// client_golang collectors. Importing it registers its constructors with
// pkg/metrics.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/envstore/pkg/metrics"
	"github.com/marmos91/envstore/pkg/store"
)

func init() {
	metrics.RegisterStoreMetricsConstructor(func() store.Metrics {
		return NewStoreMetrics(metrics.GetRegistry())
	})
}

// storeMetrics is the Prometheus implementation of store.Metrics.
type storeMetrics struct {
	operations      *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	schemaRecovered prometheus.Counter
}

// NewStoreMetrics registers the store collectors on reg and returns a
// store.Metrics recording into them. A nil reg returns nil.
func NewStoreMetrics(reg prometheus.Registerer) store.Metrics {
	if reg == nil {
		return nil
	}

	return &storeMetrics{
		operations: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "envstore_store_operations_total",
				Help: "Total number of store operations by operation and status",
			},
			[]string{"operation", "status"}, // status: "success", "error"
		),
		duration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "envstore_store_operation_duration_milliseconds",
				Help: "Duration of store operations in milliseconds",
				Buckets: []float64{
					0.1, // 100us - cached page reads
					0.5, // 500us
					1,   // 1ms
					5,   // 5ms
					10,  // 10ms
					50,  // 50ms - fsync on commit
					100, // 100ms
					500, // 500ms
					1000,
					5000, // busy timeout
				},
			},
			[]string{"operation"},
		),
		schemaRecovered: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "envstore_store_schema_recoveries_total",
				Help: "Reads that found the config table missing and recreated the schema",
			},
		),
	}
}

func (m *storeMetrics) ObserveOperation(operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.operations.WithLabelValues(operation, status).Inc()
	m.duration.WithLabelValues(operation).Observe(float64(duration.Microseconds()) / 1000.0)
}

func (m *storeMetrics) RecordSchemaRecovery() {
	m.schemaRecovered.Inc()
}
