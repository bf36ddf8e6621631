package persistx

import (
	"log/slog"

	"github.com/hengadev/persistx/internal/monitoring"
)

// MetricsCollector receives counters and timings for record operations.
type MetricsCollector = monitoring.MetricsCollector

// ObservabilityHook is notified before and after every record operation.
type ObservabilityHook = monitoring.ObservabilityHook

// NoOpMetricsCollector discards everything.
type NoOpMetricsCollector = monitoring.NoOpMetricsCollector

// NoOpObservabilityHook does nothing.
type NoOpObservabilityHook = monitoring.NoOpObservabilityHook

// InMemoryMetricsCollector keeps metrics in memory for tests and development.
type InMemoryMetricsCollector = monitoring.InMemoryMetricsCollector

// Metric names emitted by the standard hook.
const (
	MetricOperationStarted   = monitoring.MetricOperationStarted
	MetricOperationSucceeded = monitoring.MetricOperationSucceeded
	MetricOperationFailed    = monitoring.MetricOperationFailed
	MetricOperationDuration  = monitoring.MetricOperationDuration
)

// NewInMemoryMetricsCollector creates an empty in-memory collector.
func NewInMemoryMetricsCollector() *InMemoryMetricsCollector {
	return monitoring.NewInMemoryMetricsCollector()
}

// NewStandardObservabilityHook returns a hook that feeds collector.
func NewStandardObservabilityHook(collector MetricsCollector) ObservabilityHook {
	return monitoring.NewMetricsObservabilityHook(collector)
}

// NewLoggingObservabilityHook returns a hook that logs every operation to
// logger: successes at debug level, failures at warn level.
func NewLoggingObservabilityHook(logger *slog.Logger) ObservabilityHook {
	return monitoring.NewLoggingObservabilityHook(logger)
}
