package monitoring

import (
	"log/slog"
	"time"
)

// Metric names emitted by MetricsObservabilityHook.
const (
	MetricOperationStarted   = "persistx.operation.started"
	MetricOperationSucceeded = "persistx.operation.succeeded"
	MetricOperationFailed    = "persistx.operation.failed"
	MetricOperationDuration  = "persistx.operation.duration"
)

// ObservabilityHook is notified around every record operation.
type ObservabilityHook interface {
	// Called before the operation touches the filesystem
	OnOperationStart(operation string, record string)

	// Called after the operation completes (success or failure)
	OnOperationComplete(operation string, record string, duration time.Duration, err error)
}

// NoOpObservabilityHook is a no-op implementation of ObservabilityHook
type NoOpObservabilityHook struct{}

func (n *NoOpObservabilityHook) OnOperationStart(operation string, record string) {}
func (n *NoOpObservabilityHook) OnOperationComplete(operation string, record string, duration time.Duration, err error) {
}

// LoggingObservabilityHook logs all operations
type LoggingObservabilityHook struct {
	logger *slog.Logger
}

// NewLoggingObservabilityHook creates a new logging observability hook
func NewLoggingObservabilityHook(logger *slog.Logger) *LoggingObservabilityHook {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObservabilityHook{logger: logger}
}

func (l *LoggingObservabilityHook) OnOperationStart(operation string, record string) {
	l.logger.Debug("operation started", "operation", operation, "record", record)
}

func (l *LoggingObservabilityHook) OnOperationComplete(operation string, record string, duration time.Duration, err error) {
	if err != nil {
		l.logger.Warn("operation failed",
			"operation", operation,
			"record", record,
			"duration", duration,
			"error", err,
		)
		return
	}
	l.logger.Debug("operation completed", "operation", operation, "record", record, "duration", duration)
}

// MetricsObservabilityHook collects metrics for operations
type MetricsObservabilityHook struct {
	collector MetricsCollector
}

// NewMetricsObservabilityHook creates a new metrics observability hook
func NewMetricsObservabilityHook(collector MetricsCollector) *MetricsObservabilityHook {
	if collector == nil {
		collector = &NoOpMetricsCollector{}
	}
	return &MetricsObservabilityHook{collector: collector}
}

func (m *MetricsObservabilityHook) OnOperationStart(operation string, record string) {
	m.collector.IncrementCounter(MetricOperationStarted, map[string]string{"operation": operation})
}

func (m *MetricsObservabilityHook) OnOperationComplete(operation string, record string, duration time.Duration, err error) {
	tags := map[string]string{"operation": operation}
	m.collector.RecordTiming(MetricOperationDuration, duration, tags)
	if err != nil {
		m.collector.IncrementCounter(MetricOperationFailed, tags)
		return
	}
	m.collector.IncrementCounter(MetricOperationSucceeded, tags)
}

// MultiObservabilityHook fans out to several hooks in order.
type MultiObservabilityHook []ObservabilityHook

func (hooks MultiObservabilityHook) OnOperationStart(operation string, record string) {
	for _, h := range hooks {
		h.OnOperationStart(operation, record)
	}
}

func (hooks MultiObservabilityHook) OnOperationComplete(operation string, record string, duration time.Duration, err error) {
	for _, h := range hooks {
		h.OnOperationComplete(operation, record, duration, err)
	}
}
