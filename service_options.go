package persistx

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hengadev/persistx/internal/monitoring"
)

// ServiceOption configures a Service at construction time.
type ServiceOption func(s *Service) error

// WithLogger sets the logger used for service diagnostics.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) error {
		if logger == nil {
			return fmt.Errorf("%w: logger cannot be nil", ErrInvalidConfiguration)
		}
		s.logger = logger
		return nil
	}
}

// WithFileMode sets the permission bits of written record files.
// Default: 0600
func WithFileMode(mode os.FileMode) ServiceOption {
	return func(s *Service) error {
		if mode&0o600 != 0o600 {
			return fmt.Errorf("%w: file mode %o must be readable and writable by the owner", ErrInvalidConfiguration, mode)
		}
		s.fileMode = mode.Perm()
		return nil
	}
}

// WithObservabilityHook adds a hook notified around every operation. It can
// be given more than once.
func WithObservabilityHook(hook ObservabilityHook) ServiceOption {
	return func(s *Service) error {
		if hook == nil {
			return fmt.Errorf("%w: observability hook cannot be nil", ErrInvalidConfiguration)
		}
		s.hooks = append(s.hooks, hook)
		return nil
	}
}

// WithMetricsCollector reports operation counters and timings to collector.
func WithMetricsCollector(collector MetricsCollector) ServiceOption {
	return func(s *Service) error {
		if collector == nil {
			return fmt.Errorf("%w: metrics collector cannot be nil", ErrInvalidConfiguration)
		}
		s.hooks = append(s.hooks, monitoring.NewMetricsObservabilityHook(collector))
		return nil
	}
}

// withKind records which SerializerKind built the service's serializer.
func withKind(kind SerializerKind) ServiceOption {
	return func(s *Service) error {
		s.kind = kind
		return nil
	}
}

// SaveOption tunes a single Save call.
type SaveOption func(o *saveOptions)

type saveOptions struct {
	overwrite bool
}

// WithoutOverwrite makes Save fail with ErrAlreadyExists instead of
// replacing an existing record.
func WithoutOverwrite() SaveOption {
	return func(o *saveOptions) {
		o.overwrite = false
	}
}

// WithOverwrite sets the overwrite policy explicitly.
func WithOverwrite(overwrite bool) SaveOption {
	return func(o *saveOptions) {
		o.overwrite = overwrite
	}
}
