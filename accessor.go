package persistx

import (
	"context"
	"sync"
)

// The process-wide service. Initialize must be called before any of the
// package-level record functions; until then they fail with
// ErrNotInitialized rather than guessing a directory.
var (
	defaultMu      sync.RWMutex
	defaultService *Service
)

// Initialize validates cfg and installs the service it describes as the
// process-wide default, replacing any previous one. On error the previous
// service stays in place.
func Initialize(cfg Config, opts ...ServiceOption) error {
	svc, err := NewServiceFromConfig(cfg, opts...)
	if err != nil {
		return err
	}
	SetDefault(svc)
	return nil
}

// InitializeFromEnvironment is Initialize with LoadConfigFromEnvironment.
func InitializeFromEnvironment(opts ...ServiceOption) error {
	cfg, err := LoadConfigFromEnvironment()
	if err != nil {
		return err
	}
	return Initialize(cfg, opts...)
}

// InitializeFromFile is Initialize with LoadConfigFromFile.
func InitializeFromFile(path string, opts ...ServiceOption) error {
	cfg, err := LoadConfigFromFile(path)
	if err != nil {
		return err
	}
	return Initialize(cfg, opts...)
}

// SetDefault installs svc as the process-wide service. A nil svc
// uninitializes the package.
func SetDefault(svc *Service) {
	defaultMu.Lock()
	defaultService = svc
	defaultMu.Unlock()
}

// Default returns the process-wide service.
func Default() (*Service, error) {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	if defaultService == nil {
		return nil, ErrNotInitialized
	}
	return defaultService, nil
}

// Reset forgets the process-wide service.
func Reset() {
	SetDefault(nil)
}

// Save stores value under name using the process-wide service.
func Save(name string, value any, opts ...SaveOption) error {
	svc, err := Default()
	if err != nil {
		return err
	}
	return svc.Save(name, value, opts...)
}

// Load reads the record called name as a T using the process-wide service.
func Load[T any](name string) (T, error) {
	svc, err := Default()
	if err != nil {
		var zero T
		return zero, err
	}
	return LoadAs[T](svc, name)
}

// LoadInto decodes the record called name into target using the
// process-wide service.
func LoadInto(name string, target any) error {
	svc, err := Default()
	if err != nil {
		return err
	}
	return svc.Load(name, target)
}

// Delete removes the record called name using the process-wide service.
func Delete(name string) error {
	svc, err := Default()
	if err != nil {
		return err
	}
	return svc.Delete(name)
}

// DeleteAll removes every record using the process-wide service.
func DeleteAll() error {
	svc, err := Default()
	if err != nil {
		return err
	}
	return svc.DeleteAll()
}

// List returns the record names known to the process-wide service.
func List() ([]string, error) {
	svc, err := Default()
	if err != nil {
		return nil, err
	}
	return svc.List()
}

type serviceContextKey struct{}

// NewContext returns a copy of ctx carrying svc, for code that prefers an
// explicit handle over the process-wide default.
func NewContext(ctx context.Context, svc *Service) context.Context {
	return context.WithValue(ctx, serviceContextKey{}, svc)
}

// FromContext returns the service carried by ctx, falling back to the
// process-wide default.
func FromContext(ctx context.Context) (*Service, error) {
	if svc, ok := ctx.Value(serviceContextKey{}).(*Service); ok && svc != nil {
		return svc, nil
	}
	return Default()
}
