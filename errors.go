package persistx

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrKeyFormat            = errors.New("invalid key material")
	ErrNotInitialized       = errors.New("persistence service not initialized")

	// Record errors
	ErrInvalidName   = errors.New("invalid record name")
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")

	// Serialization errors
	ErrFormat           = errors.New("invalid serialized format")
	ErrDecryption       = errors.New("decryption failed")
	ErrUnsupportedValue = errors.New("unsupported value")

	// Provider errors
	ErrKeyMaterialUnavailable = errors.New("key material unavailable")
	ErrBackupFailed           = errors.New("backup failed")
)

func NewInvalidNameError(name string, cause error) error {
	return fmt.Errorf("%w: '%s': %v", ErrInvalidName, name, cause)
}

func NewNotFoundError(path string) error {
	return fmt.Errorf("%w: file '%s' not found", ErrNotFound, path)
}

func NewAlreadyExistsError(path string) error {
	return fmt.Errorf("%w: file '%s' already exists and overwrite is false", ErrAlreadyExists, path)
}

func NewKeyFormatError(field string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrKeyFormat, field, cause)
}

func NewFormatError(typeName string, cause error) error {
	return fmt.Errorf("%w: cannot decode into %s: %v", ErrFormat, typeName, cause)
}

func NewDecryptionError(stage string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrDecryption, stage, cause)
}

func NewUnsupportedValueError(typeName string, cause error) error {
	return fmt.Errorf("%w: cannot encode %s: %v", ErrUnsupportedValue, typeName, cause)
}

// IsNotFound returns true if the error reports a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConfigurationError returns true if the error represents a configuration problem.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration) ||
		errors.Is(err, ErrKeyFormat) ||
		errors.Is(err, ErrNotInitialized)
}

// IsCorruptionError returns true if stored content could not be turned back
// into a value, either because it was tampered with or because it was written
// with a different serializer or key.
func IsCorruptionError(err error) bool {
	return errors.Is(err, ErrFormat) ||
		errors.Is(err, ErrDecryption)
}
