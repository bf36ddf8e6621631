package persistx

import (
	"context"
	"fmt"

	"github.com/hengadev/persistx/internal/config"
)

// Config holds everything needed to build a Service.
//
// This struct contains only data, no behavior beyond validation. It can be
// loaded from environment variables, a YAML file, or filled in by code, and
// is then passed to NewServiceFromConfig or Initialize.
//
// Example usage:
//
//	cfg := persistx.Config{
//	    Serializer:    persistx.EncryptedText,
//	    FileExtension: "sav",
//	    Key:           "bW9ja0tleUhlcmUxMjM0NQ==",
//	    IV:            "bW9ja0lWMTIzNDU2Nzg5MA==",
//	}
//
//	if err := persistx.Initialize(cfg); err != nil {
//	    log.Fatal(err)
//	}
type Config struct {
	// Serializer selects plain JSON or encrypted JSON.
	//
	// Optional field. Default: PlainText
	Serializer SerializerKind `yaml:"serializer"`

	// FileExtension is appended to every record name. A leading dot is
	// stripped.
	//
	// Optional field. Default: dat
	FileExtension string `yaml:"file_extension"`

	// Directory is where record files live. It is created on first save.
	//
	// Optional field. Default: DefaultDirectory()
	Directory string `yaml:"directory"`

	// Key is the base64 AES key. Required iff Serializer is EncryptedText,
	// unless VaultPath resolves it.
	Key string `yaml:"key,omitempty"`

	// IV is the base64 AES initialization vector. Required iff Serializer is
	// EncryptedText, unless VaultPath resolves it.
	IV string `yaml:"iv,omitempty"`

	// VaultPath is the alias under which the key and IV are kept in Vault.
	// Only consulted by callers that resolve key material through a
	// KeyProvider (the CLI does).
	//
	// Optional field.
	VaultPath string `yaml:"vault_path,omitempty"`
}

// DefaultDirectory returns the per-user save directory: the OS config
// directory joined with "persistx", falling back to ".persistx" under the
// enclosing Go module or the working directory.
func DefaultDirectory() string {
	return config.ResolveDataDirectory(DefaultAppName)
}

// DefaultConfig returns a plain-text configuration with every default applied.
func DefaultConfig() Config {
	return Config{
		Serializer:    PlainText,
		FileExtension: DefaultFileExtension,
		Directory:     DefaultDirectory(),
	}
}

// Validate checks that the configuration is usable and applies defaults to
// optional fields.
//
// Returns an error wrapping ErrInvalidConfiguration or ErrKeyFormat.
func (c *Config) Validate() error {
	switch c.Serializer {
	case PlainText, EncryptedText:
	default:
		return fmt.Errorf("%w: unknown serializer %s", ErrInvalidConfiguration, c.Serializer)
	}

	if c.FileExtension == "" {
		c.FileExtension = DefaultFileExtension
	}
	ext, err := config.NormalizeExtension(c.FileExtension)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	c.FileExtension = ext

	if c.Directory == "" {
		c.Directory = DefaultDirectory()
	}

	if c.Serializer == EncryptedText {
		if c.Key == "" || c.IV == "" {
			return fmt.Errorf("%w: key and iv are required for the %s serializer", ErrInvalidConfiguration, EncryptedText)
		}
		if err := c.KeyMaterial().Validate(); err != nil {
			return err
		}
	}

	return nil
}

// KeyMaterial returns the configured key and IV.
func (c *Config) KeyMaterial() KeyMaterial {
	return KeyMaterial{Key: c.Key, IV: c.IV}
}

// ResolveKeyMaterial fills Key and IV from provider when the configuration
// asks for encryption but carries no key material of its own. Explicit
// values always win.
func (c *Config) ResolveKeyMaterial(ctx context.Context, provider KeyProvider) error {
	if c.Serializer != EncryptedText || !c.KeyMaterial().IsZero() || provider == nil {
		return nil
	}
	km, err := provider.KeyMaterial(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrKeyMaterialUnavailable, err)
	}
	c.Key, c.IV = km.Key, km.IV
	return nil
}

// NewSerializer builds the serializer selected by the configuration.
func (c *Config) NewSerializer() (Serializer, error) {
	switch c.Serializer {
	case PlainText:
		return JSONSerializer{}, nil
	case EncryptedText:
		return NewEncryptedJSONSerializer(c.Key, c.IV)
	default:
		return nil, fmt.Errorf("%w: unknown serializer %s", ErrInvalidConfiguration, c.Serializer)
	}
}

// NewServiceFromConfig validates cfg and builds the serializer and service
// it describes.
func NewServiceFromConfig(cfg Config, opts ...ServiceOption) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	serializer, err := cfg.NewSerializer()
	if err != nil {
		return nil, err
	}
	opts = append([]ServiceOption{withKind(cfg.Serializer)}, opts...)
	return NewService(serializer, cfg.Directory, cfg.FileExtension, opts...)
}
