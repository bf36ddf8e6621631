package persistx

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfigFromEnvironment loads configuration from environment variables.
//
// All variables are optional; Validate applies the defaults:
//   - PERSISTX_SERIALIZER: "json" or "encrypted_json" (default: json)
//   - PERSISTX_FILE_EXTENSION: record extension (default: dat)
//   - PERSISTX_DIRECTORY: storage directory (default: DefaultDirectory())
//   - PERSISTX_KEY, PERSISTX_IV: base64 key material for encrypted_json
//   - PERSISTX_VAULT_PATH: Vault alias holding the key material
//
// Validation is left to the caller so that key material can still be
// resolved through a KeyProvider before the configuration is used.
func LoadConfigFromEnvironment() (Config, error) {
	kind, err := ParseSerializerKind(os.Getenv(EnvSerializer))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", EnvSerializer, err)
	}

	return Config{
		Serializer:    kind,
		FileExtension: getEnvOrDefault(EnvFileExtension, DefaultFileExtension),
		Directory:     os.Getenv(EnvDirectory),
		Key:           os.Getenv(EnvKey),
		IV:            os.Getenv(EnvIV),
		VaultPath:     os.Getenv(EnvVaultPath),
	}, nil
}

// LoadConfigFromFile reads a YAML configuration file. Environment variables
// that are set override the values from the file, which lets a deployment
// keep key material out of the file.
func LoadConfigFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config file not found: %s", path)
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: failed to parse config file: %w", ErrInvalidConfiguration, err)
	}

	if err := applyEnvironmentOverrides(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SaveConfigFile writes cfg as YAML. The file is created with 0600 since it
// may carry key material.
func SaveConfigFile(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func applyEnvironmentOverrides(cfg *Config) error {
	if v := os.Getenv(EnvSerializer); v != "" {
		kind, err := ParseSerializerKind(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSerializer, err)
		}
		cfg.Serializer = kind
	}
	if v := os.Getenv(EnvFileExtension); v != "" {
		cfg.FileExtension = v
	}
	if v := os.Getenv(EnvDirectory); v != "" {
		cfg.Directory = v
	}
	if v := os.Getenv(EnvKey); v != "" {
		cfg.Key = v
	}
	if v := os.Getenv(EnvIV); v != "" {
		cfg.IV = v
	}
	if v := os.Getenv(EnvVaultPath); v != "" {
		cfg.VaultPath = v
	}
	return nil
}

// getEnvOrDefault returns the value of an environment variable, or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
