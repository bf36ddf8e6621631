package persistx

import "github.com/hengadev/persistx/internal/config"

// MaxNameLength is the longest record name accepted, in bytes.
const MaxNameLength = config.MaxNameLength

// Key material constants
const (
	// IVLength is the AES block size; the IV must decode to exactly this many bytes.
	IVLength = 16

	// DefaultKeyLength selects AES-256 when generating fresh key material.
	DefaultKeyLength = 32
)

// Environment variable names
const (
	// EnvSerializer selects the serializer: "json" or "encrypted_json".
	EnvSerializer = "PERSISTX_SERIALIZER"

	// EnvFileExtension is the record file extension, without the leading dot.
	// Default: dat
	EnvFileExtension = "PERSISTX_FILE_EXTENSION"

	// EnvDirectory is the directory records are stored in.
	// Default: see DefaultDirectory
	EnvDirectory = "PERSISTX_DIRECTORY"

	// EnvKey is the base64 AES key used by the encrypted serializer.
	EnvKey = "PERSISTX_KEY"

	// EnvIV is the base64 AES initialization vector used by the encrypted serializer.
	EnvIV = "PERSISTX_IV"

	// EnvVaultPath names the Vault entry holding the key and IV, used when
	// EnvKey and EnvIV are empty.
	EnvVaultPath = "PERSISTX_VAULT_PATH"
)

// Default values
const (
	// DefaultFileExtension is the extension used when none is configured.
	DefaultFileExtension = "dat"

	// DefaultAppName names the per-user data directory.
	DefaultAppName = "persistx"

	// DefaultConfigFilename is the file the CLI reads when no path is given.
	DefaultConfigFilename = "persistx.yaml"
)

// Storage path templates for remote providers
const (
	// VaultKeyPathTemplate is the KV v2 path holding the key and IV for an alias.
	// Example: "secret/data/persistx/game-saves/keys"
	VaultKeyPathTemplate = "secret/data/persistx/%s/keys"

	// BackupObjectPrefixTemplate is the S3 key prefix of one snapshot: {prefix}/{snapshot}/
	BackupObjectPrefixTemplate = "%s/%s/"
)
