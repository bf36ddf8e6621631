package persistx

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticKeyProvider struct {
	km  KeyMaterial
	err error
}

func (p staticKeyProvider) KeyMaterial(ctx context.Context) (KeyMaterial, error) {
	return p.km, p.err
}

func clearEnvironment(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvSerializer, EnvFileExtension, EnvDirectory, EnvKey, EnvIV, EnvVaultPath} {
		t.Setenv(key, "")
	}
}

func TestConfig_Validate(t *testing.T) {
	dir := t.TempDir()

	t.Run("applies defaults", func(t *testing.T) {
		cfg := Config{}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, PlainText, cfg.Serializer)
		assert.Equal(t, DefaultFileExtension, cfg.FileExtension)
		assert.NotEmpty(t, cfg.Directory)
	})

	t.Run("normalizes extension", func(t *testing.T) {
		cfg := Config{FileExtension: ".sav", Directory: dir}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "sav", cfg.FileExtension)
		assert.Equal(t, dir, cfg.Directory)
	})

	t.Run("encrypted requires key material", func(t *testing.T) {
		cfg := Config{Serializer: EncryptedText, Directory: dir}
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfiguration)

		cfg.Key = testKey
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfiguration)

		cfg.IV = testIV
		assert.NoError(t, cfg.Validate())
	})

	t.Run("encrypted rejects bad key material", func(t *testing.T) {
		cfg := Config{Serializer: EncryptedText, Directory: dir, Key: "c2hvcnQ=", IV: testIV}
		assert.ErrorIs(t, cfg.Validate(), ErrKeyFormat)
	})

	t.Run("unknown serializer", func(t *testing.T) {
		cfg := Config{Serializer: SerializerKind(9), Directory: dir}
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfiguration)
	})

	t.Run("bad extension", func(t *testing.T) {
		cfg := Config{FileExtension: "a/b", Directory: dir}
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfiguration)
	})
}

func TestConfig_ResolveKeyMaterial(t *testing.T) {
	ctx := context.Background()
	provided := KeyMaterial{Key: testKey, IV: testIV}

	t.Run("fills missing material", func(t *testing.T) {
		cfg := Config{Serializer: EncryptedText}
		require.NoError(t, cfg.ResolveKeyMaterial(ctx, staticKeyProvider{km: provided}))
		assert.Equal(t, provided, cfg.KeyMaterial())
	})

	t.Run("explicit material wins", func(t *testing.T) {
		other := base64Of("anotherKey123456")
		cfg := Config{Serializer: EncryptedText, Key: other, IV: testIV}
		require.NoError(t, cfg.ResolveKeyMaterial(ctx, staticKeyProvider{km: provided}))
		assert.Equal(t, other, cfg.Key)
	})

	t.Run("plain text ignores provider", func(t *testing.T) {
		cfg := Config{Serializer: PlainText}
		require.NoError(t, cfg.ResolveKeyMaterial(ctx, staticKeyProvider{err: errors.New("unreachable")}))
		assert.True(t, cfg.KeyMaterial().IsZero())
	})

	t.Run("provider failure", func(t *testing.T) {
		cfg := Config{Serializer: EncryptedText}
		err := cfg.ResolveKeyMaterial(ctx, staticKeyProvider{err: errors.New("sealed")})
		assert.ErrorIs(t, err, ErrKeyMaterialUnavailable)
		assert.Contains(t, err.Error(), "sealed")
	})
}

func TestNewServiceFromConfig(t *testing.T) {
	dir := t.TempDir()

	svc, err := NewServiceFromConfig(Config{
		Serializer:    EncryptedText,
		FileExtension: "test",
		Directory:     dir,
		Key:           testKey,
		IV:            testIV,
	})
	require.NoError(t, err)
	assert.Equal(t, EncryptedText, svc.Kind())
	assert.Equal(t, "test", svc.Extension())
	assert.Equal(t, dir, svc.Directory())

	_, err = NewServiceFromConfig(Config{Serializer: EncryptedText, Directory: dir})
	assert.True(t, IsConfigurationError(err))
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	clearEnvironment(t)

	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfigFromEnvironment()
		require.NoError(t, err)
		assert.Equal(t, PlainText, cfg.Serializer)
		assert.Equal(t, DefaultFileExtension, cfg.FileExtension)
		assert.Empty(t, cfg.Directory)
	})

	t.Run("all variables", func(t *testing.T) {
		t.Setenv(EnvSerializer, "encrypted_json")
		t.Setenv(EnvFileExtension, "sav")
		t.Setenv(EnvDirectory, "/var/lib/game")
		t.Setenv(EnvKey, testKey)
		t.Setenv(EnvIV, testIV)
		t.Setenv(EnvVaultPath, "game-saves")

		cfg, err := LoadConfigFromEnvironment()
		require.NoError(t, err)
		assert.Equal(t, Config{
			Serializer:    EncryptedText,
			FileExtension: "sav",
			Directory:     "/var/lib/game",
			Key:           testKey,
			IV:            testIV,
			VaultPath:     "game-saves",
		}, cfg)
	})

	t.Run("unknown serializer", func(t *testing.T) {
		t.Setenv(EnvSerializer, "xml")
		_, err := LoadConfigFromEnvironment()
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
		assert.Contains(t, err.Error(), EnvSerializer)
	})
}

func TestConfigFile(t *testing.T) {
	clearEnvironment(t)
	path := filepath.Join(t.TempDir(), DefaultConfigFilename)

	want := Config{
		Serializer:    EncryptedText,
		FileExtension: "test",
		Directory:     "/tmp/saves",
		Key:           testKey,
		IV:            testIV,
	}
	require.NoError(t, SaveConfigFile(want, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := LoadConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv(EnvDirectory, "/srv/saves")
		got, err := LoadConfigFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "/srv/saves", got.Directory)
		assert.Equal(t, testKey, got.Key)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfigFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("unknown serializer in file", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("serializer: xml\n"), 0o600))
		_, err := LoadConfigFromFile(bad)
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})
}
