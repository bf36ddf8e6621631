package persistx

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessor_NotInitialized(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	_, err := Default()
	assert.ErrorIs(t, err, ErrNotInitialized)

	assert.ErrorIs(t, Save("profile", profile{}), ErrNotInitialized)
	_, err = Load[profile]("profile")
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.ErrorIs(t, LoadInto("profile", &profile{}), ErrNotInitialized)
	assert.ErrorIs(t, Delete("profile"), ErrNotInitialized)
	assert.ErrorIs(t, DeleteAll(), ErrNotInitialized)
	_, err = List()
	assert.ErrorIs(t, err, ErrNotInitialized)

	assert.True(t, IsConfigurationError(err))
}

func TestAccessor_Lifecycle(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	dir := t.TempDir()
	require.NoError(t, Initialize(Config{
		Serializer:    EncryptedText,
		FileExtension: "test",
		Directory:     dir,
		Key:           testKey,
		IV:            testIV,
	}))

	require.NoError(t, Save("profile", profile{Level: 3, Name: "Ada"}))
	require.NoError(t, Save("slot1", 1))

	got, err := Load[profile]("profile")
	require.NoError(t, err)
	assert.Equal(t, profile{Level: 3, Name: "Ada"}, got)

	var slot int
	require.NoError(t, LoadInto("slot1", &slot))
	assert.Equal(t, 1, slot)

	names, err := List()
	require.NoError(t, err)
	assert.Equal(t, []string{"profile", "slot1"}, names)

	require.NoError(t, Delete("slot1"))
	assert.ErrorIs(t, Delete("slot1"), ErrNotFound)

	require.NoError(t, DeleteAll())
	_, err = Load[profile]("profile")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccessor_FailedInitializeKeepsPrevious(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	dir := t.TempDir()
	require.NoError(t, Initialize(Config{Directory: dir}))
	first, err := Default()
	require.NoError(t, err)

	err = Initialize(Config{Serializer: EncryptedText, Directory: dir, Key: "bad", IV: testIV})
	assert.ErrorIs(t, err, ErrKeyFormat)

	current, err := Default()
	require.NoError(t, err)
	assert.Same(t, first, current)
}

func TestAccessor_InitializeFromEnvironment(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	clearEnvironment(t)

	dir := t.TempDir()
	t.Setenv(EnvDirectory, dir)
	t.Setenv(EnvFileExtension, "sav")

	require.NoError(t, InitializeFromEnvironment())
	require.NoError(t, Save("settings", map[string]int{"volume": 7}))

	svc, err := Default()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "settings.sav"), svc.Path("settings"))
}

func TestAccessor_InitializeFromFile(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	clearEnvironment(t)

	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFilename)
	require.NoError(t, SaveConfigFile(Config{Directory: filepath.Join(dir, "saves")}, path))

	require.NoError(t, InitializeFromFile(path))
	svc, err := Default()
	require.NoError(t, err)
	assert.Equal(t, DefaultFileExtension, svc.Extension())

	assert.Error(t, InitializeFromFile(filepath.Join(dir, "absent.yaml")))
}

func TestContextHandle(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	_, err := FromContext(context.Background())
	assert.ErrorIs(t, err, ErrNotInitialized)

	svc := newPlainService(t, t.TempDir(), "dat")
	ctx := NewContext(context.Background(), svc)

	got, err := FromContext(ctx)
	require.NoError(t, err)
	assert.Same(t, svc, got)

	SetDefault(svc)
	got, err = FromContext(context.Background())
	require.NoError(t, err)
	assert.Same(t, svc, got)
}
