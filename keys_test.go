package persistx

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func base64Of(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// Cheap parameters so the tests stay fast.
func testArgon2Params() *Argon2Params {
	return &Argon2Params{
		Memory:      8192,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestKeyMaterial_Validate(t *testing.T) {
	tests := []struct {
		name    string
		km      KeyMaterial
		wantErr bool
	}{
		{"fixture", KeyMaterial{Key: testKey, IV: testIV}, false},
		{"aes-256", KeyMaterial{Key: base64Of("0123456789abcdef0123456789abcdef"), IV: testIV}, false},
		{"key not base64", KeyMaterial{Key: "???", IV: testIV}, true},
		{"iv not base64", KeyMaterial{Key: testKey, IV: "???"}, true},
		{"short key", KeyMaterial{Key: base64Of("short"), IV: testIV}, true},
		{"short iv", KeyMaterial{Key: testKey, IV: base64Of("short")}, true},
		{"empty", KeyMaterial{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.km.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrKeyFormat)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestGenerateKeyMaterial(t *testing.T) {
	for _, length := range []int{16, 24, 32} {
		km, err := GenerateKeyMaterial(length)
		require.NoError(t, err)
		require.NoError(t, km.Validate())

		key, err := base64.StdEncoding.DecodeString(km.Key)
		require.NoError(t, err)
		assert.Len(t, key, length)

		_, err = NewEncryptedJSONSerializer(km.Key, km.IV)
		assert.NoError(t, err)
	}

	a, err := GenerateKeyMaterial(DefaultKeyLength)
	require.NoError(t, err)
	b, err := GenerateKeyMaterial(DefaultKeyLength)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	_, err = GenerateKeyMaterial(20)
	assert.ErrorIs(t, err, ErrKeyFormat)
}

func TestDeriveKeyMaterial(t *testing.T) {
	params := testArgon2Params()
	salt, err := GenerateSalt(params)
	require.NoError(t, err)
	require.Len(t, salt, 16)

	first, err := DeriveKeyMaterial("correct horse battery staple", salt, params)
	require.NoError(t, err)
	require.NoError(t, first.Validate())

	again, err := DeriveKeyMaterial("correct horse battery staple", salt, params)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	other, err := DeriveKeyMaterial("another passphrase", salt, params)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)

	t.Run("empty passphrase", func(t *testing.T) {
		_, err := DeriveKeyMaterial("", salt, params)
		assert.ErrorIs(t, err, ErrKeyFormat)
	})

	t.Run("short salt", func(t *testing.T) {
		_, err := DeriveKeyMaterial("pass", salt[:8], params)
		assert.ErrorIs(t, err, ErrKeyFormat)
	})

	t.Run("invalid params", func(t *testing.T) {
		_, err := DeriveKeyMaterial("pass", salt, &Argon2Params{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "validate Argon2Params")
	})
}

func TestKeyMaterial_Equal(t *testing.T) {
	a := KeyMaterial{Key: testKey, IV: testIV}
	assert.True(t, a.Equal(KeyMaterial{Key: testKey, IV: testIV}))
	assert.False(t, a.Equal(KeyMaterial{Key: testKey, IV: testKey}))
	assert.False(t, a.Equal(KeyMaterial{}))
	assert.True(t, KeyMaterial{}.Equal(KeyMaterial{}))
}
