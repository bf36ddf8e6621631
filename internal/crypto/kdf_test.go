package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testParams struct{}

func (testParams) GetMemory() uint32     { return 8 * 1024 }
func (testParams) GetIterations() uint32 { return 1 }
func (testParams) GetParallelism() uint8 { return 1 }

func TestDeriveKeyAndIV(t *testing.T) {
	salt := []byte("0123456789abcdef")

	t.Run("lengths", func(t *testing.T) {
		for _, n := range []int{16, 24, 32} {
			key, iv, err := DeriveKeyAndIV([]byte("hunter2"), salt, n, testParams{})
			require.NoError(t, err)
			assert.Len(t, key, n)
			assert.Len(t, iv, 16)
		}
	})
	t.Run("deterministic", func(t *testing.T) {
		k1, iv1, err := DeriveKeyAndIV([]byte("hunter2"), salt, 32, testParams{})
		require.NoError(t, err)
		k2, iv2, err := DeriveKeyAndIV([]byte("hunter2"), salt, 32, testParams{})
		require.NoError(t, err)
		assert.Equal(t, k1, k2)
		assert.Equal(t, iv1, iv2)
	})
	t.Run("salt changes output", func(t *testing.T) {
		k1, _, err := DeriveKeyAndIV([]byte("hunter2"), salt, 32, testParams{})
		require.NoError(t, err)
		k2, _, err := DeriveKeyAndIV([]byte("hunter2"), []byte("fedcba9876543210"), 32, testParams{})
		require.NoError(t, err)
		assert.NotEqual(t, k1, k2)
	})
	t.Run("invalid key length", func(t *testing.T) {
		_, _, err := DeriveKeyAndIV([]byte("hunter2"), salt, 20, testParams{})
		assert.ErrorIs(t, err, ErrInvalidKeySize)
	})
	t.Run("derived material is usable", func(t *testing.T) {
		key, iv, err := DeriveKeyAndIV([]byte("hunter2"), salt, 16, testParams{})
		require.NoError(t, err)
		_, err = NewCBCCodec(key, iv)
		assert.NoError(t, err)
	})
}

func TestRandomBytes(t *testing.T) {
	a, err := RandomBytes(32)
	require.NoError(t, err)
	b, err := RandomBytes(32)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
