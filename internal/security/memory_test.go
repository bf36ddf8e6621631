package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroBytes(t *testing.T) {
	data := []byte("sensitive key material")
	ZeroBytes(data)
	assert.Equal(t, make([]byte, len(data)), data)

	ZeroBytes(nil)
}

func TestZeroAll(t *testing.T) {
	key := []byte{1, 2, 3}
	iv := []byte{4, 5}
	ZeroAll(key, nil, iv)
	assert.Equal(t, []byte{0, 0, 0}, key)
	assert.Equal(t, []byte{0, 0}, iv)
}

func TestConstantTimeEq(t *testing.T) {
	assert.True(t, ConstantTimeEq([]byte("abc"), []byte("abc")))
	assert.False(t, ConstantTimeEq([]byte("abc"), []byte("abd")))
	assert.False(t, ConstantTimeEq([]byte("abc"), []byte("ab")))
}
