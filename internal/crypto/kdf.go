package crypto

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// KDFParams holds the Argon2id cost parameters used to stretch a passphrase.
type KDFParams interface {
	GetMemory() uint32
	GetIterations() uint32
	GetParallelism() uint8
}

// DeriveKeyAndIV stretches passphrase into keyLen bytes of key followed by
// one AES block of IV. The same passphrase and salt always give the same
// output.
func DeriveKeyAndIV(passphrase, salt []byte, keyLen int, params KDFParams) (key, iv []byte, err error) {
	switch keyLen {
	case 16, 24, 32:
	default:
		return nil, nil, fmt.Errorf("%w: expected 16, 24 or 32 bytes, got %d", ErrInvalidKeySize, keyLen)
	}
	out := argon2.IDKey(
		passphrase,
		salt,
		params.GetIterations(),
		params.GetMemory(),
		params.GetParallelism(),
		uint32(keyLen+16),
	)
	return out[:keyLen], out[keyLen:], nil
}

// RandomBytes returns n bytes from crypto/rand.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return b, nil
}
