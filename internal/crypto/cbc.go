package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"

	"github.com/hengadev/persistx/internal/security"
)

var (
	ErrInvalidKeySize        = errors.New("invalid key size")
	ErrInvalidIVSize         = errors.New("invalid iv size")
	ErrInvalidCiphertextSize = errors.New("invalid ciphertext size")
	ErrInvalidPadding        = errors.New("invalid padding")
)

// CBCCodec encrypts with AES in CBC mode under a fixed key and IV.
//
// The IV never changes for the lifetime of the codec, so identical
// plaintexts always produce identical ciphertexts.
type CBCCodec struct {
	block cipher.Block
	iv    []byte
}

// NewCBCCodec creates a codec. key must be 16, 24 or 32 bytes and iv must be
// exactly one AES block.
func NewCBCCodec(key, iv []byte) (*CBCCodec, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: expected 16, 24 or 32 bytes, got %d", ErrInvalidKeySize, len(key))
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidIVSize, aes.BlockSize, len(iv))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	return &CBCCodec{
		block: block,
		iv:    bytes.Clone(iv),
	}, nil
}

// Encrypt pads plaintext with PKCS#7 and encrypts it.
func (c *CBCCodec) Encrypt(plaintext []byte) []byte {
	padded := pkcs7Pad(plaintext, aes.BlockSize)
	defer security.ZeroBytes(padded)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, c.iv).CryptBlocks(out, padded)
	return out
}

// Decrypt reverses Encrypt. It fails when ciphertext is not block aligned or
// when the padding does not validate.
func (c *CBCCodec) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: %d is not a positive multiple of %d", ErrInvalidCiphertextSize, len(ciphertext), aes.BlockSize)
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(c.block, c.iv).CryptBlocks(out, ciphertext)
	return pkcs7Unpad(out, aes.BlockSize)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrInvalidPadding
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, ErrInvalidPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrInvalidPadding
		}
	}
	return data[:len(data)-n], nil
}
