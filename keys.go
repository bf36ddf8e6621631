package persistx

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/hengadev/persistx/internal/crypto"
	"github.com/hengadev/persistx/internal/security"
)

// KeyMaterial is an AES key and IV pair in the base64 text form the
// encrypted serializer and the configuration file use.
type KeyMaterial struct {
	Key string `yaml:"key" json:"key"`
	IV  string `yaml:"iv" json:"iv"`
}

// KeyProvider fetches key material from somewhere other than the local
// configuration, for example a secrets manager.
type KeyProvider interface {
	KeyMaterial(ctx context.Context) (KeyMaterial, error)
}

// IsZero reports whether neither half is set.
func (k KeyMaterial) IsZero() bool {
	return k.Key == "" && k.IV == ""
}

// Equal reports whether k and other hold the same key and IV.
func (k KeyMaterial) Equal(other KeyMaterial) bool {
	keyEq := security.ConstantTimeEq([]byte(k.Key), []byte(other.Key))
	ivEq := security.ConstantTimeEq([]byte(k.IV), []byte(other.IV))
	return keyEq && ivEq
}

// Validate checks that both halves decode to lengths AES-CBC accepts.
func (k KeyMaterial) Validate() error {
	key, err := base64.StdEncoding.DecodeString(k.Key)
	if err != nil {
		return NewKeyFormatError("key is not valid base64", err)
	}
	iv, err := base64.StdEncoding.DecodeString(k.IV)
	if err != nil {
		return NewKeyFormatError("iv is not valid base64", err)
	}
	switch len(key) {
	case 16, 24, 32:
	default:
		return NewKeyFormatError("key", fmt.Errorf("expected 16, 24 or 32 bytes, got %d", len(key)))
	}
	if len(iv) != IVLength {
		return NewKeyFormatError("iv", fmt.Errorf("expected %d bytes, got %d", IVLength, len(iv)))
	}
	return nil
}

// GenerateKeyMaterial returns a random key of keyLength bytes (16, 24 or 32)
// and a random IV.
func GenerateKeyMaterial(keyLength int) (KeyMaterial, error) {
	switch keyLength {
	case 16, 24, 32:
	default:
		return KeyMaterial{}, NewKeyFormatError("key", fmt.Errorf("expected 16, 24 or 32 bytes, got %d", keyLength))
	}

	key, err := crypto.RandomBytes(keyLength)
	if err != nil {
		return KeyMaterial{}, err
	}
	defer security.ZeroBytes(key)
	iv, err := crypto.RandomBytes(IVLength)
	if err != nil {
		return KeyMaterial{}, err
	}
	defer security.ZeroBytes(iv)

	return KeyMaterial{
		Key: base64.StdEncoding.EncodeToString(key),
		IV:  base64.StdEncoding.EncodeToString(iv),
	}, nil
}

// GenerateSalt returns a random salt sized for params.
func GenerateSalt(params *Argon2Params) ([]byte, error) {
	if params == nil {
		params = DefaultArgon2Params()
	}
	return crypto.RandomBytes(int(params.SaltLength))
}

// DeriveKeyMaterial stretches passphrase with Argon2id. The same passphrase,
// salt and params always give the same key material, so a player can
// recover their saves on another machine by remembering the passphrase and
// keeping the salt.
func DeriveKeyMaterial(passphrase string, salt []byte, params *Argon2Params) (KeyMaterial, error) {
	if params == nil {
		params = DefaultArgon2Params()
	}
	if err := params.Validate(); err != nil {
		return KeyMaterial{}, fmt.Errorf("validate Argon2Params: %w", err)
	}
	if passphrase == "" {
		return KeyMaterial{}, NewKeyFormatError("passphrase", errors.New("passphrase is empty"))
	}
	if len(salt) < int(params.SaltLength) {
		return KeyMaterial{}, NewKeyFormatError("salt", fmt.Errorf("expected at least %d bytes, got %d", params.SaltLength, len(salt)))
	}

	secret := []byte(passphrase)
	defer security.ZeroBytes(secret)

	key, iv, err := crypto.DeriveKeyAndIV(secret, salt, int(params.KeyLength), params)
	if err != nil {
		return KeyMaterial{}, NewKeyFormatError("derive", err)
	}
	defer security.ZeroAll(key, iv)

	return KeyMaterial{
		Key: base64.StdEncoding.EncodeToString(key),
		IV:  base64.StdEncoding.EncodeToString(iv),
	}, nil
}
