package persistx

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/hengadev/persistx/internal/crypto"
	"github.com/hengadev/persistx/internal/security"
)

// Ensure EncryptedJSONSerializer implements Serializer interface.
var _ Serializer = (*EncryptedJSONSerializer)(nil)

// EncryptedJSONSerializer wraps JSONSerializer with AES-CBC (PKCS#7 padding)
// under a fixed key and IV, and base64-encodes the ciphertext.
//
// The IV is reused for every record, so equal values always encrypt to equal
// text and an observer can tell when two saves hold the same data. That is
// acceptable for local save files. Do not use it where the ciphertext must
// hide equality or resist an active attacker: there is no authentication
// tag, only the padding check.
type EncryptedJSONSerializer struct {
	inner JSONSerializer
	codec *crypto.CBCCodec
}

// NewEncryptedJSONSerializer decodes base64Key and base64IV and prepares the
// cipher. The key must decode to 16, 24 or 32 bytes and the IV to 16 bytes;
// anything else fails with ErrKeyFormat.
func NewEncryptedJSONSerializer(base64Key, base64IV string) (*EncryptedJSONSerializer, error) {
	key, err := base64.StdEncoding.DecodeString(base64Key)
	if err != nil {
		return nil, NewKeyFormatError("key is not valid base64", err)
	}
	defer security.ZeroBytes(key)
	iv, err := base64.StdEncoding.DecodeString(base64IV)
	if err != nil {
		return nil, NewKeyFormatError("iv is not valid base64", err)
	}
	defer security.ZeroBytes(iv)

	codec, err := crypto.NewCBCCodec(key, iv)
	if err != nil {
		switch {
		case errors.Is(err, crypto.ErrInvalidKeySize):
			return nil, NewKeyFormatError("key", err)
		case errors.Is(err, crypto.ErrInvalidIVSize):
			return nil, NewKeyFormatError("iv", err)
		default:
			return nil, fmt.Errorf("%w: %w", ErrKeyFormat, err)
		}
	}

	return &EncryptedJSONSerializer{codec: codec}, nil
}

func (s *EncryptedJSONSerializer) Serialize(v any) (string, error) {
	plain, err := s.inner.Serialize(v)
	if err != nil {
		return "", err
	}
	buf := []byte(plain)
	defer security.ZeroBytes(buf)
	return base64.StdEncoding.EncodeToString(s.codec.Encrypt(buf)), nil
}

func (s *EncryptedJSONSerializer) Deserialize(data string, target any) error {
	ciphertext, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return NewDecryptionError("base64 decode", err)
	}
	plain, err := s.codec.Decrypt(ciphertext)
	if err != nil {
		return NewDecryptionError("decrypt", err)
	}
	defer security.ZeroBytes(plain)
	return s.inner.Deserialize(string(plain), target)
}
