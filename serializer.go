package persistx

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Serializer converts values to and from the text stored in a record file.
//
// Serialize must produce text that Deserialize turns back into a value equal
// to the original, compared on exported fields. Deserialize expects target
// to be a non-nil pointer, the same way encoding/json does.
type Serializer interface {
	Serialize(v any) (string, error)
	Deserialize(data string, target any) error
}

// SerializerKind selects which Serializer a Config builds.
type SerializerKind int

const (
	// PlainText stores records as JSON.
	PlainText SerializerKind = iota
	// EncryptedText stores records as base64 AES-CBC ciphertext of the JSON.
	EncryptedText
)

// String returns the configuration name of the kind.
func (k SerializerKind) String() string {
	switch k {
	case PlainText:
		return "json"
	case EncryptedText:
		return "encrypted_json"
	default:
		return fmt.Sprintf("SerializerKind(%d)", int(k))
	}
}

// ParseSerializerKind accepts "json"/"plain"/"plaintext" and
// "encrypted_json"/"encrypted"/"encryptedtext", ignoring case. The empty
// string maps to PlainText.
func ParseSerializerKind(s string) (SerializerKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json", "plain", "plaintext", "plain_text":
		return PlainText, nil
	case "encrypted_json", "encryptedjson", "encrypted", "encryptedtext", "encrypted_text":
		return EncryptedText, nil
	default:
		return PlainText, fmt.Errorf("%w: unknown serializer %q", ErrInvalidConfiguration, s)
	}
}

// MarshalYAML writes the kind by name.
func (k SerializerKind) MarshalYAML() (any, error) {
	return k.String(), nil
}

// UnmarshalYAML reads the kind by name.
func (k *SerializerKind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseSerializerKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
