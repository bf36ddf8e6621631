package persistx

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseSerializerKind(t *testing.T) {
	tests := []struct {
		input   string
		want    SerializerKind
		wantErr bool
	}{
		{"", PlainText, false},
		{"json", PlainText, false},
		{"Plain", PlainText, false},
		{"encrypted_json", EncryptedText, false},
		{" ENCRYPTED ", EncryptedText, false},
		{"xml", PlainText, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSerializerKind(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSerializerKind_YAML(t *testing.T) {
	type doc struct {
		Kind SerializerKind `yaml:"kind"`
	}

	out, err := yaml.Marshal(doc{Kind: EncryptedText})
	require.NoError(t, err)
	assert.Equal(t, "kind: encrypted_json\n", string(out))

	var in doc
	require.NoError(t, yaml.Unmarshal([]byte("kind: json\n"), &in))
	assert.Equal(t, PlainText, in.Kind)

	err = yaml.Unmarshal([]byte("kind: protobuf\n"), &in)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestJSONSerializer(t *testing.T) {
	s := JSONSerializer{}

	t.Run("round trip", func(t *testing.T) {
		text, err := s.Serialize(profile{Level: 3, Name: "Ada"})
		require.NoError(t, err)
		assert.Equal(t, `{"level":3,"name":"Ada"}`, text)

		var got profile
		require.NoError(t, s.Deserialize(text, &got))
		assert.Equal(t, profile{Level: 3, Name: "Ada"}, got)
	})

	t.Run("malformed text", func(t *testing.T) {
		var got profile
		err := s.Deserialize(`{"level":`, &got)
		assert.ErrorIs(t, err, ErrFormat)
		assert.Contains(t, err.Error(), "persistx.profile")
	})

	t.Run("type mismatch", func(t *testing.T) {
		var got profile
		err := s.Deserialize(`{"level":"three"}`, &got)
		assert.ErrorIs(t, err, ErrFormat)
	})

	t.Run("non pointer target", func(t *testing.T) {
		var got profile
		assert.ErrorIs(t, s.Deserialize(`{}`, got), ErrUnsupportedValue)
		assert.ErrorIs(t, s.Deserialize(`{}`, nil), ErrUnsupportedValue)
	})

	t.Run("unsupported value", func(t *testing.T) {
		_, err := s.Serialize(func() {})
		assert.ErrorIs(t, err, ErrUnsupportedValue)
	})

	t.Run("invalid utf8 is replaced", func(t *testing.T) {
		text, err := s.Serialize(profile{Name: "a\xffb"})
		require.NoError(t, err)

		var got profile
		require.NoError(t, s.Deserialize(text, &got))
		assert.Equal(t, "a\uFFFDb", got.Name)
	})
}

func TestNewEncryptedJSONSerializer(t *testing.T) {
	sixteen := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef"))
	twentyFour := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef01234567"))
	thirtyTwo := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	ten := base64.StdEncoding.EncodeToString([]byte("0123456789"))

	tests := []struct {
		name    string
		key     string
		iv      string
		wantErr bool
	}{
		{"aes-128", sixteen, sixteen, false},
		{"aes-192", twentyFour, sixteen, false},
		{"aes-256", thirtyTwo, sixteen, false},
		{"fixture", testKey, testIV, false},
		{"key not base64", "not base64!", sixteen, true},
		{"iv not base64", sixteen, "%%%", true},
		{"key wrong length", ten, sixteen, true},
		{"iv wrong length", sixteen, thirtyTwo, true},
		{"empty key", "", sixteen, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewEncryptedJSONSerializer(tt.key, tt.iv)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrKeyFormat)
				assert.True(t, IsConfigurationError(err))
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, s)
		})
	}
}

func TestEncryptedJSONSerializer(t *testing.T) {
	s, err := NewEncryptedJSONSerializer(testKey, testIV)
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		text, err := s.Serialize(profile{Level: 3, Name: "Ada"})
		require.NoError(t, err)

		var got profile
		require.NoError(t, s.Deserialize(text, &got))
		assert.Equal(t, profile{Level: 3, Name: "Ada"}, got)
	})

	t.Run("deterministic", func(t *testing.T) {
		first, err := s.Serialize(profile{Level: 3, Name: "Ada"})
		require.NoError(t, err)
		second, err := s.Serialize(profile{Level: 3, Name: "Ada"})
		require.NoError(t, err)
		assert.Equal(t, first, second)

		other, err := s.Serialize(profile{Level: 4, Name: "Ada"})
		require.NoError(t, err)
		assert.NotEqual(t, first, other)
	})

	t.Run("block aligned output", func(t *testing.T) {
		// 16 bytes of JSON gain a full block of padding.
		text, err := s.Serialize("0123456789abcd")
		require.NoError(t, err)
		raw, err := base64.StdEncoding.DecodeString(text)
		require.NoError(t, err)
		assert.Len(t, raw, 32)
	})

	t.Run("not base64", func(t *testing.T) {
		var got profile
		assert.ErrorIs(t, s.Deserialize("not base64!", &got), ErrDecryption)
	})

	t.Run("truncated ciphertext", func(t *testing.T) {
		var got profile
		short := base64.StdEncoding.EncodeToString([]byte("12345"))
		assert.ErrorIs(t, s.Deserialize(short, &got), ErrDecryption)
		assert.ErrorIs(t, s.Deserialize("", &got), ErrDecryption)
	})

	t.Run("different key", func(t *testing.T) {
		text, err := s.Serialize(profile{Level: 3, Name: "Ada"})
		require.NoError(t, err)

		otherKey := base64.StdEncoding.EncodeToString([]byte("anotherKey123456"))
		other, err := NewEncryptedJSONSerializer(otherKey, testIV)
		require.NoError(t, err)

		var got profile
		err = other.Deserialize(text, &got)
		assert.True(t, IsCorruptionError(err), "unexpected error: %v", err)
	})
}
