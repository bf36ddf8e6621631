package vault

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/vault/api"
	"github.com/hengadev/persistx"
)

// Ensure KVStore implements persistx.KeyProvider.
var _ persistx.KeyProvider = (*KVStore)(nil)

// KVStore keeps the encrypted serializer's key and IV in the Vault KV v2
// engine under one alias.
type KVStore struct {
	client *api.Client
	alias  string
}

// NewKVStore creates a KVStore for alias using a client configured from
// the VAULT_* environment variables (see newClientFromEnvironment).
//
// The KV v2 engine must be enabled in Vault before use:
//
//	vault secrets enable -path=secret kv-v2
func NewKVStore(ctx context.Context, alias string) (*KVStore, error) {
	client, err := newClientFromEnvironment(ctx)
	if err != nil {
		return nil, err
	}
	return NewKVStoreWithClient(client, alias)
}

// NewKVStoreWithClient creates a KVStore for alias on an existing client.
func NewKVStoreWithClient(client *api.Client, alias string) (*KVStore, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: Vault client cannot be nil", persistx.ErrInvalidConfiguration)
	}
	alias = strings.Trim(strings.TrimSpace(alias), "/")
	if alias == "" {
		return nil, fmt.Errorf("%w: Vault alias cannot be empty", persistx.ErrInvalidConfiguration)
	}
	return &KVStore{client: client, alias: alias}, nil
}

// StoragePath returns the Vault KV v2 path of the key material.
//
// Path format: "secret/data/persistx/{alias}/keys"
//
// Note: The "/data/" segment is required for KV v2 API reads/writes.
func (k *KVStore) StoragePath() string {
	return fmt.Sprintf(persistx.VaultKeyPathTemplate, k.alias)
}

// StoreKeyMaterial validates km and writes it to Vault. An existing entry
// becomes an older version (KV v2 keeps history).
func (k *KVStore) StoreKeyMaterial(ctx context.Context, km persistx.KeyMaterial) error {
	if err := km.Validate(); err != nil {
		return err
	}

	// KV v2 requires data to be wrapped in a "data" key
	data := map[string]interface{}{
		"data": map[string]interface{}{
			"key": km.Key,
			"iv":  km.IV,
		},
	}

	if _, err := k.client.Logical().WriteWithContext(ctx, k.StoragePath(), data); err != nil {
		return fmt.Errorf("%w: failed to store key material in Vault KV: %w",
			persistx.ErrKeyMaterialUnavailable, err)
	}
	return nil
}

// KeyMaterial reads the key and IV from Vault and validates them.
func (k *KVStore) KeyMaterial(ctx context.Context) (persistx.KeyMaterial, error) {
	fields, err := k.read(ctx)
	if err != nil {
		return persistx.KeyMaterial{}, err
	}
	if fields == nil {
		return persistx.KeyMaterial{}, fmt.Errorf("%w: no key material stored for alias: %s",
			persistx.ErrKeyMaterialUnavailable, k.alias)
	}

	key, okKey := fields["key"].(string)
	iv, okIV := fields["iv"].(string)
	if !okKey || !okIV {
		return persistx.KeyMaterial{}, fmt.Errorf("%w: key or iv missing or not a string for alias: %s",
			persistx.ErrKeyMaterialUnavailable, k.alias)
	}

	km := persistx.KeyMaterial{Key: key, IV: iv}
	if err := km.Validate(); err != nil {
		return persistx.KeyMaterial{}, err
	}
	return km, nil
}

// Exists reports whether key material is stored for the alias. A missing
// secret is not an error.
func (k *KVStore) Exists(ctx context.Context) (bool, error) {
	fields, err := k.read(ctx)
	if err != nil {
		return false, err
	}
	_, ok := fields["key"].(string)
	return ok, nil
}

// read returns the inner KV v2 data map, or nil when nothing is stored.
func (k *KVStore) read(ctx context.Context) (map[string]interface{}, error) {
	secret, err := k.client.Logical().ReadWithContext(ctx, k.StoragePath())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read key material from Vault KV: %w",
			persistx.ErrKeyMaterialUnavailable, err)
	}

	// Vault returns a nil secret for "not found"
	if secret == nil || secret.Data == nil {
		return nil, nil
	}

	// KV v2 wraps the actual data in a "data" key; a deleted version has it set to null
	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, nil
	}
	return data, nil
}
