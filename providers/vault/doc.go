// Package vault keeps persistx key material in the HashiCorp Vault KV v2
// engine.
//
// KVStore implements persistx.KeyProvider, so a configuration that asks
// for encrypted records but carries no key or IV can fetch them at startup:
//
//	kv, err := vault.NewKVStore(ctx, cfg.VaultPath)
//	if err != nil {
//	    return err
//	}
//	if err := cfg.ResolveKeyMaterial(ctx, kv); err != nil {
//	    return err
//	}
//	svc, err := persistx.NewServiceFromConfig(cfg)
//
// The client is configured from VAULT_ADDR, VAULT_NAMESPACE and either
// VAULT_TOKEN or VAULT_ROLE_ID plus VAULT_SECRET_ID.
//
// Both halves are stored base64-encoded under
// secret/data/persistx/{alias}/keys as the fields "key" and "iv".
package vault
