// Package persistx saves and loads application state as one file per record.
//
// A record is any value encoding/json can handle. It is stored under
// {directory}/{name}.{extension}, either as plain JSON or as base64 text of
// the JSON encrypted with AES-CBC under a configured key and IV.
//
// # Getting Started
//
// Build a Service directly:
//
//	svc, err := persistx.NewService(persistx.JSONSerializer{}, dir, "dat")
//	if err != nil {
//	    return err
//	}
//	if err := svc.Save("profile", Profile{Level: 3, Name: "Ada"}); err != nil {
//	    return err
//	}
//	p, err := persistx.LoadAs[Profile](svc, "profile")
//
// Or configure the process-wide service once and use the package functions:
//
//	err := persistx.Initialize(persistx.Config{
//	    Serializer: persistx.EncryptedText,
//	    Key:        os.Getenv("PERSISTX_KEY"),
//	    IV:         os.Getenv("PERSISTX_IV"),
//	})
//	...
//	err = persistx.Save("profile", p)
//	p, err := persistx.Load[Profile]("profile")
//
// Package functions called before Initialize return ErrNotInitialized.
//
// # Encryption
//
// The encrypted serializer uses a fixed key and IV, so equal values always
// produce equal files. This hides save contents from casual inspection and
// makes hand-editing impractical. It is not authenticated encryption and
// does not protect against a determined attacker who holds the binary.
// Key material can be generated with GenerateKeyMaterial, derived from a
// passphrase with DeriveKeyMaterial, or fetched from HashiCorp Vault with
// the providers/vault package.
//
// # Errors
//
// Every failure wraps one of the sentinel errors in errors.go. Use errors.Is
// or the IsNotFound, IsConfigurationError and IsCorruptionError helpers.
// DeleteAll keeps going after a failure and returns an errsx.Map keyed by
// record name.
//
// # Backups
//
// The providers/s3 package copies a service's raw record files to an S3
// bucket and restores them.
package persistx
