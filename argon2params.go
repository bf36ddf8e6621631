package persistx

import (
	"fmt"

	"github.com/hengadev/errsx"
)

// Argon2Params defines the Argon2id cost used by DeriveKeyMaterial.
type Argon2Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params returns recommended parameters for Argon2id
func DefaultArgon2Params() *Argon2Params {
	return &Argon2Params{
		Memory:      64 * 1024, // 64MB
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   DefaultKeyLength,
	}
}

func (a *Argon2Params) GetMemory() uint32     { return a.Memory }
func (a *Argon2Params) GetIterations() uint32 { return a.Iterations }
func (a *Argon2Params) GetParallelism() uint8 { return a.Parallelism }

// Validate checks every field and reports all problems at once as an
// errsx.Map keyed by field name.
func (a *Argon2Params) Validate() error {
	errs := errsx.Map{}

	if a.Memory < 8192 {
		errs.Set("memory", fmt.Errorf("memory must be at least 8192 KiB, got %d", a.Memory))
	}
	if a.Iterations < 1 {
		errs.Set("iterations", fmt.Errorf("iterations must be at least 1, got %d", a.Iterations))
	}
	if a.Parallelism < 1 {
		errs.Set("parallelism", fmt.Errorf("parallelism must be at least 1, got %d", a.Parallelism))
	}
	if a.SaltLength < 16 {
		errs.Set("saltLength", fmt.Errorf("salt length must be at least 16 bytes, got %d", a.SaltLength))
	}
	switch a.KeyLength {
	case 16, 24, 32:
	default:
		errs.Set("keyLength", fmt.Errorf("key length must be 16, 24 or 32 bytes, got %d", a.KeyLength))
	}

	return errs.AsError()
}
