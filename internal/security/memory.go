// Package security holds helpers for handling key bytes in memory.
//
// Sensitive data (passphrases, keys, decrypted records) should be held as
// []byte, never string, so it can be wiped with ZeroBytes when done. Go
// strings are immutable and cannot be erased.
package security

import (
	"crypto/subtle"
	"runtime"
)

// ZeroBytes overwrites data with zeros.
func ZeroBytes(data []byte) {
	if len(data) == 0 {
		return
	}
	for i := range data {
		data[i] = 0
	}
	// Keep the writes from being optimized away.
	runtime.KeepAlive(data)
}

// ZeroAll zeros every slice in data.
func ZeroAll(data ...[]byte) {
	for _, d := range data {
		ZeroBytes(d)
	}
}

// ConstantTimeEq reports whether a and b are equal without leaking where
// they differ through timing.
func ConstantTimeEq(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
