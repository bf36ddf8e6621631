package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyName        = errors.New("name is empty")
	ErrReservedName     = errors.New("name is reserved")
	ErrIllegalCharacter = errors.New("name contains an illegal character")
	ErrEmptyExtension   = errors.New("file extension is empty")
)

// MaxNameLength keeps record file names under common filesystem limits
// once the extension is appended. Existing files with longer stems are
// still listed but cannot be loaded or deleted by name.
const MaxNameLength = 200

// ValidateRecordName checks that name can be used as a single path segment.
func ValidateRecordName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrReservedName, name)
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("name must be %d characters or less, got %d", MaxNameLength, len(name))
	}
	if i := strings.IndexAny(name, "/\\\x00"); i >= 0 {
		return fmt.Errorf("%w: %q at position %d", ErrIllegalCharacter, name[i], i)
	}
	return nil
}

// NormalizeExtension strips a single leading dot and validates what is left.
// The result never carries a dot prefix.
func NormalizeExtension(ext string) (string, error) {
	ext = strings.TrimSpace(ext)
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return "", ErrEmptyExtension
	}
	if i := strings.IndexAny(ext, "/\\\x00*?["); i >= 0 {
		return "", fmt.Errorf("%w in extension %q at position %d", ErrIllegalCharacter, ext, i)
	}
	return ext, nil
}
