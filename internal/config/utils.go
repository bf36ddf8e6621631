package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindProjectRoot walks up from startDir until it finds a directory holding
// go.mod and returns that directory as an absolute path.
//
// Example:
//
//	root, err := FindProjectRoot("/home/user/game/internal/save")
//	if err != nil {
//	    // not inside a Go module
//	}
//	// root might be "/home/user/game"
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found above %s", startDir)
		}
		dir = parent
	}
}

// ResolveDataDirectory returns the per-user directory an application named
// app should keep its save data in. It prefers os.UserConfigDir, then the
// enclosing Go module, then a relative dot-directory.
func ResolveDataDirectory(app string) string {
	if base, err := os.UserConfigDir(); err == nil && base != "" {
		return filepath.Join(base, app)
	}
	if cwd, err := os.Getwd(); err == nil {
		if root, err := FindProjectRoot(cwd); err == nil {
			return filepath.Join(root, "."+app)
		}
	}
	return "." + app
}
