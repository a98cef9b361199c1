// Package fs locates diffchunk files on the local filesystem.
package fs

import (
	"os"
	"path/filepath"
)

// DefaultConfigPath returns the default settings file for diffchunk.
// Uses XDG_CONFIG_HOME if set, otherwise falls back to
// ~/.config/diffchunk/config.yaml.
func DefaultConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "diffchunk", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "diffchunk", "config.yaml")
}

// ReadFile reads path, treating a missing file as empty. Diffs against a
// file that does not exist yet show every line as inserted.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	return data, err
}
