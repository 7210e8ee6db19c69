package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// EnsureUserConfig makes sure the engine data dir holds an editable
// config.yml, seeding it from the shipped defaults on first run. The user
// copy is what /config PUT edits; the defaults never change under it.
func EnsureUserConfig(dataDir, defaultPath string) (string, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", err
	}

	userPath := filepath.Join(dataDir, "config.yml")
	if _, err := os.Stat(userPath); err == nil {
		return userPath, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	raw, err := os.ReadFile(defaultPath)
	if err != nil {
		return "", fmt.Errorf("read default config: %w", err)
	}
	if err := os.WriteFile(userPath, raw, 0o644); err != nil {
		return "", err
	}
	return userPath, nil
}
