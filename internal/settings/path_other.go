//go:build !windows

package settings

import (
	"os"
	"path/filepath"
)

// DefaultPath returns $XDG_CONFIG_HOME/mercurytrade/app-config.json.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".config")
		} else {
			dir = "."
		}
	}
	return filepath.Join(dir, "mercurytrade", "app-config.json")
}
