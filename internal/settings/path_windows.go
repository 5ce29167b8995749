//go:build windows

package settings

import (
	"os"
	"path/filepath"
)

// DefaultPath returns %LOCALAPPDATA%\MercuryTrade\app-config.json.
func DefaultPath() string {
	dir := os.Getenv("LOCALAPPDATA")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, "AppData", "Local")
		} else {
			dir = "."
		}
	}
	return filepath.Join(dir, "MercuryTrade", "app-config.json")
}
