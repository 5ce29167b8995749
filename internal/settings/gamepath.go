package settings

import (
	"os"
	"path/filepath"
)

// ClientLogPath is the chat log the overlay tails inside a game install.
func ClientLogPath(gameDir string) string {
	return filepath.Join(gameDir, "logs", "Client.txt")
}

// IsValidGamePath reports whether gameDir/logs/Client.txt exists.
func IsValidGamePath(gameDir string) bool {
	if gameDir == "" {
		return false
	}
	_, err := os.Stat(ClientLogPath(gameDir))
	return err == nil
}
