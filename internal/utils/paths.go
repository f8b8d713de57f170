package utils

import (
	"os"
	"path/filepath"
)

const xdgConfigHomeVariable = "XDG_CONFIG_HOME"

// ConfigHome returns $XDG_CONFIG_HOME, falling back to ~/.config.
// An empty string is returned when neither can be determined.
func ConfigHome() string {
	if configured := os.Getenv(xdgConfigHomeVariable); configured != "" {
		return configured
	}
	homeDirectory, homeError := os.UserHomeDir()
	if homeError != nil || homeDirectory == "" {
		return ""
	}
	return filepath.Join(homeDirectory, ".config")
}
