package env

import (
	"os"
	"path/filepath"
)

// Version is stamped at build time and reported by healthz.
var Version string = "dev"

// Daemon is set when the process runs as the portal server.
var Daemon bool = false

// ListenAddress records the address the server actually bound.
var ListenAddress string = ""

// (default: %USERPROFILE%/.canvas on Windows, $HOME/.canvas on Linux)
var CanvasDir string = GetCanvasDir()

/**
 * Get canvas data directory path
 * @returns {string} Returns canvas directory path
 */
func GetCanvasDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".canvas")
}

// DefaultDownloadMap is used when no download map path is configured.
func DefaultDownloadMap() string {
	return filepath.Join(CanvasDir, "downloads.yaml")
}
