package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// GetConfigDir returns the platform-specific configuration directory
// Linux/Mac: ~/.config/aetui
// Windows: C:\Users\username\.config\aetui
func GetConfigDir() string {
	if runtime.GOOS == "windows" {
		userProfile := os.Getenv("USERPROFILE")
		return filepath.Join(userProfile, ".config", "aetui")
	}

	home := os.Getenv("HOME")
	return filepath.Join(home, ".config", "aetui")
}

// GetDefaultDataDir returns the platform-specific default data directory
// Linux/Mac: ~/.local/share/aetui
// Windows: C:\Users\username\AppData\Local\aetui
func GetDefaultDataDir() string {
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			localAppData = filepath.Join(userProfile, "AppData", "Local")
		}
		return filepath.Join(localAppData, "aetui")
	}

	home := os.Getenv("HOME")
	return filepath.Join(home, ".local", "share", "aetui")
}

// GetSettingsFilePath returns the path to settings.toml
func GetSettingsFilePath() string {
	return filepath.Join(GetConfigDir(), "settings.toml")
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates a directory (and parents) if it doesn't exist
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0700)
}

// ExpandPath expands a leading ~ to the user's home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		home := os.Getenv("HOME")
		if runtime.GOOS == "windows" && home == "" {
			home = os.Getenv("USERPROFILE")
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
