package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Settings mirrors settings.toml. All fields are optional; anything left
// empty falls through to the built-in default or the environment.
type Settings struct {
	ChatbotName   string `toml:"chatbot_name,omitempty"`
	Location      string `toml:"location,omitempty"`
	DataDirectory string `toml:"data_directory,omitempty"`
}

func DefaultSettings() *Settings {
	return &Settings{
		Location:      "us-central1",
		DataDirectory: "~/.local/share/aetui",
	}
}

func SaveSettings(settings *Settings) error {
	configDir := GetConfigDir()
	if err := EnsureDir(configDir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	settingsPath := GetSettingsFilePath()
	f, err := os.OpenFile(settingsPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create settings file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(settings); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	return nil
}

func CreateDefaultSettings() error {
	configDir := GetConfigDir()
	if err := EnsureDir(configDir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	settingsPath := GetSettingsFilePath()
	if FileExists(settingsPath) {
		return nil
	}

	content := GenerateSettingsTemplate()
	if err := os.WriteFile(settingsPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

func GenerateSettingsTemplate() string {
	return `# aetui Configuration
# Location: ~/.config/aetui/settings.toml
# This file uses TOML format: https://toml.io

# Display name shown in the sidebar header
# chatbot_name = "Agent Engine Chat"

# Google Cloud region hosting the agent engine
location = "us-central1"

# Directory where the local settings store and debug log live
data_directory = "~/.local/share/aetui"
`
}
