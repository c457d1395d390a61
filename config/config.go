package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const DefaultChatbotName = "Agent Engine Chat"

// Config holds the resolved application configuration: defaults overlaid
// with settings.toml, overlaid with environment variables. Environment is
// read exactly once, at load time; nothing re-reads it mid-session.
type Config struct {
	ChatbotName   string
	Location      string
	ResourceID    string
	DataDirectory string

	// ResourceIDFromEnv records whether the resource ID came from the
	// environment rather than the settings store. Store-sourced IDs can
	// be changed from inside the app; env-sourced ones cannot.
	ResourceIDFromEnv bool
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyEnvOverrides() {
	if name := os.Getenv("AETUI_CHATBOT_NAME"); name != "" {
		c.ChatbotName = name
	}
	if loc := os.Getenv("AETUI_LOCATION"); loc != "" {
		c.Location = loc
	}
	if id := os.Getenv("AGENT_ENGINE_RESOURCE_ID"); id != "" {
		c.ResourceID = id
		c.ResourceIDFromEnv = true
	}
	if dataDir := os.Getenv("AETUI_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
}

func CheckDebug() bool {
	debug := os.Getenv("AETUI_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600 - the log may echo session IDs and engine responses
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (AETUI_DEBUG=%s) ===", os.Getenv("AETUI_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

// Load reads settings.toml (creating a default one if missing) and applies
// environment overrides on top.
func Load() (*Config, error) {
	cfg := &Config{
		ChatbotName:   DefaultChatbotName,
		Location:      "us-central1",
		DataDirectory: GetDefaultDataDir(),
	}

	settingsPath := GetSettingsFilePath()
	if FileExists(settingsPath) {
		settings := &Settings{}
		if _, err := toml.DecodeFile(settingsPath, settings); err != nil {
			return nil, fmt.Errorf("failed to parse settings file: %w", err)
		}
		if settings.ChatbotName != "" {
			cfg.ChatbotName = settings.ChatbotName
		}
		if settings.Location != "" {
			cfg.Location = settings.Location
		}
		if settings.DataDirectory != "" {
			cfg.DataDirectory = settings.DataDirectory
		}
	} else {
		if err := CreateDefaultSettings(); err != nil {
			return nil, fmt.Errorf("failed to create settings file: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}
