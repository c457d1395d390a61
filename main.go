package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"aetui/config"
	"aetui/engine"
	"aetui/model"
	"aetui/storage"
	"aetui/ui"
)

const (
	Version = "v0.1.0"
	License = "Apache-2.0"
)

func main() {
	sessionID := flag.String("session", "", "session ID to open on startup")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.DataDir())
	if err != nil {
		fatal("Settings Store Error", err.Error())
	}
	defer store.Close()

	config.InitDebugLog(cfg.DataDir())

	userID, err := store.UserID()
	if err != nil {
		fatal("Settings Store Error", err.Error())
	}

	client, err := connect(cfg, store)
	if err != nil {
		fatal("Startup Error", err.Error())
	}
	if client == nil {
		// User quit the bootstrap dialog without configuring.
		os.Exit(0)
	}

	dataModel := model.NewModel(cfg, client, store, userID, Version, License)
	view := ui.NewAppView(dataModel, *sessionID)

	p := tea.NewProgram(
		view,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// fatal shows a dismissable error modal and exits.
func fatal(title, message string) {
	p := tea.NewProgram(ui.NewErrorModal(title, message), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %s\n", title, message)
	}
	os.Exit(1)
}

// connect obtains a validated engine handle: first from the environment,
// settings, or the stored credential bundle, falling back to the bootstrap
// dialog on any resolution failure. Returns (nil, nil) if the user quit
// the dialog.
func connect(cfg *config.Config, store *storage.Store) (*engine.Client, error) {
	creds, haveCreds := store.Credentials()

	locator := cfg.ResourceID
	if locator == "" {
		if id, ok := store.ResourceID(); ok {
			locator = id
		}
	}
	if locator == "" && haveCreds {
		locator = creds.ResourceID
	}

	resolveErr := ""
	if locator != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		client, err := engine.Resolve(ctx, locator, creds)
		cancel()
		if err == nil {
			return client, nil
		}
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Main] Resolution failed, opening bootstrap dialog: %v", err)
		}
		resolveErr = err.Error()
	}

	client, _, err := ui.RunBootstrap(store, cfg, resolveErr)
	return client, err
}
