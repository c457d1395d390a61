package model

import (
	"context"

	"aetui/config"
	"aetui/storage"
)

// Model holds the core application data and business logic state.
type Model struct {
	// Core dependencies
	Config   *config.Config
	Engine   Engine
	Store    *storage.Store
	Registry *Registry

	// Device identity: generated once, persisted in the settings store.
	UserID string

	// Application data. Turns is the client-side transcript for the
	// current view; CurrentSession.Events stays authoritative.
	CurrentSession *Session
	Turns          []Turn

	// Runtime state (not UI)
	ShowToolCalls bool
	Streaming     bool
	Quitting      bool

	stream       chan streamItem
	streamCancel context.CancelFunc

	// Application metadata
	Version string
	License string
}

// NewModel creates a new Model wired to the given engine and store.
func NewModel(cfg *config.Config, engine Engine, store *storage.Store, userID, version, license string) *Model {
	return &Model{
		Config:   cfg,
		Engine:   engine,
		Store:    store,
		Registry: NewRegistry(engine, userID),
		UserID:   userID,
		Version:  version,
		License:  license,
	}
}

// SwapEngine replaces the engine handle after the user reconfigures the
// resource ID, resetting all session state that belonged to the old one.
// An in-flight stream against the old engine is cancelled so its producer
// goroutine can exit.
func (m *Model) SwapEngine(engine Engine) {
	if m.streamCancel != nil {
		m.streamCancel()
		m.streamCancel = nil
	}
	m.Engine = engine
	m.Registry = NewRegistry(engine, m.UserID)
	m.CurrentSession = nil
	m.Turns = nil
	m.Streaming = false
	m.stream = nil
}

// ResetTranscript drops the client-side turn cache. Called on every
// navigation between sessions; the next render rebuilds turns from the
// freshly fetched event history.
func (m *Model) ResetTranscript() {
	m.Turns = nil
}

// AppendTurn appends one displayable turn to the client-side transcript.
func (m *Model) AppendTurn(turn Turn) {
	m.Turns = append(m.Turns, turn)
}
