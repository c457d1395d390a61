package model

import "context"

// StreamFunc receives one streamed response event at a time, in arrival
// order. Returning an error stops consumption.
type StreamFunc func(Event) error

// Engine abstracts the remote agent engine.
//
// The interface lives in the model package (not engine) to avoid import
// cycles: the engine client imports model for the wire types, and model's
// registry and commands use the interface without importing engine. It
// also keeps the registry testable against a fake.
type Engine interface {
	// ListSessions returns summaries of the user's sessions, in whatever
	// order the engine chose.
	ListSessions(ctx context.Context, userID string) ([]SessionSummary, error)

	// GetSession fetches one session with its full event history.
	// A session that no longer exists returns (nil, nil): absence is a
	// stale reference, not an error.
	GetSession(ctx context.Context, userID, sessionID string) (*Session, error)

	// CreateSession creates a session and returns it with its assigned ID.
	CreateSession(ctx context.Context, userID string) (*Session, error)

	// DeleteSession deletes a session. Callers treat it as idempotent and
	// clear their own reference to the ID regardless of the outcome.
	DeleteSession(ctx context.Context, userID, sessionID string) error

	// StreamQuery sends a message and invokes fn for each response event
	// as it arrives. The stream is finite and there is no client-side
	// cancellation beyond ctx.
	StreamQuery(ctx context.Context, userID, sessionID, message string, fn StreamFunc) error
}
