package model

// Bubbletea messages produced by the commands in this package.

type SessionsListMsg struct {
	Sessions []SessionSummary
	Err      error
}

// SessionSelectedMsg reports the outcome of resolving a selected session
// ID. Stale means the engine no longer knows the ID; the view falls back
// to new-chat mode without surfacing an error.
type SessionSelectedMsg struct {
	Session *Session
	Stale   bool
	Err     error
}

type SessionCreatedMsg struct {
	Session     *Session
	PendingText string // message the user typed before the session existed
	Err         error
}

type SessionDeletedMsg struct {
	ID  string
	Err error
}

// StreamEventMsg carries one streamed response event. The view renders it,
// then issues AwaitStream again to request the next.
type StreamEventMsg struct {
	Event Event
}

type StreamDoneMsg struct{}

type StreamErrorMsg struct {
	Err error
}

type ClipboardCopiedMsg struct {
	Err error
}
