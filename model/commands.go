package model

import (
	"context"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"aetui/config"
)

// No timeout on engine calls would hang the UI forever on a dead network,
// so non-streaming calls get a generous ceiling. Streaming deliberately
// has none: a long-running agent turn is normal.
const engineCallTimeout = 60 * time.Second

// FetchSessionList retrieves the user's session list via the registry.
func (m *Model) FetchSessionList() tea.Cmd {
	registry := m.Registry
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), engineCallTimeout)
		defer cancel()

		sessions, err := registry.Sessions(ctx)
		return SessionsListMsg{
			Sessions: sessions,
			Err:      err,
		}
	}
}

// SelectSession resolves a session ID into the current session. A stale ID
// comes back with Stale set instead of an error.
func (m *Model) SelectSession(sessionID string) tea.Cmd {
	registry := m.Registry
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), engineCallTimeout)
		defer cancel()

		session, found, err := registry.Select(ctx, sessionID)
		if err != nil {
			return SessionSelectedMsg{Err: err}
		}
		if !found {
			return SessionSelectedMsg{Stale: true}
		}
		return SessionSelectedMsg{Session: session}
	}
}

// CreateSessionCmd creates a fresh session, carrying along the message the
// user typed so the caller can send it once the session exists.
func (m *Model) CreateSessionCmd(pendingText string) tea.Cmd {
	registry := m.Registry
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), engineCallTimeout)
		defer cancel()

		session, err := registry.Create(ctx)
		return SessionCreatedMsg{
			Session:     session,
			PendingText: pendingText,
			Err:         err,
		}
	}
}

// DeleteSessionCmd deletes a session. The registry clears the selection
// and invalidates the list memo regardless of the remote outcome.
func (m *Model) DeleteSessionCmd(sessionID string) tea.Cmd {
	registry := m.Registry
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), engineCallTimeout)
		defer cancel()

		err := registry.Delete(ctx, sessionID)
		return SessionDeletedMsg{
			ID:  sessionID,
			Err: err,
		}
	}
}

type streamItem struct {
	event *Event
	err   error
}

// SendMessage starts streaming the agent's response to text. Events are
// handed over one at a time: the returned command delivers the first
// event, and the view calls AwaitStream for each subsequent one after
// rendering the previous. The channel is unbuffered so the producer cannot
// run ahead of rendering; every send also selects on the stream context so
// SwapEngine can release a producer nobody is reading anymore.
func (m *Model) SendMessage(sessionID, text string) tea.Cmd {
	ch := make(chan streamItem)
	ctx, cancel := context.WithCancel(context.Background())
	m.stream = ch
	m.streamCancel = cancel
	m.Streaming = true

	engine := m.Engine
	userID := m.UserID

	go func() {
		defer close(ch)
		defer cancel()

		if config.DebugLog != nil {
			config.DebugLog.Printf("[Stream] Starting query for session %s", sessionID)
		}

		err := engine.StreamQuery(ctx, userID, sessionID, text, func(ev Event) error {
			select {
			case ch <- streamItem{event: &ev}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil && ctx.Err() == nil {
			select {
			case ch <- streamItem{err: err}:
			case <-ctx.Done():
			}
		}
	}()

	return awaitStreamEvent(ch)
}

// AwaitStream returns a command waiting on the in-flight stream.
func (m *Model) AwaitStream() tea.Cmd {
	if m.stream == nil {
		return nil
	}
	return awaitStreamEvent(m.stream)
}

// awaitStreamEvent blocks until the next streamed event, a stream error,
// or completion.
func awaitStreamEvent(ch chan streamItem) tea.Cmd {
	return func() tea.Msg {
		item, ok := <-ch
		if !ok {
			return StreamDoneMsg{}
		}
		if item.err != nil {
			return StreamErrorMsg{Err: item.err}
		}
		return StreamEventMsg{Event: *item.event}
	}
}

// CopyLastResponse copies the text of the last agent turn to the system
// clipboard.
func (m *Model) CopyLastResponse() tea.Cmd {
	var text strings.Builder
	for i := len(m.Turns) - 1; i >= 0; i-- {
		if m.Turns[i].Role != "ai" {
			continue
		}
		for _, part := range m.Turns[i].Parts {
			if part.Text != "" {
				text.WriteString(part.Text)
			}
		}
		break
	}

	content := text.String()
	return func() tea.Msg {
		if content == "" {
			return ClipboardCopiedMsg{}
		}
		return ClipboardCopiedMsg{Err: clipboard.WriteAll(content)}
	}
}
