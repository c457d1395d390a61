package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"aetui/config"
	appmodel "aetui/model"
	"aetui/transcript"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.handleResize(msg)

	case BootstrapDoneMsg:
		// Reconfigured mid-run: swap the handle and start over with an
		// empty selection.
		a.dataModel.SwapEngine(msg.Client)
		a.bootstrap = nil
		a.sessionList = nil
		a.errLine = ""
		a.statusLine = "Connected to " + msg.Creds.ResourceID
		a.updateViewportContent(true)
		return a, a.dataModel.FetchSessionList()
	}

	// The bootstrap dialog is modal: while it is open it sees every
	// message except window sizing, and nothing else updates.
	if a.bootstrap != nil {
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "esc":
				a.bootstrap = nil
				return a, nil
			case "ctrl+c":
				a.dataModel.Quitting = true
				return a, tea.Quit
			}
		}
		var cmd tea.Cmd
		a.bootstrap, cmd = a.bootstrap.Update(msg)
		return a, cmd
	}

	switch msg := msg.(type) {
	case appmodel.SessionsListMsg:
		if msg.Err != nil {
			a.errLine = "Could not load sessions: " + msg.Err.Error()
			return a, nil
		}
		a.errLine = ""
		a.sessionList = msg.Sessions
		if a.selectedSessionIdx >= len(a.sessionList) {
			a.selectedSessionIdx = 0
		}
		if a.filterMode {
			a.filteredSessions = filterSessions(a.sessionList, a.filterInput.Value())
		}
		return a, nil

	case appmodel.SessionSelectedMsg:
		return a.handleSessionSelected(msg)

	case appmodel.SessionCreatedMsg:
		if msg.Err != nil {
			a.dataModel.Streaming = false
			a.errLine = "Could not create session: " + msg.Err.Error()
			return a, nil
		}
		a.dataModel.CurrentSession = msg.Session
		// The registry already holds the synthesized summary; re-reading
		// it patches the sidebar without a remote round trip.
		return a, tea.Batch(
			a.dataModel.FetchSessionList(),
			a.dataModel.SendMessage(msg.Session.ID, msg.PendingText),
			a.loadingSpinner.Tick,
		)

	case appmodel.SessionDeletedMsg:
		if msg.Err != nil {
			a.errLine = "Delete failed: " + msg.Err.Error()
		} else {
			a.statusLine = "Session deleted"
		}
		if a.dataModel.CurrentSession != nil && a.dataModel.CurrentSession.ID == msg.ID {
			a.dataModel.CurrentSession = nil
			a.dataModel.ResetTranscript()
		}
		a.updateViewportContent(true)
		return a, a.dataModel.FetchSessionList()

	case appmodel.StreamEventMsg:
		// Render this event fully before requesting the next: arrival
		// order is display order.
		if !transcript.Suppressed(msg.Event, a.dataModel.ShowToolCalls) {
			a.dataModel.AppendTurn(transcript.FromEvent(msg.Event))
			a.updateViewportContent(true)
		}
		return a, a.dataModel.AwaitStream()

	case appmodel.StreamDoneMsg:
		a.dataModel.Streaming = false
		a.updateViewportContent(true)
		// Re-fetch so the session's event history includes the exchange
		// that just streamed; renders rebuilt later stay complete.
		if a.dataModel.CurrentSession != nil {
			return a, a.dataModel.SelectSession(a.dataModel.CurrentSession.ID)
		}
		return a, nil

	case appmodel.StreamErrorMsg:
		a.dataModel.Streaming = false
		a.dataModel.AppendTurn(transcript.ErrorTurn(msg.Err))
		a.updateViewportContent(true)
		return a, nil

	case appmodel.ClipboardCopiedMsg:
		if msg.Err != nil {
			a.errLine = "Copy failed: " + msg.Err.Error()
		} else {
			a.statusLine = "Copied last response"
		}
		return a, nil

	case spinner.TickMsg:
		if !a.dataModel.Streaming {
			return a, nil
		}
		var cmd tea.Cmd
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a.updateComponents(msg)
}

func (a AppView) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	a.width = msg.Width
	a.height = msg.Height

	chatWidth := a.width - sidebarWidth
	if chatWidth < 20 {
		chatWidth = 20
	}

	if !a.ready {
		a.viewport = newViewport(chatWidth, a.chatHeight())
		a.ready = true
	} else {
		a.viewport.Width = chatWidth
		a.viewport.Height = a.chatHeight()
	}
	a.textarea.SetWidth(chatWidth - 2)
	a.renderer.SetWidth(chatWidth)
	a.updateViewportContent(false)

	if a.bootstrap != nil {
		var cmd tea.Cmd
		a.bootstrap, cmd = a.bootstrap.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a AppView) handleSessionSelected(msg appmodel.SessionSelectedMsg) (tea.Model, tea.Cmd) {
	a.initialSessionID = ""

	if msg.Err != nil {
		a.errLine = "Could not load session: " + msg.Err.Error()
		return a, nil
	}
	if msg.Stale {
		// Stale navigation reference: fall back to new-chat mode without
		// surfacing anything.
		a.dataModel.CurrentSession = nil
		a.dataModel.ResetTranscript()
		a.updateViewportContent(true)
		return a, a.dataModel.FetchSessionList()
	}

	if a.dataModel.Streaming && a.dataModel.CurrentSession != nil &&
		msg.Session.ID == a.dataModel.CurrentSession.ID {
		// Background history refresh finishing after another exchange
		// already started; keep the live transcript.
		a.dataModel.CurrentSession = msg.Session
		return a, nil
	}

	a.dataModel.CurrentSession = msg.Session
	a.dataModel.Turns = transcript.BuildTurns(msg.Session.Events, a.dataModel.ShowToolCalls)
	a.updateViewportContent(true)
	a.errLine = ""
	a.statusLine = ""
	return a, a.dataModel.FetchSessionList()
}

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.confirmDelete {
		switch msg.String() {
		case "y", "enter":
			a.confirmDelete = false
			if a.dataModel.CurrentSession != nil {
				return a, a.dataModel.DeleteSessionCmd(a.dataModel.CurrentSession.ID)
			}
			return a, nil
		default:
			a.confirmDelete = false
			return a, nil
		}
	}

	if a.showAbout {
		switch msg.String() {
		case "esc", "ctrl+a":
			a.showAbout = false
		case "ctrl+c":
			a.dataModel.Quitting = true
			return a, tea.Quit
		}
		return a, nil
	}

	switch msg.String() {
	case "ctrl+c":
		a.dataModel.Quitting = true
		return a, tea.Quit

	case "ctrl+a":
		a.showAbout = true
		return a, nil

	case "ctrl+n":
		a.dataModel.Registry.ClearCurrent()
		a.dataModel.CurrentSession = nil
		a.dataModel.ResetTranscript()
		a.statusLine = ""
		a.updateViewportContent(true)
		return a, a.dataModel.FetchSessionList()

	case "ctrl+t":
		// Toggling rebuilds turns from the session's event history, which
		// does not carry the in-flight exchange yet. Wait for the stream.
		if a.dataModel.Streaming {
			a.statusLine = "Finish the current response before toggling"
			return a, nil
		}
		a.dataModel.ShowToolCalls = !a.dataModel.ShowToolCalls
		if a.dataModel.CurrentSession != nil {
			a.dataModel.Turns = transcript.BuildTurns(a.dataModel.CurrentSession.Events, a.dataModel.ShowToolCalls)
		}
		a.updateViewportContent(true)
		return a, nil

	case "ctrl+y":
		return a, a.dataModel.CopyLastResponse()

	case "ctrl+r":
		if a.dataModel.Config.ResourceIDFromEnv {
			a.statusLine = "Resource ID is set by the environment"
			return a, nil
		}
		a.bootstrap = NewBootstrapModel(a.dataModel.Store, a.dataModel.Config, "")
		return a, a.bootstrap.Init()

	case "ctrl+d":
		if a.dataModel.CurrentSession != nil {
			a.confirmDelete = true
		}
		return a, nil

	case "tab":
		a.focusSidebar = !a.focusSidebar
		if a.focusSidebar {
			a.textarea.Blur()
		} else {
			a.filterMode = false
			a.filterInput.Reset()
			a.textarea.Focus()
		}
		return a, nil
	}

	if a.focusSidebar {
		return a.handleSidebarKey(msg)
	}
	return a.handleChatKey(msg)
}

func (a AppView) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.filterMode {
		switch msg.String() {
		case "esc":
			a.filterMode = false
			a.filterInput.Reset()
			a.selectedSessionIdx = 0
			return a, nil
		case "enter":
			return a.selectHighlighted()
		default:
			var cmd tea.Cmd
			a.filterInput, cmd = a.filterInput.Update(msg)
			a.filteredSessions = filterSessions(a.sessionList, a.filterInput.Value())
			a.selectedSessionIdx = 0
			return a, cmd
		}
	}

	switch msg.String() {
	case "j", "down":
		if a.selectedSessionIdx < len(a.visibleSessions())-1 {
			a.selectedSessionIdx++
		}
		return a, nil
	case "k", "up":
		if a.selectedSessionIdx > 0 {
			a.selectedSessionIdx--
		}
		return a, nil
	case "/":
		a.filterMode = true
		a.filteredSessions = a.sessionList
		a.selectedSessionIdx = 0
		return a, a.filterInput.Focus()
	case "enter":
		return a.selectHighlighted()
	}
	return a, nil
}

func (a AppView) selectHighlighted() (tea.Model, tea.Cmd) {
	sessions := a.visibleSessions()
	if a.selectedSessionIdx >= len(sessions) {
		return a, nil
	}
	selected := sessions[a.selectedSessionIdx]

	a.filterMode = false
	a.filterInput.Reset()
	a.focusSidebar = false
	a.textarea.Focus()
	a.dataModel.ResetTranscript()
	return a, a.dataModel.SelectSession(selected.ID)
}

func (a AppView) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		return a.submitMessage()
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

// submitMessage echoes the user's turn immediately, creating a session
// first if none is selected.
func (a AppView) submitMessage() (tea.Model, tea.Cmd) {
	if a.dataModel.Streaming {
		// One in-flight exchange at a time.
		return a, nil
	}

	text := strings.TrimSpace(a.textarea.Value())
	if text == "" {
		return a, nil
	}

	a.textarea.Reset()
	a.errLine = ""
	a.statusLine = ""
	a.dataModel.AppendTurn(transcript.UserTurn(text))
	a.updateViewportContent(true)

	if a.dataModel.CurrentSession == nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[AppView] No session selected, creating one before send")
		}
		a.dataModel.Streaming = true
		return a, tea.Batch(a.dataModel.CreateSessionCmd(text), a.loadingSpinner.Tick)
	}

	return a, tea.Batch(
		a.dataModel.SendMessage(a.dataModel.CurrentSession.ID, text),
		a.loadingSpinner.Tick,
	)
}

func (a AppView) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	a.textarea, cmd = a.textarea.Update(msg)
	cmds = append(cmds, cmd)

	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}
