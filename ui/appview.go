package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	appmodel "aetui/model"
	"aetui/transcript"
)

const sidebarWidth = 34

// AppView is the main chat screen: session sidebar, transcript viewport,
// and input area.
type AppView struct {
	dataModel *appmodel.Model
	renderer  *transcript.Renderer

	// UI components
	viewport       viewport.Model
	textarea       textarea.Model
	loadingSpinner spinner.Model

	// Window state
	width  int
	height int
	ready  bool

	// Session sidebar state
	focusSidebar       bool
	sessionList        []appmodel.SessionSummary
	selectedSessionIdx int
	filterMode         bool
	filterInput        textinput.Model
	filteredSessions   []appmodel.SessionSummary

	// Delete confirmation
	confirmDelete bool

	showAbout bool

	// Embedded bootstrap dialog (change resource ID); modal while non-nil.
	bootstrap *BootstrapModel

	// Navigation state carried into the first render, the equivalent of a
	// session_id query parameter. Cleared once resolved.
	initialSessionID string

	statusLine string
	errLine    string
}

// NewAppView creates the main screen. initialSessionID, when non-empty,
// selects that session on startup; a stale ID silently falls back to
// new-chat mode.
func NewAppView(dataModel *appmodel.Model, initialSessionID string) AppView {
	ta := textarea.New()
	ta.Placeholder = "Say something"
	ta.Prompt = "┃ "
	ta.CharLimit = 0
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accentColor)

	return AppView{
		dataModel:        dataModel,
		renderer:         transcript.NewRenderer(80, dataModel.Config.ChatbotName),
		textarea:         ta,
		loadingSpinner:   sp,
		filterInput:      newFilterInput(),
		initialSessionID: initialSessionID,
	}
}

func (a AppView) Init() tea.Cmd {
	// Select before fetching so the startup session is already current
	// when the sidebar first paints. Sequence keeps the two registry
	// commands off concurrent goroutines.
	sessions := a.dataModel.FetchSessionList()
	if a.initialSessionID != "" {
		sessions = tea.Sequence(a.dataModel.SelectSession(a.initialSessionID), sessions)
	}
	return tea.Batch(textarea.Blink, sessions)
}
