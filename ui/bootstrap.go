package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"aetui/config"
	"aetui/engine"
	"aetui/storage"
)

// BootstrapState is the dialog's state machine. While the dialog is in any
// state but Configured, nothing else renders.
type BootstrapState int

const (
	StateUnconfigured BootstrapState = iota
	StateAwaitingInput
	StateValidating
	StateConfigured
	StateError
)

const (
	fieldLocation = iota
	fieldResourceID
	fieldKeyPath
	fieldCount
)

// BootstrapModel captures the remote-resource locator and credentials. It
// runs standalone before the main UI on first use, and as a modal inside
// the app when the user changes the resource ID.
type BootstrapModel struct {
	state BootstrapState
	store *storage.Store

	inputs   [fieldCount]textinput.Model
	focusIdx int

	inlineErr string
	width     int
	height    int

	client *engine.Client
	creds  *config.Credentials
}

type bootstrapResolvedMsg struct {
	client *engine.Client
	err    error
}

// BootstrapDoneMsg is emitted into the enclosing program once validation
// succeeds and the bundle has been persisted.
type BootstrapDoneMsg struct {
	Client *engine.Client
	Creds  *config.Credentials
}

func NewBootstrapModel(store *storage.Store, cfg *config.Config, initialErr string) *BootstrapModel {
	m := &BootstrapModel{
		state:     StateUnconfigured,
		store:     store,
		inlineErr: initialErr,
	}

	location := textinput.New()
	location.Placeholder = "us-central1"
	location.Prompt = "Location     > "
	location.SetValue(cfg.Location)

	resource := textinput.New()
	resource.Placeholder = "projects/…/locations/…/reasoningEngines/…"
	resource.Prompt = "Resource ID  > "
	resource.CharLimit = 256
	if id, ok := store.ResourceID(); ok {
		resource.SetValue(id)
	} else if cfg.ResourceID != "" {
		resource.SetValue(cfg.ResourceID)
	}

	keyPath := textinput.New()
	keyPath.Placeholder = "~/keys/service-account.json"
	keyPath.Prompt = "Key file     > "
	keyPath.CharLimit = 512

	m.inputs = [fieldCount]textinput.Model{location, resource, keyPath}
	m.enterAwaitingInput()
	return m
}

// State returns the dialog's current state.
func (m *BootstrapModel) State() BootstrapState {
	return m.state
}

// Client returns the validated engine handle once Configured.
func (m *BootstrapModel) Client() *engine.Client {
	return m.client
}

// Credentials returns the validated bundle once Configured.
func (m *BootstrapModel) Credentials() *config.Credentials {
	return m.creds
}

func (m *BootstrapModel) enterAwaitingInput() {
	m.state = StateAwaitingInput
	m.focusIdx = fieldLocation
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.inputs[m.focusIdx].Focus()
}

func (m *BootstrapModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *BootstrapModel) Update(msg tea.Msg) (*BootstrapModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case bootstrapResolvedMsg:
		if msg.err != nil {
			// Error state surfaces the remote message inline and drops
			// straight back to input for resubmission.
			m.state = StateError
			m.inlineErr = msg.err.Error()
			m.enterAwaitingInput()
			return m, nil
		}
		return m.configure(msg.client)

	case tea.KeyMsg:
		if m.state == StateValidating {
			return m, nil
		}

		switch msg.String() {
		case "tab", "down":
			m.focusField((m.focusIdx + 1) % fieldCount)
			return m, nil
		case "shift+tab", "up":
			m.focusField((m.focusIdx + fieldCount - 1) % fieldCount)
			return m, nil
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focusIdx], cmd = m.inputs[m.focusIdx].Update(msg)
	return m, cmd
}

func (m *BootstrapModel) focusField(idx int) {
	m.inputs[m.focusIdx].Blur()
	m.focusIdx = idx
	m.inputs[m.focusIdx].Focus()
}

// submit checks the three mandatory fields and moves to Validating. Any
// missing or unparseable field re-enters AwaitingInput with an inline
// error instead.
func (m *BootstrapModel) submit() (*BootstrapModel, tea.Cmd) {
	location := strings.TrimSpace(m.inputs[fieldLocation].Value())
	resourceID := strings.TrimSpace(m.inputs[fieldResourceID].Value())
	keyPath := strings.TrimSpace(m.inputs[fieldKeyPath].Value())

	if location == "" || resourceID == "" || keyPath == "" {
		m.inlineErr = "location, resource ID, and key file are all required"
		m.enterAwaitingInput()
		return m, nil
	}

	key, err := config.LoadServiceAccountKey(keyPath)
	if err != nil {
		m.inlineErr = err.Error()
		m.enterAwaitingInput()
		return m, nil
	}

	creds := &config.Credentials{
		Location:           location,
		ResourceID:         resourceID,
		ServiceAccountInfo: key,
	}
	if err := creds.Validate(); err != nil {
		m.inlineErr = err.Error()
		m.enterAwaitingInput()
		return m, nil
	}

	m.state = StateValidating
	m.inlineErr = ""
	m.creds = creds
	return m, resolveCmd(creds)
}

func resolveCmd(creds *config.Credentials) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		client, err := engine.Resolve(ctx, creds.ResourceID, creds)
		return bootstrapResolvedMsg{client: client, err: err}
	}
}

// configure persists the validated bundle and unblocks the rest of the
// app.
func (m *BootstrapModel) configure(client *engine.Client) (*BootstrapModel, tea.Cmd) {
	m.state = StateConfigured
	m.client = client

	if err := m.store.SaveCredentials(m.creds); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Bootstrap] Failed to persist credentials: %v", err)
	}
	if err := m.store.SaveResourceID(m.creds.ResourceID); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Bootstrap] Failed to persist resource ID: %v", err)
	}

	done := BootstrapDoneMsg{Client: m.client, Creds: m.creds}
	return m, func() tea.Msg {
		return done
	}
}

func (m *BootstrapModel) View() string {
	if m.width < 20 || m.height < 10 {
		return "Terminal too small"
	}

	modalWidth := 70
	if m.width < modalWidth+10 {
		modalWidth = m.width - 10
	}

	title := TitleStyle.
		Align(lipgloss.Center).
		Width(modalWidth).
		Render("Connect to your Agent Engine")

	var body []string
	body = append(body, "")
	for i := range m.inputs {
		body = append(body, m.inputs[i].View())
	}
	body = append(body, "")

	switch m.state {
	case StateValidating:
		body = append(body, DimStyle.Render("Validating…"))
	default:
		if m.inlineErr != "" {
			wrapped := lipgloss.NewStyle().Width(modalWidth).Render(m.inlineErr)
			body = append(body, ErrorStyle.Render("✗ ")+wrapped)
		}
	}

	footer := DimStyle.
		Align(lipgloss.Center).
		Width(modalWidth).
		Render(FormatFooter("tab", "Next Field", "enter", "Connect", "ctrl+c", "Quit"))

	modal := lipgloss.NewStyle().
		Width(modalWidth+4).
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(body, "\n"), footer))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

// bootstrapStandalone adapts BootstrapModel to a full tea.Model so the
// dialog can run as its own program before the main UI starts.
type bootstrapStandalone struct {
	model *BootstrapModel
	done  bool
}

func (s bootstrapStandalone) Init() tea.Cmd {
	return s.model.Init()
}

func (s bootstrapStandalone) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case BootstrapDoneMsg:
		s.done = true
		return s, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return s, tea.Quit
		}
	}

	var cmd tea.Cmd
	s.model, cmd = s.model.Update(msg)
	return s, cmd
}

func (s bootstrapStandalone) View() string {
	if s.done {
		return ""
	}
	return s.model.View()
}

// RunBootstrap runs the dialog as a standalone program. It returns the
// validated handle and bundle, or (nil, nil, nil) if the user quit without
// completing.
func RunBootstrap(store *storage.Store, cfg *config.Config, initialErr string) (*engine.Client, *config.Credentials, error) {
	dialog := bootstrapStandalone{model: NewBootstrapModel(store, cfg, initialErr)}
	p := tea.NewProgram(dialog, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return nil, nil, err
	}

	result, ok := final.(bootstrapStandalone)
	if !ok || !result.done {
		return nil, nil, nil
	}
	return result.model.Client(), result.model.Credentials(), nil
}
