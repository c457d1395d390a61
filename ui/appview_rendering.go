package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.SetContent("")
	return vp
}

// chatHeight is the viewport height: window minus title, input area, and
// status bar.
func (a AppView) chatHeight() int {
	h := a.height - a.textarea.Height() - 4
	if h < 3 {
		h = 3
	}
	return h
}

// updateViewportContent re-renders the transcript into the viewport.
func (a *AppView) updateViewportContent(gotoBottom bool) {
	if !a.ready {
		return
	}

	turns := a.dataModel.Turns
	if len(turns) == 0 {
		a.viewport.SetContent(DimStyle.Render("No messages yet. Say something to start the conversation."))
		return
	}

	content := a.renderer.RenderAll(turns)
	if a.dataModel.Streaming {
		content += "\n" + a.loadingSpinner.View() + DimStyle.Render(" thinking…")
	}

	a.viewport.SetContent(content)
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

func (a AppView) View() string {
	if a.dataModel.Quitting {
		return ""
	}
	if !a.ready {
		return "Loading…"
	}

	if a.bootstrap != nil {
		return a.bootstrap.View()
	}

	if a.showAbout {
		return renderAboutModal(a.width, a.height, a.dataModel.Config.ChatbotName, a.dataModel.Version, a.dataModel.License)
	}

	if a.confirmDelete && a.dataModel.CurrentSession != nil {
		return a.renderDeleteConfirm()
	}

	sidebar := a.renderSidebar(sidebarWidth, a.height)

	title := "New Chat"
	if a.dataModel.CurrentSession != nil {
		title = "Session " + shortID(a.dataModel.CurrentSession.ID)
	}

	chatWidth := a.width - sidebarWidth
	if chatWidth < 20 {
		chatWidth = 20
	}

	main := lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Width(chatWidth).Render(" "+title),
		a.viewport.View(),
		a.textarea.View(),
		a.statusBar(chatWidth),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)
}

func (a AppView) statusBar(width int) string {
	if a.errLine != "" {
		return ErrorStyle.Width(width).Render(" " + a.errLine)
	}

	left := a.statusLine
	if left == "" {
		left = FormatFooter(
			"enter", "Send",
			"tab", "Sessions",
			"ctrl+n", "New",
			"ctrl+t", "Calls",
			"ctrl+d", "Delete",
			"ctrl+r", "Engine",
		)
	}
	return StatusStyle.Width(width).Render(" " + left)
}

func (a AppView) renderDeleteConfirm() string {
	modalWidth := 50
	if a.width < modalWidth+10 {
		modalWidth = a.width - 10
	}

	title := ErrorStyle.
		Align(lipgloss.Center).
		Width(modalWidth).
		Render("⚠ Delete Session")

	message := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(modalWidth).
		Render("Delete session " + shortID(a.dataModel.CurrentSession.ID) + "?\n\nThis cannot be undone.")

	footer := DimStyle.
		Align(lipgloss.Center).
		Width(modalWidth).
		Render(FormatFooter("y/enter", "Delete", "esc", "Cancel"))

	modal := lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dangerColor).
		Render(strings.Join([]string{title, "", message, "", footer}, "\n"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
}
