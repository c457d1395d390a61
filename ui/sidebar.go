package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"aetui/model"
)

// filterSessions narrows the session list by fuzzy-matching against
// session IDs.
func filterSessions(sessions []model.SessionSummary, query string) []model.SessionSummary {
	if query == "" {
		return sessions
	}

	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}

	matches := fuzzy.Find(query, ids)
	filtered := make([]model.SessionSummary, 0, len(matches))
	for _, match := range matches {
		filtered = append(filtered, sessions[match.Index])
	}
	return filtered
}

// renderSidebar renders the session list panel: chatbot header, the
// tool-call toggle state, and one entry per session in registry order with
// its relative age and new/current markers.
func (a AppView) renderSidebar(width, height int) string {
	var lines []string

	header := TitleStyle.Render(truncate(a.dataModel.Config.ChatbotName, width-2))
	lines = append(lines, header)

	toggle := "off"
	if a.dataModel.ShowToolCalls {
		toggle = "on"
	}
	lines = append(lines, DimStyle.Render(fmt.Sprintf("Function calls: %s", toggle)))
	lines = append(lines, "")

	if a.filterMode {
		lines = append(lines, a.filterInput.View())
	} else {
		lines = append(lines, DimStyle.Render("User Sessions"))
	}
	lines = append(lines, strings.Repeat("─", max(1, width-2)))

	sessions := a.visibleSessions()
	if len(sessions) == 0 {
		empty := "No sessions yet."
		if a.filterMode {
			empty = "No matches."
		}
		lines = append(lines, DimStyle.Italic(true).Render(empty))
	}

	now := time.Now()
	maxEntries := max(1, (height-len(lines)-2)/2)
	for i, session := range sessions {
		if i >= maxEntries {
			lines = append(lines, DimStyle.Render(fmt.Sprintf("… %d more", len(sessions)-maxEntries)))
			break
		}

		title := "Session " + shortID(session.ID)
		if session.IsNew {
			title += " " + NewMarkerStyle.Render("✦ new")
		}

		style := SessionStyle
		if session.IsCurrent {
			style = CurrentSessionStyle
			title = "● " + title
		}
		if a.focusSidebar && i == a.selectedSessionIdx {
			style = SelectedStyle
			title = "> " + strings.TrimPrefix(title, "● ")
		}

		lines = append(lines, style.Render(truncate(title, width-2)))
		lines = append(lines, "  "+DimStyle.Render(TimeAgo(session.LastUpdateTime, now)))
	}

	panel := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(0, 1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(dimColor)

	return panel.Render(strings.Join(lines, "\n"))
}

// visibleSessions returns the filtered list in filter mode, the full
// registry-ordered list otherwise.
func (a AppView) visibleSessions() []model.SessionSummary {
	if a.filterMode {
		return a.filteredSessions
	}
	return a.sessionList
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func truncate(s string, width int) string {
	if width <= 1 {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// newFilterInput builds the sidebar's fuzzy filter prompt.
func newFilterInput() textinput.Model {
	input := textinput.New()
	input.Placeholder = "filter sessions"
	input.Prompt = "/ "
	input.CharLimit = 64
	return input
}
