package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func renderAboutModal(width, height int, chatbotName, version, license string) string {
	var sb strings.Builder

	nameStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10")).
		Bold(true).
		Align(lipgloss.Center)

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("7"))

	sb.WriteString(nameStyle.Render(chatbotName))
	sb.WriteString("\n\n")
	sb.WriteString(valueStyle.Render("Terminal chat for hosted agent engines"))
	sb.WriteString("\n\n")

	sb.WriteString(labelStyle.Render("Version: "))
	sb.WriteString(valueStyle.Render(version))
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("License: "))
	sb.WriteString(valueStyle.Render(license))
	sb.WriteString("\n\n")

	sb.WriteString(DimStyle.Render("Press Esc to close"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1, 2)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, boxStyle.Render(sb.String()))
}
