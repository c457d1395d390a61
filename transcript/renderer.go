package transcript

import (
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	"github.com/charmbracelet/lipgloss"

	"aetui/model"
)

var (
	userLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	aiLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	errorLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	// Function calls render muted, function responses in green, mirroring
	// the grey/green badge split of tool activity.
	callBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("8")).
			Padding(0, 1)

	responseBadgeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("10")).
				Padding(0, 1)
)

// Renderer renders turns for a terminal of a given width.
type Renderer struct {
	width       int
	chatbotName string
}

func NewRenderer(width int, chatbotName string) *Renderer {
	if width < 20 {
		width = 80
	}
	return &Renderer{width: width, chatbotName: chatbotName}
}

func (r *Renderer) SetWidth(width int) {
	if width >= 20 {
		r.width = width
	}
}

// RenderTurn renders one turn: a role label, then each part in order.
// Text renders as markdown, tool activity as badges. A part with no
// populated variant yields an empty entry, never an error.
func (r *Renderer) RenderTurn(turn model.Turn) string {
	var out strings.Builder
	out.WriteString(r.label(turn.Role))
	out.WriteString("\n")

	for _, part := range turn.Parts {
		switch {
		case part.Text != "":
			rendered := markdown.Render(part.Text, r.width-4, 2)
			out.Write(rendered)
			if !strings.HasSuffix(string(rendered), "\n") {
				out.WriteString("\n")
			}
		case part.FunctionCall != nil:
			out.WriteString("  " + callBadgeStyle.Render("⚙ "+part.FunctionCall.Name) + "\n")
		case part.FunctionResponse != nil:
			out.WriteString("  " + responseBadgeStyle.Render("✔ "+part.FunctionResponse.Name) + "\n")
		}
	}
	return out.String()
}

// RenderAll renders a whole transcript, turns separated by blank lines.
func (r *Renderer) RenderAll(turns []model.Turn) string {
	rendered := make([]string, 0, len(turns))
	for _, turn := range turns {
		rendered = append(rendered, r.RenderTurn(turn))
	}
	return strings.Join(rendered, "\n")
}

func (r *Renderer) label(role string) string {
	switch role {
	case "ai":
		name := r.chatbotName
		if name == "" {
			name = "Agent"
		}
		return aiLabelStyle.Render(name)
	case "error":
		return errorLabelStyle.Render("Error")
	default:
		return userLabelStyle.Render("You")
	}
}
