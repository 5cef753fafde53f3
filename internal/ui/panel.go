package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	panelBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	panelTitle = lipgloss.NewStyle().Bold(true)
)

// Panel renders a titled, bordered block. Without color it falls back to an
// undecorated title line followed by the body lines.
func Panel(title string, lines ...string) string {
	body := strings.Join(lines, "\n")
	if noColor() {
		if body == "" {
			return title
		}
		return title + "\n" + body
	}

	content := panelTitle.Render(title)
	if body != "" {
		content += "\n" + body
	}
	return panelBorder.Render(content)
}
