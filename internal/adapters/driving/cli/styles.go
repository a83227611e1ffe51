package cli

import "github.com/charmbracelet/lipgloss"

// Catppuccin-style palette.
var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F38BA8"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
)

func statusText(ok bool) string {
	if ok {
		return okStyle.Render("ok")
	}
	return errorStyle.Render("unavailable")
}
