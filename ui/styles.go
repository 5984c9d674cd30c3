package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dimColor       = lipgloss.Color("7")
	accentColor    = lipgloss.Color("12")
	successColor   = lipgloss.Color("10")
	warningColor   = lipgloss.Color("11")
	dangerColor    = lipgloss.Color("9")
	highlightColor = lipgloss.Color("13")
	headerFgColor  = lipgloss.Color("15")
	headerBgColor  = lipgloss.Color("4")

	// User message style
	UserStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)
	// NO .Background() = transparent!

	// Assistant message style
	AssistantStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	// System/timestamp style
	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(dangerColor)

	HintStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Italic(true)

	// Chat window title bar
	WindowHeaderStyle = lipgloss.NewStyle().
				Foreground(headerFgColor).
				Background(headerBgColor).
				Bold(true)

	LauncherStyle = lipgloss.NewStyle().
			Foreground(headerFgColor).
			Background(headerBgColor).
			Bold(true)

	BannerKickerStyle = lipgloss.NewStyle().
				Bold(true)

	BannerTitleStyle = lipgloss.NewStyle().
				Foreground(highlightColor).
				Bold(true)

	BannerLeadStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	HelpStyle = lipgloss.NewStyle().
			Foreground(dimColor)
)

// FormatFooter formats a footer string with alternating keys and descriptions.
// Usage: FormatFooter("Enter", "Send", "Esc", "Close")
func FormatFooter(parts ...string) string {
	descStyle := lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	var result []string
	for i := 0; i < len(parts); i += 2 {
		if i+1 < len(parts) {
			result = append(result, parts[i]+" "+descStyle.Render(parts[i+1]))
		}
	}
	return strings.Join(result, "  ")
}
