package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (a WidgetView) renderHelpModal(width, height int) string {
	kb := a.cfg.Keybindings

	green := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor)

	title := green.Render("qachat - Keyboard Shortcuts")

	blue := lipgloss.NewStyle().Foreground(accentColor)

	widgetActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Widget"),
		fmt.Sprintf("• %-13s Open / close chat", kb.DisplayActionKey("toggle_chat")),
		fmt.Sprintf("• %-13s Close chat", kb.DisplayActionKey("close_chat")),
		fmt.Sprintf("• %-13s Send question", kb.DisplayActionKey("send")),
		fmt.Sprintf("• %-13s Clear input", kb.DisplayActionKey("clear_input")),
		fmt.Sprintf("• %-13s Copy last answer", kb.DisplayActionKey("yank_last_answer")),
		fmt.Sprintf("• %-13s Toggle this help", kb.DisplayActionKey("help")),
		fmt.Sprintf("• %-13s Quit", kb.DisplayActionKey("quit")),
	)

	navigation := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Messages"),
		fmt.Sprintf("• %-13s Half page down", kb.DisplayActionKey("scroll_down")),
		fmt.Sprintf("• %-13s Half page up", kb.DisplayActionKey("scroll_up")),
		fmt.Sprintf("• %-13s Full page down", kb.DisplayActionKey("page_down")),
		fmt.Sprintf("• %-13s Full page up", kb.DisplayActionKey("page_up")),
		fmt.Sprintf("• %-13s Jump to top", kb.DisplayActionKey("scroll_to_top")),
		fmt.Sprintf("• %-13s Jump to bottom", kb.DisplayActionKey("scroll_to_bottom")),
	)

	tips := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Mouse"),
		"• Click the launcher to open or close",
		"• Click ✕ in the window header to close",
		"• Wheel scrolls the messages",
	)

	columnStyle := lipgloss.NewStyle().Width(40).PaddingLeft(2)

	twoColumns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(lipgloss.JoinVertical(lipgloss.Left, widgetActions, "", tips)),
		columnStyle.Render(navigation),
	)

	footer := HelpStyle.Render(fmt.Sprintf("Press %s or Esc to close this help", kb.DisplayActionKey("help")))

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		twoColumns,
		"",
		footer,
	)

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1, 2)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox.Render(content),
	)
}
