package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qachat/config"
	"qachat/model"
	"qachat/render"
)

// WidgetView is the terminal chat widget: a page banner, a launcher in the
// bottom-right corner and, while open, the chat window above it.
type WidgetView struct {
	widget   *model.Widget
	cfg      *config.Config
	renderer render.TerminalRenderer

	// UI Components
	viewport viewport.Model
	input    textinput.Model
	dots     spinner.Model

	// Window state
	width  int
	height int
	ready  bool

	showHelp bool
	hint     string

	// Terminal renderings of answers, keyed by transcript index.
	// Invalidated when the message column changes width.
	rendered    map[int]string
	renderWidth int
}

func NewWidgetView(cfg *config.Config, widget *model.Widget, renderer render.TerminalRenderer) WidgetView {
	ti := textinput.New()
	ti.Placeholder = "Ask about your documents..."
	ti.Prompt = "> "
	ti.CharLimit = 0
	if widget.IsOpen() {
		ti.Focus()
	}

	dots := spinner.New()
	dots.Spinner = spinner.Ellipsis
	dots.Style = AssistantStyle

	return WidgetView{
		widget:   widget,
		cfg:      cfg,
		renderer: renderer,
		viewport: viewport.New(0, 0),
		input:    ti,
		dots:     dots,
		rendered: make(map[int]string),
	}
}

func (a WidgetView) Init() tea.Cmd {
	return textinput.Blink
}

func (a WidgetView) View() string {
	if !a.ready {
		return "Loading qachat..."
	}

	if a.showHelp {
		return a.renderHelpModal(a.width, a.height)
	}

	bodyHeight := max(a.height-a.bannerHeight(), 1)

	column := a.renderLauncher()
	if a.widget.IsOpen() {
		column = lipgloss.JoinVertical(lipgloss.Right, a.renderWindow(), column)
	}

	body := lipgloss.Place(a.width, bodyHeight, lipgloss.Right, lipgloss.Bottom, column)

	if banner := a.renderBanner(); banner != "" {
		return lipgloss.JoinVertical(lipgloss.Left, banner, body)
	}
	return body
}
