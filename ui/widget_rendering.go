package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"qachat/config"
	"qachat/model"
)

const (
	launcherGlyph       = "🤖"
	launcherPlaceholder = "Let's chat"
	closeButton         = " ✕ "
	windowTitle         = " Chat"

	launcherHeight = 1
	// header, separator and input rows around the message list
	windowChromeRows = 3
	minWindowRows    = windowChromeRows + 2
	// banner is dropped below this terminal height
	minBannerHeight = 18
)

const (
	bannerKicker = "Welcome to our"
	bannerTitle  = "Document Q&A Assistant"
	bannerLead   = "Get instant, accurate answers from your documents. Experience AI-powered assistance at your fingertips!"
)

type hitZone int

const (
	zoneNone hitZone = iota
	zoneLauncher
	zoneClose
)

func (a WidgetView) launcherLabel() string {
	if a.widget.IsOpen() {
		return " " + launcherGlyph + " "
	}
	return " " + launcherGlyph + " " + launcherPlaceholder + " "
}

func (a WidgetView) launcherWidth() int {
	return runewidth.StringWidth(a.launcherLabel())
}

func (a WidgetView) renderLauncher() string {
	return LauncherStyle.Render(a.launcherLabel())
}

func (a WidgetView) renderBanner() string {
	if a.height < minBannerHeight {
		return ""
	}
	lead := BannerLeadStyle.Width(max(a.width-2, 10)).Render(bannerLead)
	return lipgloss.JoinVertical(
		lipgloss.Left,
		BannerKickerStyle.Render(bannerKicker),
		BannerTitleStyle.Render(bannerTitle),
		lead,
		"",
	)
}

func (a WidgetView) bannerHeight() int {
	banner := a.renderBanner()
	if banner == "" {
		return 0
	}
	return lipgloss.Height(banner)
}

// windowSize returns the chat window size in cells, clamped to the terminal
func (a WidgetView) windowSize() (int, int) {
	w := a.cfg.WindowWidth
	if w > a.width {
		w = a.width
	}

	h := a.cfg.WindowHeight
	avail := a.height - a.bannerHeight() - launcherHeight
	if h > avail {
		h = avail
	}
	if h < minWindowRows {
		h = minWindowRows
	}
	return w, h
}

// layout sizes the viewport and input to the current window size
func (a *WidgetView) layout() {
	w, h := a.windowSize()
	a.viewport.Width = w
	a.viewport.Height = h - windowChromeRows
	// prompt plus cursor cell
	a.input.Width = max(w-runewidth.StringWidth(a.input.Prompt)-1, 1)
}

// contentWidth is the width messages are wrapped to
func (a WidgetView) contentWidth() int {
	return max(a.viewport.Width-1, 10)
}

func (a WidgetView) renderWindow() string {
	w, _ := a.windowSize()

	gap := w - runewidth.StringWidth(windowTitle) - runewidth.StringWidth(closeButton)
	if gap < 0 {
		gap = 0
	}
	header := WindowHeaderStyle.Render(windowTitle + strings.Repeat(" ", gap) + closeButton)

	separator := DimStyle.Render(strings.Repeat("─", w))
	if a.hint != "" {
		hint := runewidth.Truncate(a.hint, w, "…")
		separator = HintStyle.Render(runewidth.FillRight(hint, w))
	}

	input := lipgloss.NewStyle().Width(w).MaxHeight(1).Render(a.input.View())

	return lipgloss.JoinVertical(lipgloss.Left, header, a.viewport.View(), separator, input)
}

// hitTest maps a terminal cell to the clickable control under it
func (a WidgetView) hitTest(x, y int) hitZone {
	if y == a.height-1 && x >= a.width-a.launcherWidth() {
		return zoneLauncher
	}
	if a.widget.IsOpen() {
		_, h := a.windowSize()
		top := a.height - launcherHeight - h
		if y == top && x >= a.width-runewidth.StringWidth(closeButton) {
			return zoneClose
		}
	}
	return zoneNone
}

// updateViewportContent rebuilds the message list. gotoBottom keeps the newest entry in view.
func (a *WidgetView) updateViewportContent(gotoBottom bool) {
	if a.viewport.Width == 0 {
		return
	}

	width := a.contentWidth()
	var content strings.Builder

	if a.widget.Len() == 0 && !a.widget.IsLoading() {
		content.WriteString(DimStyle.Render("Ask a question about your documents."))
	}

	for i := 0; i < a.widget.Len(); i++ {
		entry := a.widget.Entry(i)
		timestamp := DimStyle.Render(entry.Timestamp.Format("[15:04]"))

		if entry.Origin == model.OriginUser {
			content.WriteString(formatUserMessage(timestamp, UserStyle.Render("You"), wrapText(entry.Content, width-2)))
			continue
		}

		content.WriteString(fmt.Sprintf("%s %s\n%s\n\n", timestamp, AssistantStyle.Render("Assistant"), a.entryBody(i, entry, width)))
	}

	if a.widget.IsLoading() {
		timestamp := DimStyle.Render(time.Now().Format("[15:04]"))
		content.WriteString(fmt.Sprintf("%s %s\n%s", timestamp, AssistantStyle.Render("Assistant"), a.dots.View()))
	}

	a.viewport.SetContent(strings.TrimRight(content.String(), "\n"))
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

func (a WidgetView) entryBody(index int, entry model.Entry, width int) string {
	if !entry.IsAnswer() {
		return ErrorStyle.Render(wrapText(entry.Content, width))
	}
	if rendered, ok := a.rendered[index]; ok {
		return rendered
	}
	// raw markup until the terminal rendering arrives
	return wrapText(entry.Source, width)
}

func formatUserMessage(timestamp, role, content string) string {
	bar := UserStyle.Render("┃")

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s %s %s\n", bar, timestamp, role))
	for _, line := range strings.Split(content, "\n") {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, strings.TrimRight(line, " ")))
	}
	result.WriteString("\n")

	return result.String()
}

func wrapText(s string, width int) string {
	if width < 1 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}

func (a WidgetView) renderAnswerAsync(index int, source string, width int) tea.Cmd {
	if a.renderer == nil {
		return nil
	}
	renderer := a.renderer

	return func() tea.Msg {
		start := time.Now()
		out := renderer.Terminal(source, width)
		config.Log.Debug().Int("index", index).Int("width", width).Dur("elapsed", time.Since(start)).Msg("answer rendered for terminal")
		return answerRenderedMsg{Index: index, Width: width, Rendered: out}
	}
}

// rerenderAnswers drops cached renderings and schedules every answer again
func (a *WidgetView) rerenderAnswers() tea.Cmd {
	a.rendered = make(map[int]string)
	a.renderWidth = a.contentWidth()

	var cmds []tea.Cmd
	for i := a.widget.Len() - 1; i >= 0; i-- {
		entry := a.widget.Entry(i)
		if entry.IsAnswer() {
			cmds = append(cmds, a.renderAnswerAsync(i, entry.Source, a.renderWidth))
		}
	}
	return tea.Batch(cmds...)
}
