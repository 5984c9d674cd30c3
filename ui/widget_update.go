package ui

import (
	"errors"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"qachat/config"
	"qachat/model"
)

const (
	hintInFlight = "Still waiting for the previous answer..."
	hintNoAnswer = "No answer to copy yet"
	hintCopied   = "Answer copied to clipboard"
)

func (a WidgetView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true

		a.layout()
		if a.contentWidth() != a.renderWidth {
			cmds = append(cmds, a.rerenderAnswers())
		}
		a.updateViewportContent(true)
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case model.AnswerMsg:
		index := a.widget.Settle(msg)
		if entry := a.widget.Entry(index); entry.IsAnswer() {
			cmds = append(cmds, a.renderAnswerAsync(index, entry.Source, a.contentWidth()))
		}
		if !a.widget.IsLoading() {
			a.hint = ""
		}
		a.updateViewportContent(true)
		return a, tea.Batch(cmds...)

	case answerRenderedMsg:
		if msg.Width != a.contentWidth() {
			// resized while rendering; rerenderAnswers already queued a fresh one
			return a, nil
		}
		a.rendered[msg.Index] = msg.Rendered
		a.updateViewportContent(a.viewport.AtBottom())
		return a, nil

	case clipboardMsg:
		if msg.err != nil {
			config.Log.Warn().Err(msg.err).Msg("clipboard write failed")
			a.hint = "Could not copy: " + msg.err.Error()
		} else {
			a.hint = hintCopied
		}
		return a, nil

	case spinner.TickMsg:
		if !a.widget.IsLoading() {
			return a, nil
		}
		a.dots, cmd = a.dots.Update(msg)
		a.updateViewportContent(a.viewport.AtBottom())
		return a, cmd
	}

	if a.widget.IsOpen() {
		a.input, cmd = a.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

func (a WidgetView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kb := a.cfg.Keybindings
	key := msg.String()

	if key == "ctrl+c" || kb.Is("quit", key) {
		return a, tea.Quit
	}

	if a.showHelp {
		if key == "esc" || kb.Is("help", key) {
			a.showHelp = false
		}
		return a, nil
	}

	switch {
	case kb.Is("help", key):
		a.showHelp = true
		return a, nil

	case kb.Is("toggle_chat", key):
		return a.toggle()
	}

	// closed widget only listens for the launcher keys
	if !a.widget.IsOpen() {
		return a, nil
	}

	switch {
	case kb.Is("close_chat", key):
		return a.toggle()

	case kb.Is("send", key):
		return a.submit()

	case kb.Is("clear_input", key):
		a.input.Reset()
		a.widget.SetDraft("")
		return a, nil

	case kb.Is("scroll_down", key):
		a.viewport.HalfPageDown()
		return a, nil

	case kb.Is("scroll_up", key):
		a.viewport.HalfPageUp()
		return a, nil

	case kb.Is("page_down", key):
		a.viewport.PageDown()
		return a, nil

	case kb.Is("page_up", key):
		a.viewport.PageUp()
		return a, nil

	case kb.Is("scroll_to_top", key):
		a.viewport.GotoTop()
		return a, nil

	case kb.Is("scroll_to_bottom", key):
		a.viewport.GotoBottom()
		return a, nil

	case kb.Is("yank_last_answer", key):
		answer, ok := a.widget.LastAnswer()
		if !ok {
			a.hint = hintNoAnswer
			return a, nil
		}
		source := answer.Source
		return a, func() tea.Msg {
			return clipboardMsg{err: clipboard.WriteAll(source)}
		}
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	a.widget.SetDraft(a.input.Value())
	if a.hint != "" && !a.widget.IsLoading() {
		a.hint = ""
	}
	return a, cmd
}

func (a WidgetView) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.showHelp {
		return a, nil
	}

	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		switch a.hitTest(msg.X, msg.Y) {
		case zoneLauncher, zoneClose:
			return a.toggle()
		}
		return a, nil
	}

	if !a.widget.IsOpen() {
		return a, nil
	}

	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	return a, cmd
}

func (a WidgetView) toggle() (tea.Model, tea.Cmd) {
	a.widget.Toggle()
	config.Log.Debug().Bool("open", a.widget.IsOpen()).Msg("chat toggled")

	if !a.widget.IsOpen() {
		a.input.Blur()
		return a, nil
	}

	// the window may have been resized while hidden
	a.layout()
	a.updateViewportContent(true)
	return a, a.input.Focus()
}

func (a WidgetView) submit() (tea.Model, tea.Cmd) {
	a.widget.SetDraft(a.input.Value())

	cmd, err := a.widget.Submit()
	switch {
	case errors.Is(err, model.ErrEmptyDraft):
		return a, nil
	case errors.Is(err, model.ErrRequestInFlight):
		a.hint = hintInFlight
		return a, nil
	case err != nil:
		a.hint = err.Error()
		return a, nil
	}

	a.input.Reset()
	a.hint = ""
	a.updateViewportContent(true)

	return a, tea.Batch(cmd, a.dots.Tick)
}
