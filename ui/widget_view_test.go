package ui

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qachat/config"
	"qachat/model"
	"qachat/model/testutil"
)

type stubRenderer struct{}

func (stubRenderer) Terminal(markup string, width int) string {
	return "TERM:" + markup
}

func testConfig() *config.Config {
	return &config.Config{
		WindowWidth:  60,
		WindowHeight: 22,
		SingleFlight: true,
		Keybindings:  config.DefaultKeybindings(),
	}
}

func newTestView(t *testing.T, open bool) WidgetView {
	t.Helper()
	cfg := testConfig()
	w := model.NewWidget(testutil.NewMockAsker("**hi**"), testutil.EchoRenderer{}, model.Options{
		StartOpen:    open,
		SingleFlight: cfg.SingleFlight,
	})
	v := NewWidgetView(cfg, w, stubRenderer{})
	return update(t, v, tea.WindowSizeMsg{Width: 100, Height: 40})
}

func update(t *testing.T, v WidgetView, msg tea.Msg) WidgetView {
	t.Helper()
	m, _ := v.Update(msg)
	out, ok := m.(WidgetView)
	require.True(t, ok)
	return out
}

func altKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true}
}

func typeText(t *testing.T, v WidgetView, s string) WidgetView {
	t.Helper()
	return update(t, v, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func enter() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

// collect runs cmd and flattens batches into their messages
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestViewBeforeResize(t *testing.T) {
	cfg := testConfig()
	w := model.NewWidget(nil, testutil.EchoRenderer{}, model.Options{StartOpen: true})
	v := NewWidgetView(cfg, w, stubRenderer{})
	assert.Equal(t, "Loading qachat...", v.View())
}

func TestToggleKey(t *testing.T) {
	v := newTestView(t, true)
	require.True(t, v.widget.IsOpen())

	v = update(t, v, altKey('c'))
	assert.False(t, v.widget.IsOpen())

	v = update(t, v, altKey('c'))
	assert.True(t, v.widget.IsOpen())
}

func TestEscClosesWindow(t *testing.T) {
	v := newTestView(t, true)
	v = update(t, v, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, v.widget.IsOpen())

	// esc does not reopen
	v = update(t, v, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, v.widget.IsOpen())
}

func TestLauncherPlaceholderOnlyWhenClosed(t *testing.T) {
	v := newTestView(t, true)
	view := v.View()
	assert.NotContains(t, view, "Let's chat")
	assert.Contains(t, view, "Chat")
	assert.Contains(t, view, "✕")
	assert.Contains(t, view, "Document Q&A Assistant")

	v = update(t, v, altKey('c'))
	view = v.View()
	assert.Contains(t, view, "Let's chat")
	assert.NotContains(t, view, "✕")
}

func TestTypingUpdatesDraft(t *testing.T) {
	v := newTestView(t, true)
	v = typeText(t, v, "where is the index?")
	assert.Equal(t, "where is the index?", v.widget.Draft())
}

func TestClosedWidgetIgnoresTyping(t *testing.T) {
	v := newTestView(t, false)
	v = typeText(t, v, "hello")
	v = update(t, v, enter())
	assert.Empty(t, v.widget.Draft())
	assert.Equal(t, 0, v.widget.Len())
}

func TestBlankEnterIsNoop(t *testing.T) {
	v := newTestView(t, true)
	v = typeText(t, v, "   ")

	m, cmd := v.Update(enter())
	v = m.(WidgetView)

	assert.Nil(t, cmd)
	assert.Equal(t, 0, v.widget.Len())
	assert.False(t, v.widget.IsLoading())
}

func TestSubmitAndSettle(t *testing.T) {
	v := newTestView(t, true)
	v = typeText(t, v, "X")

	m, cmd := v.Update(enter())
	v = m.(WidgetView)
	require.NotNil(t, cmd)

	assert.Equal(t, 1, v.widget.Len())
	assert.True(t, v.widget.IsLoading())
	assert.Empty(t, v.input.Value())
	assert.Empty(t, v.widget.Draft())

	var answer model.AnswerMsg
	for _, msg := range collect(cmd) {
		if a, ok := msg.(model.AnswerMsg); ok {
			answer = a
		}
	}
	require.Equal(t, "**hi**", answer.Data)

	m, cmd = v.Update(answer)
	v = m.(WidgetView)
	assert.Equal(t, 2, v.widget.Len())
	assert.False(t, v.widget.IsLoading())
	assert.Equal(t, "<rendered>**hi**</rendered>", v.widget.Entry(1).Content)
	assert.Equal(t, "**hi**", v.widget.Entry(1).Source, "the view renders the raw markup, not the HTML")

	for _, msg := range collect(cmd) {
		v = update(t, v, msg)
	}
	assert.Equal(t, "TERM:**hi**", v.rendered[1])
	assert.Contains(t, v.View(), "TERM:**hi**")
}

func TestFailedAnswerShowsErrorReply(t *testing.T) {
	v := newTestView(t, true)
	v = typeText(t, v, "X")
	v = update(t, v, enter())

	v = update(t, v, model.AnswerMsg{Err: errors.New("connection refused")})
	assert.False(t, v.widget.IsLoading())
	assert.Contains(t, v.View(), model.ErrorReply)
}

func TestSubmitWhileLoadingShowsHint(t *testing.T) {
	v := newTestView(t, true)
	v = typeText(t, v, "first")
	v = update(t, v, enter())
	require.True(t, v.widget.IsLoading())

	v = typeText(t, v, "second")
	m, cmd := v.Update(enter())
	v = m.(WidgetView)

	assert.Nil(t, cmd)
	assert.Equal(t, 1, v.widget.Len())
	assert.Equal(t, "second", v.widget.Draft(), "rejected draft is kept")
	assert.Equal(t, hintInFlight, v.hint)

	v = update(t, v, model.AnswerMsg{Data: "done"})
	assert.Empty(t, v.hint)
}

func TestClickLauncherToggles(t *testing.T) {
	v := newTestView(t, false)
	click := tea.MouseMsg{X: v.width - 1, Y: v.height - 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}

	v = update(t, v, click)
	assert.True(t, v.widget.IsOpen())

	v = update(t, v, click)
	assert.False(t, v.widget.IsOpen())
}

func TestClickCloseButton(t *testing.T) {
	v := newTestView(t, true)
	_, h := v.windowSize()
	top := v.height - launcherHeight - h

	// the header row left of the button is not a hit
	v = update(t, v, tea.MouseMsg{X: 0, Y: top, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.True(t, v.widget.IsOpen())

	v = update(t, v, tea.MouseMsg{X: v.width - 2, Y: top, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.False(t, v.widget.IsOpen())
}

func TestHelpOverlay(t *testing.T) {
	v := newTestView(t, true)
	v = update(t, v, altKey('h'))
	require.True(t, v.showHelp)
	assert.Contains(t, v.View(), "Keyboard Shortcuts")

	// typing while help is up goes nowhere
	v = typeText(t, v, "x")
	assert.Empty(t, v.widget.Draft())

	v = update(t, v, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, v.showHelp)
	assert.True(t, v.widget.IsOpen(), "esc closes help before the window")
}

func TestAutoscrollAfterEachAnswer(t *testing.T) {
	v := newTestView(t, true)

	for i := 0; i < 15; i++ {
		v = typeText(t, v, fmt.Sprintf("question %d", i))
		v = update(t, v, enter())
		assert.True(t, v.viewport.AtBottom(), "user entry in view")

		v = update(t, v, model.AnswerMsg{Data: strings.Repeat("line\n\n", 3)})
		assert.True(t, v.viewport.AtBottom(), "answer in view")
	}

	v = update(t, v, altKey('g'))
	require.False(t, v.viewport.AtBottom())

	v = typeText(t, v, "one more")
	v = update(t, v, enter())
	v = update(t, v, model.AnswerMsg{Data: "last"})
	assert.True(t, v.viewport.AtBottom())
}

func TestClearInput(t *testing.T) {
	v := newTestView(t, true)
	v = typeText(t, v, "draft")
	v = update(t, v, altKey('u'))
	assert.Empty(t, v.input.Value())
	assert.Empty(t, v.widget.Draft())
}

func TestYankWithoutAnswer(t *testing.T) {
	v := newTestView(t, true)
	m, cmd := v.Update(altKey('y'))
	v = m.(WidgetView)
	assert.Nil(t, cmd)
	assert.Equal(t, hintNoAnswer, v.hint)
}

func TestQuit(t *testing.T) {
	v := newTestView(t, true)
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
