package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultActionKeys(t *testing.T) {
	kb := DefaultKeybindings()

	tests := map[string]string{
		"toggle_chat":      "alt+c",
		"close_chat":       "esc",
		"send":             "enter",
		"scroll_down":      "alt+j",
		"scroll_to_bottom": "alt+G",
		"yank_last_answer": "alt+y",
		"no_such_action":   "",
	}
	for action, want := range tests {
		assert.Equal(t, want, kb.GetActionKey(action), action)
	}
}

func TestActionOverridesAndModifiers(t *testing.T) {
	kb := &KeyBindingsConfig{
		Modifiers: ModifierConfig{Primary: "ctrl", Secondary: "ctrl+shift"},
		Actions:   map[string]string{"toggle_chat": "ctrl+o"},
	}

	assert.Equal(t, "ctrl+o", kb.GetActionKey("toggle_chat"))
	assert.Equal(t, "ctrl+h", kb.GetActionKey("help"))
	assert.Equal(t, "ctrl+G", kb.GetActionKey("scroll_to_bottom"))

	assert.True(t, kb.Is("toggle_chat", "ctrl+o"))
	assert.False(t, kb.Is("toggle_chat", "ctrl+c"))
	assert.False(t, kb.Is("no_such_action", ""))
}

func TestDisplayActionKey(t *testing.T) {
	kb := DefaultKeybindings()
	assert.Equal(t, "Alt+C", kb.DisplayActionKey("toggle_chat"))
	assert.Equal(t, "Alt+Shift+G", kb.DisplayActionKey("scroll_to_bottom"))
	assert.Equal(t, "Esc", kb.DisplayActionKey("close_chat"))
}

func TestValidate(t *testing.T) {
	ok, warning := DefaultKeybindings().Validate()
	assert.True(t, ok)
	assert.Empty(t, warning)

	ok, _ = (&KeyBindingsConfig{Modifiers: ModifierConfig{Primary: "shift", Secondary: "alt"}}).Validate()
	assert.False(t, ok)

	ok, warning = (&KeyBindingsConfig{Modifiers: ModifierConfig{Primary: "ctrl", Secondary: "alt"}}).Validate()
	assert.True(t, ok)
	assert.Contains(t, warning, "Ctrl")
}

func TestLoadKeybindingsFromFile(t *testing.T) {
	dir := t.TempDir()
	content := "[modifiers]\nprimary = \"ctrl\"\n\n[actions]\nclose_chat = \"ctrl+w\"\n"
	require.NoError(t, os.WriteFile(GetKeybindingsFilePath(dir), []byte(content), 0600))

	kb, err := LoadKeybindings(dir)
	require.NoError(t, err)
	assert.Equal(t, "ctrl", kb.Primary())
	assert.Equal(t, "alt+shift", kb.Secondary(), "missing secondary falls back")
	assert.Equal(t, "ctrl+w", kb.GetActionKey("close_chat"))
}
