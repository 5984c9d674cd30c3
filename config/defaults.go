package config

import (
	"fmt"
	"os"
)

const (
	RenderStyleTerm    = "term"
	RenderStyleGlamour = "glamour"

	MinWindowWidth  = 30
	MinWindowHeight = 10
)

func DefaultFileConfig() *FileConfig {
	return &FileConfig{
		Backend: BackendConfig{
			Endpoint:       DefaultEndpoint,
			RequestTimeout: "0s",
		},
		Widget: WidgetConfig{
			StartOpen:    true,
			SingleFlight: true,
			WindowWidth:  60,
			WindowHeight: 22,
		},
		Render: RenderConfig{
			Style:        RenderStyleTerm,
			GlamourTheme: "auto",
		},
	}
}

// CreateDefaultFileConfig writes the commented config template into dir
func CreateDefaultFileConfig(dir string) error {
	if err := EnsureDir(dir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	path := GetConfigFilePath(dir)
	if FileExists(path) {
		return nil
	}

	if err := os.WriteFile(path, []byte(GenerateConfigTemplate()), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func GenerateConfigTemplate() string {
	return `# qachat Configuration
# Location: ~/.config/qachat/config.toml
# This file uses TOML format: https://toml.io

[backend]
# Q&A endpoint. Receives POST {"message": "..."} and answers {"data": "..."}
endpoint = "` + DefaultEndpoint + `"

# Per-request timeout ("0s" waits for the transport, e.g. "30s")
request_timeout = "0s"

[widget]
# Show the chat window at startup
start_open = true

# Refuse to send while an answer is still pending
single_flight = true

# Chat window size in terminal cells
window_width = 60
window_height = 22

[render]
# Answer rendering: "term" (compact) or "glamour" (styled)
style = "term"

# Glamour theme: auto, dark, light or notty
glamour_theme = "auto"
`
}
