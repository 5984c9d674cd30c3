package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"qachat/qaclient"
)

// DefaultEndpoint is where the local echo backend listens
const DefaultEndpoint = qaclient.DefaultEndpoint

type BackendConfig struct {
	Endpoint       string `toml:"endpoint"`
	RequestTimeout string `toml:"request_timeout"`
}

type WidgetConfig struct {
	StartOpen    bool `toml:"start_open"`
	SingleFlight bool `toml:"single_flight"`
	WindowWidth  int  `toml:"window_width"`
	WindowHeight int  `toml:"window_height"`
}

type RenderConfig struct {
	Style        string `toml:"style"`
	GlamourTheme string `toml:"glamour_theme"`
}

type FileConfig struct {
	Backend BackendConfig `toml:"backend"`
	Widget  WidgetConfig  `toml:"widget"`
	Render  RenderConfig  `toml:"render"`
}

// envOverrides is filled from QACHAT_* variables (and a .env file if present)
type envOverrides struct {
	Endpoint  string `env:"QACHAT_ENDPOINT"`
	Timeout   string `env:"QACHAT_TIMEOUT"`
	ConfigDir string `env:"QACHAT_CONFIG_DIR"`
}

type Config struct {
	ConfigDirectory string
	Endpoint        string
	RequestTimeout  time.Duration
	StartOpen       bool
	SingleFlight    bool
	WindowWidth     int
	WindowHeight    int
	RenderStyle     string
	GlamourTheme    string
	Keybindings     *KeyBindingsConfig
}

// Overrides carries command line values. Empty fields leave the loaded value alone.
type Overrides struct {
	ConfigDir string
	Endpoint  string
	Timeout   string
	Closed    bool
}

func (c *Config) ConfigDir() string {
	return ExpandPath(c.ConfigDirectory)
}

// LoadDotEnv loads a .env file from the working directory when one exists.
func LoadDotEnv() error {
	if !FileExists(".env") {
		return nil
	}
	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Load resolves configuration in order: defaults, config.toml, environment, flags.
func Load(flags Overrides) (*Config, error) {
	var envCfg envOverrides
	if err := env.Parse(&envCfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	configDir := GetConfigDir()
	if envCfg.ConfigDir != "" {
		configDir = envCfg.ConfigDir
	}
	if flags.ConfigDir != "" {
		configDir = flags.ConfigDir
	}
	configDir = ExpandPath(configDir)

	fileCfg, err := LoadFileConfig(configDir)
	if err != nil {
		return nil, err
	}

	if envCfg.Endpoint != "" {
		fileCfg.Backend.Endpoint = envCfg.Endpoint
	}
	if envCfg.Timeout != "" {
		fileCfg.Backend.RequestTimeout = envCfg.Timeout
	}
	if flags.Endpoint != "" {
		fileCfg.Backend.Endpoint = flags.Endpoint
	}
	if flags.Timeout != "" {
		fileCfg.Backend.RequestTimeout = flags.Timeout
	}
	if flags.Closed {
		fileCfg.Widget.StartOpen = false
	}

	cfg, err := fromFile(configDir, fileCfg)
	if err != nil {
		return nil, err
	}

	kb, err := LoadKeybindings(configDir)
	if err != nil {
		return nil, err
	}
	cfg.Keybindings = kb

	return cfg, nil
}

// LoadFileConfig reads config.toml from dir, writing the default template first if missing.
func LoadFileConfig(dir string) (*FileConfig, error) {
	cfg := DefaultFileConfig()
	path := GetConfigFilePath(dir)

	if !FileExists(path) {
		if err := CreateDefaultFileConfig(dir); err != nil {
			return nil, fmt.Errorf("failed to create config: %w", err)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

func fromFile(dir string, fc *FileConfig) (*Config, error) {
	endpoint := strings.TrimSpace(fc.Backend.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if err := ValidateEndpoint(endpoint); err != nil {
		return nil, err
	}

	timeout, err := ParseTimeout(fc.Backend.RequestTimeout)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ConfigDirectory: dir,
		Endpoint:        endpoint,
		RequestTimeout:  timeout,
		StartOpen:       fc.Widget.StartOpen,
		SingleFlight:    fc.Widget.SingleFlight,
		WindowWidth:     fc.Widget.WindowWidth,
		WindowHeight:    fc.Widget.WindowHeight,
		RenderStyle:     fc.Render.Style,
		GlamourTheme:    fc.Render.GlamourTheme,
	}

	defaults := DefaultFileConfig()
	if cfg.WindowWidth < MinWindowWidth {
		cfg.WindowWidth = defaults.Widget.WindowWidth
	}
	if cfg.WindowHeight < MinWindowHeight {
		cfg.WindowHeight = defaults.Widget.WindowHeight
	}

	switch cfg.RenderStyle {
	case RenderStyleTerm, RenderStyleGlamour:
	case "":
		cfg.RenderStyle = RenderStyleTerm
	default:
		return nil, fmt.Errorf("unknown render style %q (expected %q or %q)", cfg.RenderStyle, RenderStyleTerm, RenderStyleGlamour)
	}
	if cfg.GlamourTheme == "" {
		cfg.GlamourTheme = "auto"
	}

	return cfg, nil
}

// ValidateEndpoint requires an absolute http(s) URL.
func ValidateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid endpoint %q: scheme must be http or https", endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: missing host", endpoint)
	}
	return nil
}

// ParseTimeout parses a duration string. Empty and "0s" both mean no timeout.
func ParseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid request timeout %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid request timeout %q: must not be negative", s)
	}
	return d, nil
}
