package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"qachat/backend"
	"qachat/config"
	"qachat/model"
	"qachat/qaclient"
	"qachat/render"
	"qachat/ui"
)

const (
	Version = "v0.01.00"
	License = "Apache-2.0"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var flags config.Overrides

	root := &cobra.Command{
		Use:           "qachat",
		Short:         "Document Q&A chat widget for the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWidget(flags)
		},
	}

	root.Flags().StringVar(&flags.Endpoint, "endpoint", "", "Q&A endpoint URL (overrides config and QACHAT_ENDPOINT)")
	root.Flags().StringVar(&flags.Timeout, "timeout", "", "request timeout, e.g. 30s (0 waits for the transport)")
	root.Flags().BoolVar(&flags.Closed, "closed", false, "start with the chat window closed")
	root.Flags().StringVar(&flags.ConfigDir, "config-dir", "", "configuration directory (default ~/.config/qachat)")

	root.AddCommand(newEchoServerCommand(), newVersionCommand())
	return root
}

func runWidget(flags config.Overrides) error {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		showStartupError("Configuration Error", err.Error())
		return err
	}

	config.InitDebugLog(cfg.ConfigDir())

	if ok, warning := cfg.Keybindings.Validate(); !ok {
		showStartupError("Keybindings Error", warning)
		return fmt.Errorf("invalid keybindings: %s", warning)
	} else if warning != "" {
		config.Log.Warn().Msg(warning)
	}

	client, err := qaclient.NewClient(cfg.Endpoint, nil)
	if err != nil {
		showStartupError("Configuration Error", err.Error())
		return err
	}

	widget := model.NewWidget(client, render.NewHTMLRenderer(), model.Options{
		StartOpen:    cfg.StartOpen,
		SingleFlight: cfg.SingleFlight,
		Timeout:      cfg.RequestTimeout,
	})

	// Background detection talks to the TTY, so it runs before bubbletea owns stdin
	theme := cfg.GlamourTheme
	if cfg.RenderStyle == config.RenderStyleGlamour {
		theme = render.ResolveTheme(theme, lipgloss.HasDarkBackground())
	}

	terminal, err := render.NewTerminalRenderer(cfg.RenderStyle, theme)
	if err != nil {
		showStartupError("Configuration Error", err.Error())
		return err
	}

	config.Log.Info().
		Str("endpoint", client.Endpoint()).
		Dur("timeout", cfg.RequestTimeout).
		Bool("single_flight", cfg.SingleFlight).
		Str("render_style", cfg.RenderStyle).
		Str("glamour_theme", theme).
		Msg("starting widget")

	p := tea.NewProgram(
		ui.NewWidgetView(cfg, widget, terminal),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

func showStartupError(title, message string) {
	p := tea.NewProgram(ui.NewErrorModal(title, message), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

func newEchoServerCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "echo-server",
		Short: "Run a local Q&A backend that echoes questions back as markup",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
				With().
				Timestamp().
				Logger()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return backend.NewServer(addr, backend.EchoAnswer, log).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", backend.DefaultAddr, "listen address")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "qachat %s (%s)\n", Version, License)
		},
	}
}
