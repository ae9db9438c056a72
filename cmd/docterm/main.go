package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"docterm/internal/app"
)

// flags holds command line overrides applied on top of the loaded config.
type flags struct {
	ConfigPath string
	DataDir    string
	UIMode     string
	Theme      string
	Debug      bool
	NoHistory  bool
	Assistant  string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags
	root := &cobra.Command{
		Use:   "docterm",
		Short: "Turn a live terminal session into a scrolling document",
		Long: `docterm runs a command (usually tmux with a coding assistant inside)
under a pseudo terminal and prints only the genuinely new lines of its
screen, with the window bar, busy indicator and status bar tracked
separately.`,
		Example: `  # Follow a tmux session as a document
  docterm run -- tmux attach

  # Full screen viewer with an input line
  docterm --ui tui run -- tmux attach

  # Replay a recorded session twice as fast
  docterm replay --speed 2 session.yaml`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&f.ConfigPath, "config", "c", "", "YAML config file")
	pf.StringVar(&f.DataDir, "data-dir", "", "directory for the session index and transcripts")
	pf.StringVar(&f.UIMode, "ui", "", "output mode: plain, tui or off")
	pf.StringVar(&f.Theme, "theme", "", "color theme: modern or retro")
	pf.BoolVarP(&f.Debug, "debug", "d", false, "write a debug log to the data directory")
	pf.BoolVar(&f.NoHistory, "no-history", false, "do not save a plain text transcript")

	root.AddCommand(
		newRunCmd(&f),
		newReplayCmd(&f),
		newSessionsCmd(&f),
		newHistoryCmd(&f),
		newDemoCmd(&f),
	)
	return root
}

// loadConfig layers file, environment and flags, then validates.
func loadConfig(cmd *cobra.Command, f *flags) (app.Config, error) {
	cfg, err := app.LoadConfig(f.ConfigPath)
	if err != nil {
		return cfg, err
	}
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}
	if cmd.Flags().Changed("ui") {
		cfg.UI.Mode = f.UIMode
	}
	if f.Theme != "" {
		cfg.UI.Theme = f.Theme
	}
	if f.Debug {
		cfg.Debug = true
		cfg.LogLevel = "debug"
	}
	if f.Assistant != "" {
		cfg.AssistantName = f.Assistant
	}
	if f.NoHistory {
		cfg.History.Save = false
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func openApp(cmd *cobra.Command, f *flags) (*app.App, error) {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return nil, err
	}
	return app.New(cfg)
}
