package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docterm/internal/app"
	"docterm/internal/replay"
	"docterm/internal/source"
	"docterm/internal/ui"
)

func newRunCmd(f *flags) *cobra.Command {
	var record string
	cmd := &cobra.Command{
		Use:   "run [flags] [--] command [args...]",
		Short: "Run a command under a pseudo terminal and follow its screen",
		Long: `Run starts the command under an 80x24 pseudo terminal. With no command,
$SHELL is started.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				sh := os.Getenv("SHELL")
				if sh == "" {
					sh = "/bin/sh"
				}
				args = []string{sh}
			}
			a, err := openApp(cmd, f)
			if err != nil {
				return err
			}
			defer a.Close()
			return runSession(cmd, a, a.PTYSource(args), app.RunOptions{RecordPath: record})
		},
	}
	cmd.Flags().StringVar(&record, "record", "", "save the raw output as a replay file")
	cmd.Flags().StringVar(&f.Assistant, "assistant", "", "window name that marks the assistant")
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func newReplayCmd(f *flags) *cobra.Command {
	var opts replay.PlayOptions
	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Feed a recorded session (YAML or ttyrec) through the engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, f)
			if err != nil {
				return err
			}
			defer a.Close()
			src, err := a.ReplaySource(args[0], opts)
			if err != nil {
				return err
			}
			return runSession(cmd, a, src, app.RunOptions{})
		},
	}
	cmd.Flags().Float64Var(&opts.Speed, "speed", 1, "playback speed; 0 plays without delays")
	cmd.Flags().BoolVar(&opts.Loop, "loop", false, "restart from the first frame at the end")
	return cmd
}

func runSession(cmd *cobra.Command, a *app.App, src source.Source, opts app.RunOptions) error {
	view := a.NewView(cmd.OutOrStdout())
	opts.Linger = a.Config().UI.Mode == "tui"
	res, err := a.Run(cmd.Context(), src, view, opts)
	if _, ok := view.(*ui.Viewer); ok || a.Config().UI.Mode == "off" {
		fmt.Fprintf(cmd.ErrOrStderr(), "session %s: %d lines\n", res.SessionID, res.Stats.LinesEmitted)
	}
	return err
}
