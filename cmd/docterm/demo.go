package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"docterm/internal/app"
	"docterm/internal/devtools"
	"docterm/internal/processor"
	"docterm/internal/replay"
	"docterm/internal/source"
)

func newDemoCmd(f *flags) *cobra.Command {
	var (
		opts    replay.PlayOptions
		dumpDir string
	)
	cmd := &cobra.Command{
		Use:   "demo [NAME]",
		Short: "Play a built-in tmux session through the engine",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			demos := devtools.NewManager()
			if len(args) == 0 {
				for _, name := range demos.Names() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}
			rec, err := demos.Recording(args[0])
			if err != nil {
				return err
			}
			a, err := openApp(cmd, f)
			if err != nil {
				return err
			}
			defer a.Close()

			run := app.RunOptions{}
			if dumpDir != "" {
				run.Inspect = func(p *processor.Processor) {
					path, err := demos.WriteState(dumpDir, devtools.CaptureState(args[0], p))
					if err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "dump state: %v\n", err)
						return
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "state written to %s\n", path)
				}
			}
			return runSession(cmd, a, source.NewReplay("demo-"+args[0], rec, opts), run)
		},
	}
	cmd.Flags().Float64Var(&opts.Speed, "speed", 1, "playback speed; 0 plays without delays")
	cmd.Flags().BoolVar(&opts.Loop, "loop", false, "restart from the first frame at the end")
	cmd.Flags().StringVar(&dumpDir, "dump-state", "", "write dev_state.json with the final screen to this directory")
	return cmd
}
