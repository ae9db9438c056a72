package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newHistoryCmd(f *flags) *cobra.Command {
	var (
		del   bool
		clearAll bool
	)
	cmd := &cobra.Command{
		Use:   "history [ID]",
		Short: "List saved transcripts, or print one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, f)
			if err != nil {
				return err
			}
			defer a.Close()
			hist := a.History()
			out := cmd.OutOrStdout()

			switch {
			case clearAll:
				n, err := hist.Clear()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "removed %d transcripts\n", n)
				return nil
			case len(args) == 1 && del:
				if err := hist.Delete(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(out, "removed %s\n", args[0])
				return nil
			case len(args) == 1:
				text, err := hist.Load(args[0])
				if err != nil {
					return err
				}
				_, err = io.WriteString(out, text)
				return err
			case del:
				return fmt.Errorf("--delete needs a session ID")
			}

			entries, err := hist.List()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintf(out, "no transcripts in %s\n", hist.Dir())
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSIZE\tMODIFIED")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, humanize.Bytes(uint64(e.Size)), humanize.Time(e.Modified))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&del, "delete", false, "delete the named transcript")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "delete every transcript")
	return cmd
}
