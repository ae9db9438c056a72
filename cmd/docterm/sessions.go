package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newSessionsCmd(f *flags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "sessions [ID]",
		Short: "List recorded sessions, or show one with its window switches",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, f)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			store := a.Store()

			if len(args) == 1 {
				sess, err := store.GetSession(ctx, args[0])
				if err != nil {
					return fmt.Errorf("session %s: %w", args[0], err)
				}
				events, err := store.WindowEvents(ctx, sess.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "session    %s\nsource     %s\nscreen     %dx%d\nstarted    %s (%s)\n",
					sess.ID, sess.Source, sess.Cols, sess.Rows,
					sess.StartTS.Local().Format(time.DateTime), humanize.Time(sess.StartTS))
				if sess.Finished() {
					fmt.Fprintf(out, "duration   %s\n", sess.EndTS.Sub(sess.StartTS).Round(time.Second))
				}
				fmt.Fprintf(out, "output     %s in %s chunks, %s lines (%s filtered), %d resets\n",
					humanize.Bytes(uint64(sess.Bytes)), humanize.Comma(sess.Chunks),
					humanize.Comma(sess.LinesEmitted), humanize.Comma(sess.LinesFiltered), sess.Resets)
				if sess.ExitErr != "" {
					fmt.Fprintf(out, "exit       %s\n", sess.ExitErr)
				}
				if sess.TranscriptPath != "" {
					fmt.Fprintf(out, "transcript %s\n", sess.TranscriptPath)
				}
				for _, ev := range events {
					mark := ""
					if ev.Assistant {
						mark = " (assistant)"
					}
					fmt.Fprintf(out, "  %s  %d:%s%s\n", ev.TS.Local().Format(time.TimeOnly), ev.WindowIndex, ev.Name, mark)
				}
				return nil
			}

			sessions, err := store.ListSessions(ctx, limit)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Fprintln(out, "no sessions")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSOURCE\tSTARTED\tOUTPUT\tLINES\tSTATUS")
			for _, s := range sessions {
				status := "running"
				switch {
				case s.ExitErr != "":
					status = "error"
				case s.Finished():
					status = "done"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					shortID(s.ID), s.Source, humanize.Time(s.StartTS),
					humanize.Bytes(uint64(s.Bytes)), humanize.Comma(s.LinesEmitted), status)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			sum, err := store.GetSummary(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d sessions, %s read, %s lines emitted\n",
				sum.Sessions, humanize.Bytes(uint64(sum.Bytes)), humanize.Comma(sum.LinesEmitted))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of sessions to list; 0 lists all")
	return cmd
}

func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
