package main

import (
	"fmt"
	"strings"
	"time"

	"bgproc/internal/app"

	"github.com/spf13/cobra"
)

var (
	endSessionTimeout int
	noticesDrain      bool
	noticesTimeout    int
	historyID         string
	historyAll        bool
	historyLimit      int
	historyTimeout    int
)

func init() {
	rootCmd.AddCommand(cmdEndSession, cmdNotices, cmdHistory)

	cmdEndSession.Flags().IntVar(&endSessionTimeout, "timeout", 5, "Timeout in seconds for daemon request")

	cmdNotices.Flags().BoolVar(&noticesDrain, "drain", false, "Remove the notices after printing them")
	cmdNotices.Flags().IntVar(&noticesTimeout, "timeout", 3, "Timeout in seconds for daemon request")

	cmdHistory.Flags().StringVar(&historyID, "id", "", "Only events of this process")
	cmdHistory.Flags().BoolVar(&historyAll, "all-sessions", false, "Events of every session")
	cmdHistory.Flags().IntVar(&historyLimit, "limit", 0, "Maximum number of events (daemon default when 0)")
	cmdHistory.Flags().IntVar(&historyTimeout, "timeout", 3, "Timeout in seconds for daemon request")
}

var cmdEndSession = &cobra.Command{
	Use:   "end-session",
	Short: "Terminate and forget the session's processes",
	Long:  "Kills every running process started by this session and removes the session's records. Global processes are left alone.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl := controller()
		ids, err := ctrl.EndSession(cmd.Context(), seconds(endSessionTimeout))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintf(out, "Session %q had no processes\n", ctrl.Session())
			return nil
		}
		fmt.Fprintf(out, "Ended session %q, removed %d process(es): %s\n", ctrl.Session(), len(ids), strings.Join(ids, ", "))
		return nil
	},
}

var cmdNotices = &cobra.Command{
	Use:   "notices",
	Short: "Show completion and failure messages for the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		notices, err := controller().Notices(cmd.Context(), noticesDrain, seconds(noticesTimeout))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(notices) == 0 {
			fmt.Fprintln(out, "No notices")
			return nil
		}
		for _, n := range notices {
			fmt.Fprintf(out, "%s  %s\n", n.At.Format(time.DateTime), n.Text)
		}
		return nil
	},
}

var cmdHistory = &cobra.Command{
	Use:   "history",
	Short: "Show recorded lifecycle events",
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := controller().History(cmd.Context(), app.HistoryParams{
			ProcessID:   strings.TrimSpace(historyID),
			AllSessions: historyAll,
			Limit:       historyLimit,
			Timeout:     seconds(historyTimeout),
		})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No events recorded")
			return nil
		}
		for _, ev := range events {
			line := fmt.Sprintf("%s  %-9s [id=%s] pid=%d name=%s cmd=%s",
				ev.At.Format(time.DateTime), ev.Kind, ev.ProcessID, ev.PID, valueOrDash(ev.Name), ev.Command)
			if ev.Detail != "" {
				line += " (" + ev.Detail + ")"
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}
