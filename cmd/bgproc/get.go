package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var getTimeout int

func init() {
	rootCmd.AddCommand(cmdGet)
	cmdGet.Flags().IntVar(&getTimeout, "timeout", 3, "Timeout in seconds for daemon request")
}

var cmdGet = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one process with its recent output",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		proc, err := controller().Get(cmd.Context(), args[0], seconds(getTimeout))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "id:       %s\n", proc.ID)
		fmt.Fprintf(out, "name:     %s\n", valueOrDash(proc.Name))
		fmt.Fprintf(out, "command:  %s\n", proc.Command)
		fmt.Fprintf(out, "status:   %s\n", proc.Status)
		fmt.Fprintf(out, "pid:      %d\n", proc.PID)
		fmt.Fprintf(out, "session:  %s (global=%t)\n", proc.SessionID, proc.Global)
		fmt.Fprintf(out, "tags:     [%s]\n", strings.Join(proc.Tags, ","))
		fmt.Fprintf(out, "started:  %s\n", formatTime(proc.StartedAt))
		fmt.Fprintf(out, "finished: %s\n", formatTime(proc.CompletedAt))
		fmt.Fprintf(out, "runtime:  %s\n", proc.Runtime(time.Now()).Truncate(time.Millisecond))
		if proc.Error != "" {
			fmt.Fprintf(out, "error:    %s\n", proc.Error)
		}
		fmt.Fprintf(out, "output (%d of %d lines):\n", len(proc.Output), proc.OutputLines)
		for _, line := range proc.Output {
			fmt.Fprintf(out, "  %s\n", line)
		}
		return nil
	},
}

// formatTime renders t as RFC 3339, or blank when unset.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func valueOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
