package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cmdPing)
}

var pingTimeoutSeconds int

func init() {
	cmdPing.Flags().IntVarP(&pingTimeoutSeconds, "timeout", "t", 2, "Timeout in seconds for daemon ping")
}

// cmdPing health-checks the daemon and prints per-status process counts.
var cmdPing = &cobra.Command{
	Use:   "ping",
	Short: "Check daemon availability (expects 'pong')",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := controller().Ping(cmd.Context(), seconds(pingTimeoutSeconds))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, res.Message)
		if res.Total == 0 {
			return nil
		}
		statuses := make([]string, 0, len(res.Counts))
		for status := range res.Counts {
			statuses = append(statuses, status)
		}
		sort.Strings(statuses)
		fmt.Fprintf(out, "processes: %d\n", res.Total)
		for _, status := range statuses {
			fmt.Fprintf(out, "  %s: %d\n", status, res.Counts[status])
		}
		return nil
	},
}
