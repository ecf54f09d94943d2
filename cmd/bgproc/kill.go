package main

import (
	"fmt"

	"bgproc/internal/app"

	"github.com/spf13/cobra"
)

var (
	killID          string
	killTags        []string
	killStatus      string
	killAllSessions bool
	killAll         bool
	killTimeout     int
)

func init() {
	rootCmd.AddCommand(cmdKill)
	cmdKill.Flags().StringVar(&killID, "id", "", "Terminate the process with this id")
	cmdKill.Flags().StringSliceVar(&killTags, "tag", nil, "Match processes carrying any of these tags")
	cmdKill.Flags().StringVar(&killStatus, "status", "", "Match processes in this status")
	cmdKill.Flags().BoolVar(&killAllSessions, "all-sessions", false, "Select across every session")
	cmdKill.Flags().BoolVar(&killAll, "all", false, "Terminate every running process of the session")
	cmdKill.Flags().IntVar(&killTimeout, "timeout", 5, "Timeout in seconds for the terminate request")
}

var cmdKill = &cobra.Command{
	Use:   "kill",
	Short: "Terminate running processes",
	Long:  "Selects processes by id, or by the same filters as `list`, and asks the daemon to kill them. Terminated processes stay listed as cancelled until removed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := controller().Kill(cmd.Context(), app.KillParams{
			ID: killID,
			Filters: app.ListFilters{
				Tags:        killTags,
				Status:      killStatus,
				AllSessions: killAllSessions,
			},
			AllowAll:        killAll,
			Timeout:         seconds(killTimeout),
			RequireSelector: true,
		})
		if res.Message != "" {
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
		}
		return err
	},
}
