package main

import (
	"fmt"
	"strings"

	"bgproc/internal/app"

	"github.com/spf13/cobra"
)

var (
	listTags        []string
	listStatus      string
	listAllSessions bool
	listOutput      bool
	listTimeout     int
)

func init() {
	rootCmd.AddCommand(cmdList)
	cmdList.Flags().StringSliceVar(&listTags, "tag", nil, "Match processes carrying any of these tags")
	cmdList.Flags().StringVar(&listStatus, "status", "", "Match processes in this status (pending|running|completed|failed|cancelled)")
	cmdList.Flags().BoolVar(&listAllSessions, "all-sessions", false, "List processes of every session")
	cmdList.Flags().BoolVarP(&listOutput, "output", "o", false, "Print the recent output of each process")
	cmdList.Flags().IntVar(&listTimeout, "timeout", 3, "Timeout in seconds for daemon request")
}

var cmdList = &cobra.Command{
	Use:   "list",
	Short: "List processes visible to the session",
	Long:  "Lists the session's processes plus global ones, optionally filtered by tag and status.",
	RunE: func(cmd *cobra.Command, args []string) error {
		procs, err := controller().List(cmd.Context(), app.ListParams{
			Filters: app.ListFilters{
				Tags:        listTags,
				Status:      listStatus,
				AllSessions: listAllSessions,
			},
			Timeout: seconds(listTimeout),
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(procs) == 0 {
			fmt.Fprintln(out, "No processes registered")
			return nil
		}
		for _, proc := range procs {
			fmt.Fprintf(out, "[id=%s] pid=%d status=%s name=%s cmd=%s tags=[%s]\n",
				proc.ID, proc.PID, proc.Status, valueOrDash(proc.Name), proc.Command, strings.Join(proc.Tags, ","))
			if listOutput {
				for _, line := range proc.Output {
					fmt.Fprintf(out, "    %s\n", line)
				}
			}
		}
		return nil
	},
}
