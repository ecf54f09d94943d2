package main

import (
	"fmt"
	"strings"

	"bgproc/internal/app"

	"github.com/spf13/cobra"
)

var rmTimeout int

func init() {
	rootCmd.AddCommand(cmdRm)
	cmdRm.Flags().IntVar(&rmTimeout, "timeout", 3, "Timeout in seconds for remove operations")
}

var cmdRm = &cobra.Command{
	Use:   "rm <id> [id...]",
	Short: "Remove processes from the registry",
	Long:  "Forgets the given processes. Running ones are terminated first.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := controller().Remove(cmd.Context(), app.RemoveParams{
			IDs:     args,
			Timeout: seconds(rmTimeout),
		})
		out := cmd.OutOrStdout()
		for _, id := range res.Removed {
			fmt.Fprintf(out, "Removed [id=%s]\n", id)
		}
		if len(res.Missing) > 0 {
			fmt.Fprintf(out, "Not found: %s\n", strings.Join(res.Missing, ", "))
		}
		return err
	},
}
