package main

import (
	"errors"
	"fmt"
	"strings"

	"bgproc/internal/app"

	"github.com/spf13/cobra"
)

var (
	runTags    []string
	runName    string
	runGlobal  bool
	runTimeout int
)

func init() {
	rootCmd.AddCommand(cmdRun)

	cmdRun.Flags().StringSliceVar(&runTags, "tag", nil, "Tag to assign to the process (repeatable)")
	cmdRun.Flags().StringVar(&runName, "name", "", "Display name for the process")
	cmdRun.Flags().BoolVar(&runGlobal, "global", false, "Keep the process alive when the session ends")
	cmdRun.Flags().IntVar(&runTimeout, "timeout", 3, "Timeout in seconds for contacting the daemon")
}

var cmdRun = &cobra.Command{
	Use:   "run [flags] -- <command...>",
	Short: "Start a shell command in the background",
	Long:  "Asks the daemon to run the command through its shell, prints the new process id, and returns immediately.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if runTimeout <= 0 {
			return errors.New("timeout must be greater than 0 seconds")
		}
		id, err := controller().Run(cmd.Context(), app.RunParams{
			Command: strings.Join(args, " "),
			Name:    runName,
			Tags:    runTags,
			Global:  runGlobal,
			Timeout: seconds(runTimeout),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Started process id=%s\n", id)
		return nil
	},
}
