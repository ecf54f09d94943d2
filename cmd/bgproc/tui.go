package main

import (
	"errors"
	"fmt"
	"time"

	"bgproc/internal/tui"

	"github.com/spf13/cobra"
)

var (
	tuiRefresh     time.Duration
	tuiAllSessions bool
)

func init() {
	rootCmd.AddCommand(cmdTUI)
	cmdTUI.Flags().DurationVar(&tuiRefresh, "refresh", tui.DefaultRefreshInterval, "How often the process list is reloaded")
	cmdTUI.Flags().BoolVar(&tuiAllSessions, "all-sessions", false, "Start with processes of every session in view")
}

var cmdTUI = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long:  "Shows the session's processes with their latest output. A daemon started from inside the TUI is stopped, with its processes, when the TUI exits.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tuiRefresh < 100*time.Millisecond {
			return errors.New("refresh must be at least 100ms")
		}
		opts := tui.Options{Refresh: tuiRefresh, AllSessions: tuiAllSessions}
		if err := tui.Run(controller(), opts); err != nil {
			return fmt.Errorf("tui exited with error: %w", err)
		}
		return nil
	},
}
