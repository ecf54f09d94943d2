package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var (
	daemonForceRestart bool
	daemonStop         bool
)

func init() {
	rootCmd.AddCommand(cmdDaemon)
	cmdDaemon.Flags().BoolVarP(&daemonForceRestart, "force", "f", false, "Restart the daemon if it is already running")
	cmdDaemon.Flags().BoolVar(&daemonStop, "stop", false, "Stop the running daemon and exit")
}

var cmdDaemon = &cobra.Command{
	Use:   "daemon",
	Short: "Start the daemon process",
	Long: `The daemon owns every background process and serves the CLI and TUI over a unix socket.
If it is already running nothing happens unless --force is given. Stopping the daemon terminates the processes it tracks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl := controller()
		out := cmd.OutOrStdout()

		status, err := ctrl.Status()
		if daemonStop {
			if !status.Running {
				fmt.Fprintln(out, "Daemon is not running")
				return nil
			}
			if err := ctrl.StopDaemon(daemonForceRestart); err != nil {
				return err
			}
			fmt.Fprintln(out, "Daemon stopped")
			return nil
		}

		if status.Running {
			if !daemonForceRestart {
				var message string
				switch {
				case err != nil:
					message = fmt.Sprintf("Error checking if daemon is running: %v", err)
				case status.PID != 0:
					message = fmt.Sprintf("Daemon is already running (pid %d). Stop it with --stop or re-run with --force.", status.PID)
				default:
					message = "Daemon is already running. Stop it with --stop or re-run with --force."
				}
				fmt.Fprintln(out, message)
				return nil
			}
			fmt.Fprintln(out, "Stopping existing daemon process...")
			if err := ctrl.StopDaemon(true); err != nil {
				return err
			}
		}

		handle, err := ctrl.StartDaemon()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "Started daemon process")
		runSpin := spinner.New(spinner.CharSets[21], 120*time.Millisecond, spinner.WithWriter(os.Stdout))
		runSpin.Suffix = " Running..."
		runSpin.Start()

		sigc := make(chan os.Signal, 2)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		<-sigc
		runSpin.Stop()
		return handle.Close()
	},
}
