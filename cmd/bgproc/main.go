package main

import (
	"context"
	"log"
	"os"
	"time"

	"bgproc/internal/app"

	"github.com/spf13/cobra"
)

var (
	configPath string
	sessionID  string
)

var rootCmd = &cobra.Command{
	Use:   "bgproc [command]",
	Short: "bgproc: detached process runner",
	Long: `bgproc runs shell commands in the background through a local daemon,
keeps their recent output, and reports when they finish.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (JSON, TOML or YAML)")
	rootCmd.PersistentFlags().StringVar(&sessionID, "session", os.Getenv("BGPROC_SESSION"), "Session to act for (defaults to $BGPROC_SESSION or \"default\")")
}

// controllerAPI is the slice of app.App the commands depend on.
type controllerAPI interface {
	Session() string
	Run(context.Context, app.RunParams) (string, error)
	Get(ctx context.Context, id string, timeout time.Duration) (app.Process, error)
	List(context.Context, app.ListParams) ([]app.Process, error)
	Kill(context.Context, app.KillParams) (app.KillResult, error)
	Remove(context.Context, app.RemoveParams) (app.RemoveResult, error)
	EndSession(ctx context.Context, timeout time.Duration) ([]string, error)
	Notices(ctx context.Context, drain bool, timeout time.Duration) ([]app.Notice, error)
	History(context.Context, app.HistoryParams) ([]app.Event, error)
	Ping(ctx context.Context, timeout time.Duration) (app.PingResult, error)
	Status() (app.DaemonStatus, error)
	StopDaemon(force bool) error
	StartDaemon() (*app.DaemonHandle, error)
}

var controllerFactory = func() controllerAPI {
	return app.New(app.Options{ConfigPath: configPath, SessionID: sessionID})
}

func controller() controllerAPI {
	return controllerFactory()
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
