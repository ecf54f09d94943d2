package main

import (
	"flag"
	"log"
	"os"

	"bgproc/internal/app"
	"bgproc/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (JSON, TOML or YAML)")
	session := flag.String("session", os.Getenv("BGPROC_SESSION"), "Session to act for")
	refresh := flag.Duration("refresh", tui.DefaultRefreshInterval, "Process list reload interval")
	allSessions := flag.Bool("all-sessions", false, "Show processes of every session")
	flag.Parse()

	controller := app.New(app.Options{ConfigPath: *configPath, SessionID: *session})
	if err := tui.Run(controller, tui.Options{Refresh: *refresh, AllSessions: *allSessions}); err != nil {
		log.Fatalf("tui exited with error: %v", err)
	}
}
