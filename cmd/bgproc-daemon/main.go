package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"bgproc/internal/daemon"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (JSON, TOML or YAML)")
	force := flag.Bool("force", false, "Replace a running daemon; with -stop, escalate to SIGKILL")
	stop := flag.Bool("stop", false, "Stop the running daemon and exit")
	flag.Parse()

	running := daemon.IsRunning()
	if *stop {
		if !running {
			log.Printf("No daemon is serving on %s.", daemon.SocketPath())
			return
		}
		if err := daemon.StopRunningDaemon(*force); err != nil {
			log.Fatalf("stop daemon: %v", err)
		}
		log.Printf("Daemon stopped.")
		return
	}

	if running {
		if !*force {
			pid, err := daemon.RunningPID()
			if err != nil {
				log.Fatalf("daemon answers on %s but its pid file is unreadable: %v", daemon.SocketPath(), err)
			}
			log.Printf("Daemon already serving (pid %d). Use -force to replace it.", pid)
			return
		}
		log.Printf("Replacing running daemon...")
		if err := daemon.StopRunningDaemon(true); err != nil {
			log.Fatalf("stop running daemon: %v", err)
		}
	}

	srv, err := daemon.StartDaemon(*configPath)
	if err != nil {
		log.Fatalf("start daemon: %v", err)
	}
	log.Printf("Daemon serving on %s (pid %d).", daemon.SocketPath(), os.Getpid())

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigc:
		log.Printf("Received %s, terminating tracked processes...", sig)
	case <-srv.Done():
		log.Printf("Server stopped serving, terminating tracked processes...")
	}
	if err := srv.Close(); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
	log.Printf("Daemon stopped.")
}
