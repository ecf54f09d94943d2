package app

import (
	"errors"
	"os"

	"bgproc/internal/daemon"
)

// DaemonStatus describes the daemon as seen from a client.
type DaemonStatus struct {
	Running bool
	PID     int    // 0 when the pid file is missing or unreadable
	Socket  string // socket path the controller dials
}

var (
	daemonPID    = daemon.RunningPID
	daemonSocket = daemon.SocketPath
)

// Status reports whether the daemon answers health checks. A missing pid
// file on a live daemon is not an error; the pid is simply left at zero.
func (a *App) Status() (DaemonStatus, error) {
	st := DaemonStatus{Socket: daemonSocket()}
	if !daemonIsRunning() {
		return st, nil
	}
	st.Running = true
	pid, err := daemonPID()
	switch {
	case err == nil:
		st.PID = pid
	case errors.Is(err, os.ErrNotExist):
	default:
		return st, err
	}
	return st, nil
}

// StopDaemon signals the running daemon; force escalates to SIGKILL.
func (a *App) StopDaemon(force bool) error {
	return daemon.StopRunningDaemon(force)
}

// DaemonHandle owns a daemon started inside this process.
type DaemonHandle struct {
	srv *daemon.Server
}

// Close stops serving and terminates every process the daemon tracks.
func (h *DaemonHandle) Close() error {
	if h == nil || h.srv == nil {
		return nil
	}
	return h.srv.Close()
}

// StartDaemon serves in-process using the controller's config file.
func (a *App) StartDaemon() (*DaemonHandle, error) {
	srv, err := daemon.StartDaemon(a.cfgPath)
	if err != nil {
		return nil, err
	}
	return &DaemonHandle{srv: srv}, nil
}
