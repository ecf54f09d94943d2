package osproc

import (
	"errors"
	"fmt"
	"strings"
	"syscall"
)

// ErrNoSuchProcess is returned when the target process does not exist.
var ErrNoSuchProcess = errors.New("no such process")

var signalNames = map[string]syscall.Signal{
	"KILL": syscall.SIGKILL,
	"TERM": syscall.SIGTERM,
	"INT":  syscall.SIGINT,
	"HUP":  syscall.SIGHUP,
	"QUIT": syscall.SIGQUIT,
}

// ParseSignal accepts names like "SIGTERM", "term" or "KILL".
func ParseSignal(name string) (syscall.Signal, error) {
	key := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(name)), "SIG")
	if sig, ok := signalNames[key]; ok {
		return sig, nil
	}
	return 0, fmt.Errorf("unsupported signal %q", name)
}

// SendSignal signals the process group of pid first so children of the shell
// go down with it. If pid does not lead a group it is signalled directly.
func SendSignal(pid int, sig syscall.Signal) error {
	if pid <= 0 {
		return fmt.Errorf("invalid PID: %d", pid)
	}

	pgErr := syscall.Kill(-pid, sig)
	if pgErr == nil {
		return nil
	}
	if !errors.Is(pgErr, syscall.ESRCH) && !errors.Is(pgErr, syscall.EPERM) {
		return fmt.Errorf("signal process group %d: %w", pid, pgErr)
	}

	pidErr := syscall.Kill(pid, sig)
	if pidErr == nil {
		return nil
	}
	if errors.Is(pidErr, syscall.ESRCH) {
		return ErrNoSuchProcess
	}
	return fmt.Errorf("signal PID %d: %w", pid, pidErr)
}

// Alive reports whether pid exists. EPERM still counts as alive.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}
