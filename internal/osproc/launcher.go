// Package osproc starts shell commands as detached process groups and
// delivers kill signals to them.
package osproc

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"bgproc/internal/registry"
)

const (
	DefaultShell = "/bin/sh"
	// waitDelay bounds how long Wait keeps copying output after the shell
	// exits while a grandchild still holds the pipes open.
	waitDelay = 2 * time.Second
)

// Launcher runs commands through a shell. It implements registry.Launcher.
type Launcher struct {
	shell  string
	signal syscall.Signal
}

// New returns a launcher using shell (DefaultShell when empty) and sig for
// terminations (SIGKILL when zero).
func New(shell string, sig syscall.Signal) *Launcher {
	if strings.TrimSpace(shell) == "" {
		shell = DefaultShell
	}
	if sig == 0 {
		sig = syscall.SIGKILL
	}
	return &Launcher{shell: shell, signal: sig}
}

func (l *Launcher) Shell() string { return l.shell }

func (l *Launcher) Signal() syscall.Signal { return l.signal }

// Launch starts "<shell> -c command" in a new process group and returns once
// the process exists.
func (l *Launcher) Launch(command string) (registry.Handle, error) {
	if strings.TrimSpace(command) == "" {
		return nil, errors.New("empty command")
	}
	cmd := exec.Command(l.shell, "-c", command)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.WaitDelay = waitDelay

	outR, outW := io.Pipe()
	errR, errW := io.Pipe()
	cmd.Stdout = outW
	cmd.Stderr = errW

	if err := cmd.Start(); err != nil {
		_ = outW.Close()
		_ = errW.Close()
		return nil, fmt.Errorf("start %s: %w", l.shell, err)
	}
	return &handle{cmd: cmd, outR: outR, errR: errR, outW: outW, errW: errW}, nil
}

// Kill sends the configured signal to the process group of pid, falling back
// to the single process.
func (l *Launcher) Kill(pid int) error {
	return SendSignal(pid, l.signal)
}

type handle struct {
	cmd        *exec.Cmd
	outR, errR *io.PipeReader
	outW, errW *io.PipeWriter
}

func (h *handle) PID() int          { return h.cmd.Process.Pid }
func (h *handle) Stdout() io.Reader { return h.outR }
func (h *handle) Stderr() io.Reader { return h.errR }

// Wait blocks until the process exits and its output has been handed over,
// then closes both streams so readers see EOF.
func (h *handle) Wait() error {
	err := h.cmd.Wait()
	_ = h.outW.Close()
	_ = h.errW.Close()
	if errors.Is(err, exec.ErrWaitDelay) {
		// The shell itself exited cleanly; only leftover children kept the
		// pipes open.
		return nil
	}
	return err
}
