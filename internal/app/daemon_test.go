package app

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestStatusStopped(t *testing.T) {
	stubDaemon(t, false, nil)
	daemonSocket = func() string { return "/tmp/bgproc-test.sock" }
	daemonPID = func() (int, error) {
		t.Fatal("pid must not be read when the daemon is down")
		return 0, nil
	}

	st, err := New(Options{}).Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Running || st.PID != 0 || st.Socket != "/tmp/bgproc-test.sock" {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestStatusRunning(t *testing.T) {
	stubDaemon(t, true, nil)
	daemonPID = func() (int, error) { return 4242, nil }

	st, err := New(Options{}).Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !st.Running || st.PID != 4242 {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestStatusMissingPIDFile(t *testing.T) {
	stubDaemon(t, true, nil)
	daemonPID = func() (int, error) { return 0, fmt.Errorf("open pid: %w", os.ErrNotExist) }

	st, err := New(Options{}).Status()
	if err != nil {
		t.Fatalf("missing pid file must not fail: %v", err)
	}
	if !st.Running || st.PID != 0 {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestStatusCorruptPIDFile(t *testing.T) {
	stubDaemon(t, true, nil)
	bad := errors.New("parse pid file: invalid syntax")
	daemonPID = func() (int, error) { return 0, bad }

	st, err := New(Options{}).Status()
	if !errors.Is(err, bad) || !st.Running {
		t.Fatalf("expected parse error with running status, got %+v %v", st, err)
	}
}

func TestNilDaemonHandleClose(t *testing.T) {
	var h *DaemonHandle
	if err := h.Close(); err != nil {
		t.Fatalf("Close on nil handle: %v", err)
	}
}
