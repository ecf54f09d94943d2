package osproc

import (
	"errors"
	"os"
	"syscall"
	"testing"
)

func TestSendSignalInvalidPID(t *testing.T) {
	for _, pid := range []int{0, -1} {
		if err := SendSignal(pid, syscall.SIGKILL); err == nil {
			t.Errorf("SendSignal(%d) should return error", pid)
		}
	}
}

func TestSendSignalNonExistentProcess(t *testing.T) {
	err := SendSignal(4999999, syscall.SIGKILL)
	if !errors.Is(err, ErrNoSuchProcess) {
		t.Fatalf("expected ErrNoSuchProcess, got %v", err)
	}
}

func TestParseSignal(t *testing.T) {
	tests := []struct {
		in   string
		want syscall.Signal
	}{
		{"SIGKILL", syscall.SIGKILL},
		{"term", syscall.SIGTERM},
		{" SIGINT ", syscall.SIGINT},
		{"hup", syscall.SIGHUP},
	}
	for _, tt := range tests {
		got, err := ParseSignal(tt.in)
		if err != nil {
			t.Errorf("ParseSignal(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSignal(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseSignal("SIGSTOP"); err == nil {
		t.Error("expected error for unsupported signal")
	}
}

func TestAlive(t *testing.T) {
	if !Alive(os.Getpid()) {
		t.Error("current process should be alive")
	}
	if Alive(0) || Alive(4999999) {
		t.Error("invalid pids must not be alive")
	}
}
