package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"
)

var errKilled = errors.New("signal: killed")

type fakeHandle struct {
	pid        int
	outR, errR *io.PipeReader
	outW, errW *io.PipeWriter

	once    sync.Once
	done    chan struct{}
	exitErr error
}

func newFakeHandle(pid int) *fakeHandle {
	outR, outW := io.Pipe()
	errR, errW := io.Pipe()
	return &fakeHandle{
		pid:  pid,
		outR: outR,
		outW: outW,
		errR: errR,
		errW: errW,
		done: make(chan struct{}),
	}
}

func (h *fakeHandle) PID() int          { return h.pid }
func (h *fakeHandle) Stdout() io.Reader { return h.outR }
func (h *fakeHandle) Stderr() io.Reader { return h.errR }

func (h *fakeHandle) Wait() error {
	<-h.done
	_ = h.outW.Close()
	_ = h.errW.Close()
	return h.exitErr
}

func (h *fakeHandle) stdout(line string) {
	fmt.Fprintln(h.outW, line)
}

func (h *fakeHandle) stderr(line string) {
	fmt.Fprintln(h.errW, line)
}

// finish makes the process exit; only the first call counts.
func (h *fakeHandle) finish(err error) {
	h.once.Do(func() {
		h.exitErr = err
		close(h.done)
	})
}

type fakeLauncher struct {
	mu        sync.Mutex
	nextPID   int
	handles   []*fakeHandle
	byPID     map[int]*fakeHandle
	launchErr error
	killErr   error
	killed    []int
}

func newFakeLauncher() *fakeLauncher {
	return &fakeLauncher{nextPID: 1000, byPID: make(map[int]*fakeHandle)}
}

func (l *fakeLauncher) Launch(command string) (Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.launchErr != nil {
		return nil, l.launchErr
	}
	l.nextPID++
	h := newFakeHandle(l.nextPID)
	l.handles = append(l.handles, h)
	l.byPID[h.pid] = h
	return h, nil
}

func (l *fakeLauncher) Kill(pid int) error {
	l.mu.Lock()
	l.killed = append(l.killed, pid)
	err := l.killErr
	h := l.byPID[pid]
	l.mu.Unlock()
	if err != nil {
		return err
	}
	if h != nil {
		h.finish(errKilled)
	}
	return nil
}

func (l *fakeLauncher) last() *fakeHandle {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.handles[len(l.handles)-1]
}

func (l *fakeLauncher) setKillErr(err error) {
	l.mu.Lock()
	l.killErr = err
	l.mu.Unlock()
}

func (l *fakeLauncher) killCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.killed)
}

type recordingNotifier struct {
	ch chan string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{ch: make(chan string, 32)}
}

func (n *recordingNotifier) Notify(_ context.Context, sessionID, message string) error {
	n.ch <- sessionID + "|" + message
	return nil
}

func (n *recordingNotifier) next(t *testing.T) string {
	t.Helper()
	select {
	case msg := <-n.ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
		return ""
	}
}

func (n *recordingNotifier) none(t *testing.T, within time.Duration) {
	t.Helper()
	select {
	case msg := <-n.ch:
		t.Fatalf("unexpected notification %q", msg)
	case <-time.After(within):
	}
}

func newTestRegistry(t *testing.T, l *fakeLauncher, n Notifier) *Registry {
	t.Helper()
	reg, err := New(Options{Launcher: l, Notifier: n})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = reg.Shutdown(ctx)
	})
	return reg
}

func mustCreate(t *testing.T, reg *Registry, req CreateRequest) string {
	t.Helper()
	id, err := reg.Create(req)
	if err != nil {
		t.Fatalf("Create(%+v): %v", req, err)
	}
	return id
}

func waitForStatus(t *testing.T, reg *Registry, id string, want Status) Process {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		p, err := reg.Get(id)
		if err != nil {
			t.Fatalf("Get(%s): %v", id, err)
		}
		if p.Status == want {
			return p
		}
		if time.Now().After(deadline) {
			t.Fatalf("process %s status = %s, want %s", id, p.Status, want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func ids(procs []Process) []string {
	out := make([]string, 0, len(procs))
	for _, p := range procs {
		out = append(out, p.ID)
	}
	return out
}

func contains(lines []string, want string) bool {
	for _, l := range lines {
		if l == want {
			return true
		}
	}
	return false
}
