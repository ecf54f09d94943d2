package history

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"bgproc/internal/osproc"
	"bgproc/internal/registry"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
}

func TestRecordAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	events := []registry.Event{
		{Kind: registry.EventCreated, ProcessID: "p1", SessionID: "S1", Name: "build", Command: "make", PID: 10, At: base},
		{Kind: registry.EventCreated, ProcessID: "p2", SessionID: "S2", Name: "test", Command: "go test", PID: 11, At: base.Add(time.Second)},
		{Kind: registry.EventFailed, ProcessID: "p1", SessionID: "S1", Name: "build", Command: "make", PID: 10, Detail: "exit status 2", At: base.Add(2 * time.Second)},
	}
	// Insert out of order; listing sorts by timestamp.
	for _, i := range []int{2, 0, 1} {
		if err := s.RecordEvent(ctx, events[i]); err != nil {
			t.Fatalf("RecordEvent: %v", err)
		}
	}

	all, err := s.List(ctx, Query{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}
	for i, ev := range all {
		want := events[i]
		if !ev.At.Equal(want.At) {
			t.Fatalf("event %d at %v, want %v", i, ev.At, want.At)
		}
		ev.At = want.At
		if ev != want {
			t.Fatalf("event %d = %+v, want %+v", i, ev, want)
		}
	}

	s1, err := s.List(ctx, Query{SessionID: "S1"})
	if err != nil {
		t.Fatalf("List(S1): %v", err)
	}
	if len(s1) != 2 || s1[1].Kind != registry.EventFailed || s1[1].Detail != "exit status 2" {
		t.Fatalf("unexpected session events %+v", s1)
	}

	p2, err := s.List(ctx, Query{ProcessID: "p2"})
	if err != nil {
		t.Fatalf("List(p2): %v", err)
	}
	if len(p2) != 1 || p2[0].Name != "test" {
		t.Fatalf("unexpected process events %+v", p2)
	}
}

func TestListLimitKeepsNewest(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		ev := registry.Event{Kind: registry.EventCreated, ProcessID: string(rune('a' + i)), At: base.Add(time.Duration(i) * time.Millisecond)}
		if err := s.RecordEvent(ctx, ev); err != nil {
			t.Fatalf("RecordEvent: %v", err)
		}
	}
	got, err := s.List(ctx, Query{Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ProcessID != "d" || got[1].ProcessID != "e" {
		t.Fatalf("unexpected limited events %+v", got)
	}
}

func TestRecorderIntegration(t *testing.T) {
	s := newTestStore(t)
	var _ registry.Recorder = s

	if err := s.RecordEvent(context.Background(), registry.Event{Kind: registry.EventRemoved, ProcessID: "x"}); err != nil {
		t.Fatalf("RecordEvent without timestamp: %v", err)
	}
	got, err := s.List(context.Background(), Query{ProcessID: "x"})
	if err != nil || len(got) != 1 || got[0].At.IsZero() {
		t.Fatalf("expected stamped event, got %+v (%v)", got, err)
	}
}

func TestShutdownPersistsCancelledEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	reg, err := registry.New(registry.Options{
		Launcher: osproc.New("", syscall.SIGKILL),
		Recorder: store,
	})
	if err != nil {
		t.Fatalf("registry.New: %v", err)
	}
	id, err := reg.Create(registry.CreateRequest{Command: "sleep 30", SessionID: "S1"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := reg.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	events, err := reopened.List(context.Background(), Query{ProcessID: id})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var kinds []registry.EventKind
	for _, ev := range events {
		kinds = append(kinds, ev.Kind)
	}
	if len(kinds) != 2 || kinds[1] != registry.EventCancelled {
		t.Fatalf("expected created then cancelled for %s, got %v", id, kinds)
	}
}
