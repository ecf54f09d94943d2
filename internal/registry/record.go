package registry

import (
	"sync"
	"time"
)

// Line prefixes marking where an output line came from.
const (
	stderrPrefix         = "[stderr] "
	terminatedPrefix     = "[terminated] "
	terminateErrorPrefix = "[terminate-error] "
	fatalPrefix          = "[fatal] "
)

// outputBuffer is the ordered, append-only line log of one process.
// Storage is never truncated; tail caps what retrieval hands out.
type outputBuffer struct {
	lines []string
}

func (b *outputBuffer) append(line string) {
	b.lines = append(b.lines, line)
}

func (b *outputBuffer) len() int {
	return len(b.lines)
}

// tail copies the last n lines. n <= 0 returns every line.
func (b *outputBuffer) tail(n int) []string {
	start := 0
	if n > 0 && len(b.lines) > n {
		start = len(b.lines) - n
	}
	out := make([]string, len(b.lines)-start)
	copy(out, b.lines[start:])
	return out
}

// record is the mutable state of one tracked process. Identity fields are
// written once before the record is published; everything below mu is
// guarded by it.
type record struct {
	seq       uint64
	id        string
	name      string
	command   string
	sessionID string
	tags      []string
	global    bool

	mu          sync.Mutex
	status      Status
	pid         int
	out         outputBuffer
	startedAt   time.Time
	completedAt time.Time
	err         string
}

// compareAndSetStatusLocked moves the record into to if it is not terminal
// yet. Callers hold rec.mu. completedAt is stamped on the transition into a
// terminal state and never again.
func (rec *record) compareAndSetStatusLocked(to Status) bool {
	if rec.status.Terminal() {
		return false
	}
	rec.status = to
	if to.Terminal() {
		rec.completedAt = now()
	}
	return true
}

func (rec *record) appendLine(line string) {
	rec.mu.Lock()
	rec.out.append(line)
	rec.mu.Unlock()
}

func (rec *record) currentStatus() Status {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.status
}

func (rec *record) snapshot(lines int) Process {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return Process{
		ID:          rec.id,
		Name:        rec.name,
		Command:     rec.command,
		Status:      rec.status,
		Output:      rec.out.tail(lines),
		OutputLines: rec.out.len(),
		StartedAt:   rec.startedAt,
		CompletedAt: rec.completedAt,
		Error:       rec.err,
		SessionID:   rec.sessionID,
		Tags:        append([]string(nil), rec.tags...),
		PID:         rec.pid,
		Global:      rec.global,
	}
}

func (rec *record) event(kind EventKind, detail string) Event {
	rec.mu.Lock()
	pid := rec.pid
	rec.mu.Unlock()
	return Event{
		Kind:      kind,
		ProcessID: rec.id,
		SessionID: rec.sessionID,
		Name:      rec.name,
		Command:   rec.command,
		PID:       pid,
		Detail:    detail,
		At:        now(),
	}
}
