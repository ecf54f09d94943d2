package registry

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Status is the lifecycle state of a tracked process.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transitions are possible from s.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// ParseStatus validates a status name. The empty string is accepted and
// means "any status" in filters.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case "", StatusPending, StatusRunning, StatusCompleted, StatusFailed, StatusCancelled:
		return s, nil
	default:
		return "", fmt.Errorf("unknown status %q", raw)
	}
}

// Process is a point-in-time copy of a tracked process. It is safe to keep
// and read after the registry keeps mutating the underlying record.
type Process struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Command     string    `json:"command"`
	Status      Status    `json:"status"`
	Output      []string  `json:"output"`
	OutputLines int       `json:"output_lines"` // total lines held, before the retrieval cap
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	Error       string    `json:"error,omitempty"`
	SessionID   string    `json:"session_id"`
	Tags        []string  `json:"tags,omitempty"`
	PID         int       `json:"pid"`
	Global      bool      `json:"global"`
}

// CreateRequest describes a command to launch and track.
type CreateRequest struct {
	Command   string
	Name      string // defaults to Command
	Tags      []string
	SessionID string
	Global    bool // survives EndSession
}

// Filter narrows List and Terminate. Zero fields match everything.
type Filter struct {
	SessionID string
	Status    Status
	Tags      []string // include if the process has ANY of these tags
}

// Criteria selects processes for termination. A non-empty ID wins over the
// embedded filter.
type Criteria struct {
	ID string
	Filter
}

// Stats counts tracked processes per status.
type Stats struct {
	Total  int
	Counts map[Status]int
}

// Handle is a launched OS process.
type Handle interface {
	PID() int
	Stdout() io.Reader
	Stderr() io.Reader
	// Wait blocks until the process exits and its output streams are closed.
	// A nil error means a zero exit status.
	Wait() error
}

// Launcher spawns shell commands and delivers signals to them.
type Launcher interface {
	Launch(command string) (Handle, error)
	Kill(pid int) error
}

// Notifier delivers a text message to a session. Failures never affect the
// process record.
type Notifier interface {
	Notify(ctx context.Context, sessionID, message string) error
}

// EventKind classifies lifecycle events handed to a Recorder.
type EventKind string

const (
	EventCreated   EventKind = "created"
	EventCompleted EventKind = "completed"
	EventFailed    EventKind = "failed"
	EventCancelled EventKind = "cancelled"
	EventRemoved   EventKind = "removed"
)

// Event is a lifecycle transition of one process.
type Event struct {
	Kind      EventKind
	ProcessID string
	SessionID string
	Name      string
	Command   string
	PID       int
	Detail    string
	At        time.Time
}

// Recorder receives lifecycle events on a best-effort basis.
type Recorder interface {
	RecordEvent(ctx context.Context, ev Event) error
}
