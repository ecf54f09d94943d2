package app

import (
	"fmt"
	"strings"
	"time"

	"bgproc/api/bgprocv1"
)

var validStatuses = []string{"pending", "running", "completed", "failed", "cancelled"}

// Process mirrors the daemon registry entry.
type Process struct {
	ID          string
	Name        string
	Command     string
	Status      string
	Output      []string
	OutputLines int
	StartedAt   time.Time
	CompletedAt time.Time
	Error       string
	SessionID   string
	Tags        []string
	PID         int
	Global      bool
}

// Terminal reports whether the process already finished.
func (p Process) Terminal() bool {
	switch p.Status {
	case "completed", "failed", "cancelled":
		return true
	}
	return false
}

// Runtime is the time spent running so far, or in total once finished.
func (p Process) Runtime(now time.Time) time.Duration {
	if p.StartedAt.IsZero() {
		return 0
	}
	end := now
	if !p.CompletedAt.IsZero() {
		end = p.CompletedAt
	}
	return end.Sub(p.StartedAt)
}

func procFromProto(p *bgprocv1.Process) Process {
	return Process{
		ID:          p.Id,
		Name:        p.Name,
		Command:     p.Command,
		Status:      p.Status,
		Output:      append([]string(nil), p.Output...),
		OutputLines: int(p.OutputLines),
		StartedAt:   fromUnixNano(p.StartedAtUnixNano),
		CompletedAt: fromUnixNano(p.CompletedAtUnixNano),
		Error:       p.Error,
		SessionID:   p.SessionId,
		Tags:        append([]string(nil), p.Tags...),
		PID:         int(p.Pid),
		Global:      p.Global,
	}
}

func fromUnixNano(ns int64) time.Time {
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// ListFilters aggregates selectors shared across commands.
type ListFilters struct {
	Tags        []string
	Status      string
	AllSessions bool // ignore the controller's session
}

func (f ListFilters) empty() bool {
	return len(f.Tags) == 0 && strings.TrimSpace(f.Status) == ""
}

func (f ListFilters) validate() (status string, tags []string, err error) {
	status = strings.ToLower(strings.TrimSpace(f.Status))
	if status != "" && !contains(validStatuses, status) {
		return "", nil, fmt.Errorf("invalid status filter %q (want one of %s)", f.Status, strings.Join(validStatuses, ", "))
	}
	for _, tag := range f.Tags {
		clean := strings.TrimSpace(tag)
		if clean == "" {
			return "", nil, fmt.Errorf("tag filters must not be empty")
		}
		tags = append(tags, clean)
	}
	return status, tags, nil
}

func (a *App) sessionFor(f ListFilters) string {
	if f.AllSessions {
		return ""
	}
	return a.session
}

func (a *App) buildListRequest(f ListFilters) (*bgprocv1.ListRequest, error) {
	status, tags, err := f.validate()
	if err != nil {
		return nil, err
	}
	return &bgprocv1.ListRequest{SessionId: a.sessionFor(f), Status: status, Tags: tags}, nil
}

func contains(xs []string, want string) bool {
	for _, x := range xs {
		if x == want {
			return true
		}
	}
	return false
}

func joinSampleIDs(ids []string) string {
	limit := 5
	out := make([]string, 0, limit+1)
	for i := 0; i < len(ids) && i < limit; i++ {
		out = append(out, ids[i])
	}
	if len(ids) > limit {
		out = append(out, "...")
	}
	return strings.Join(out, ", ")
}
