package app

import (
	"context"
	"time"

	"bgproc/api/bgprocv1"
)

// Notice is a lifecycle message delivered to the session.
type Notice struct {
	Text string
	At   time.Time
}

// Event is one persisted lifecycle transition.
type Event struct {
	Kind      string
	ProcessID string
	SessionID string
	Name      string
	Command   string
	PID       int
	Detail    string
	At        time.Time
}

// EndSession terminates and forgets every non-global process of the
// controller's session.
func (a *App) EndSession(ctx context.Context, timeout time.Duration) ([]string, error) {
	var ids []string
	err := a.withClient(ctx, timeout, func(ctx context.Context, client bgprocv1.BgProcClient) error {
		resp, err := client.EndSession(ctx, &bgprocv1.EndSessionRequest{SessionId: a.session})
		if err != nil {
			return rpcError("end session", err)
		}
		ids = append([]string(nil), resp.GetIds()...)
		return nil
	})
	return ids, err
}

// Notices returns completion and failure messages queued for the session.
// With drain set they are removed from the daemon.
func (a *App) Notices(ctx context.Context, drain bool, timeout time.Duration) ([]Notice, error) {
	var notices []Notice
	err := a.withClient(ctx, timeout, func(ctx context.Context, client bgprocv1.BgProcClient) error {
		resp, err := client.Notices(ctx, &bgprocv1.NoticesRequest{SessionId: a.session, Drain: drain})
		if err != nil {
			return rpcError("notices", err)
		}
		notices = make([]Notice, 0, len(resp.GetNotices()))
		for _, n := range resp.GetNotices() {
			notices = append(notices, Notice{Text: n.Text, At: fromUnixNano(n.AtUnixNano)})
		}
		return nil
	})
	return notices, err
}

// HistoryParams narrows the persisted event log.
type HistoryParams struct {
	ProcessID   string
	AllSessions bool
	Limit       int
	Timeout     time.Duration
}

// History reads lifecycle events recorded by the daemon.
func (a *App) History(ctx context.Context, params HistoryParams) ([]Event, error) {
	req := &bgprocv1.HistoryRequest{ProcessId: params.ProcessID, Limit: int32(params.Limit)}
	if !params.AllSessions && params.ProcessID == "" {
		req.SessionId = a.session
	}

	var events []Event
	err := a.withClient(ctx, params.Timeout, func(ctx context.Context, client bgprocv1.BgProcClient) error {
		resp, err := client.History(ctx, req)
		if err != nil {
			return rpcError("history", err)
		}
		events = make([]Event, 0, len(resp.GetEvents()))
		for _, ev := range resp.GetEvents() {
			events = append(events, Event{
				Kind:      ev.Kind,
				ProcessID: ev.ProcessId,
				SessionID: ev.SessionId,
				Name:      ev.Name,
				Command:   ev.Command,
				PID:       int(ev.Pid),
				Detail:    ev.Detail,
				At:        fromUnixNano(ev.AtUnixNano),
			})
		}
		return nil
	})
	return events, err
}
