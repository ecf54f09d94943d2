package daemon

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"bgproc/api/bgprocv1"
	"bgproc/internal/config"
	"bgproc/internal/history"
	"bgproc/internal/notify"
	"bgproc/internal/osproc"
	"bgproc/internal/registry"
)

// DefaultSession owns processes created without an explicit session.
const DefaultSession = "default"

// service implements the BgProc gRPC service backed by the registry.
type service struct {
	bgprocv1.UnimplementedBgProcServer

	reg     *registry.Registry
	inbox   *notify.Inbox
	history *history.Store // nil when history is disabled
}

func newService(cfg config.Config) (*service, error) {
	sig, err := osproc.ParseSignal(cfg.KillSignal)
	if err != nil {
		return nil, fmt.Errorf("kill_signal: %w", err)
	}

	inbox := notify.NewInbox(cfg.InboxSize)
	opts := registry.Options{
		Launcher:    osproc.New(cfg.Shell, sig),
		Notifier:    notify.Multi{inbox, notify.NewDesktop(cfg.DesktopNotify)},
		DetailLines: cfg.DetailLines,
		ListLines:   cfg.ListLines,
	}

	var store *history.Store
	if cfg.HistoryPath != "" {
		store, err = history.Open(cfg.HistoryPath)
		if err != nil {
			return nil, err
		}
		opts.Recorder = store
	}

	reg, err := registry.New(opts)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}
	return &service{reg: reg, inbox: inbox, history: store}, nil
}

// shutdown terminates every tracked process, then releases the history db.
func (s *service) shutdown(ctx context.Context) error {
	err := s.reg.Shutdown(ctx)
	if s.history != nil {
		if cerr := s.history.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func (s *service) Ping(ctx context.Context, _ *bgprocv1.PingRequest) (*bgprocv1.PingResponse, error) {
	st := s.reg.Stats()
	resp := &bgprocv1.PingResponse{Ok: "pong", Total: int32(st.Total), Counts: make(map[string]int32, len(st.Counts))}
	for k, v := range st.Counts {
		resp.Counts[string(k)] = int32(v)
	}
	return resp, nil
}

func (s *service) Create(ctx context.Context, req *bgprocv1.CreateRequest) (*bgprocv1.CreateResponse, error) {
	id, err := s.reg.Create(registry.CreateRequest{
		Command:   req.Command,
		Name:      req.Name,
		Tags:      req.Tags,
		SessionID: sessionOrDefault(req.SessionId),
		Global:    req.Global,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &bgprocv1.CreateResponse{Id: id}, nil
}

func (s *service) Get(ctx context.Context, req *bgprocv1.GetRequest) (*bgprocv1.GetResponse, error) {
	if strings.TrimSpace(req.Id) == "" {
		return nil, status.Error(codes.InvalidArgument, "id must be provided")
	}
	p, err := s.reg.Get(req.Id)
	if err != nil {
		return nil, toStatus(err)
	}
	return &bgprocv1.GetResponse{Process: procToProto(p)}, nil
}

func (s *service) List(ctx context.Context, req *bgprocv1.ListRequest) (*bgprocv1.ListResponse, error) {
	f, err := filterFromRequest(req.SessionId, req.Status, req.Tags)
	if err != nil {
		return nil, err
	}
	ps := s.reg.List(f)
	resp := &bgprocv1.ListResponse{Processes: make([]*bgprocv1.Process, 0, len(ps))}
	for _, p := range ps {
		resp.Processes = append(resp.Processes, procToProto(p))
	}
	return resp, nil
}

func (s *service) Terminate(ctx context.Context, req *bgprocv1.TerminateRequest) (*bgprocv1.TerminateResponse, error) {
	f, err := filterFromRequest(req.SessionId, req.Status, req.Tags)
	if err != nil {
		return nil, err
	}
	ids := s.reg.Terminate(registry.Criteria{ID: strings.TrimSpace(req.Id), Filter: f})
	return &bgprocv1.TerminateResponse{Ids: ids}, nil
}

func (s *service) Remove(ctx context.Context, req *bgprocv1.RemoveRequest) (*bgprocv1.RemoveResponse, error) {
	if strings.TrimSpace(req.Id) == "" {
		return nil, status.Error(codes.InvalidArgument, "id must be provided")
	}
	if !s.reg.Remove(req.Id) {
		return nil, status.Errorf(codes.NotFound, "process %s not found", req.Id)
	}
	return &bgprocv1.RemoveResponse{}, nil
}

func (s *service) EndSession(ctx context.Context, req *bgprocv1.EndSessionRequest) (*bgprocv1.EndSessionResponse, error) {
	session := sessionOrDefault(req.SessionId)
	ids := s.reg.EndSession(session)
	s.inbox.Forget(session)
	return &bgprocv1.EndSessionResponse{Ids: ids}, nil
}

func (s *service) Notices(ctx context.Context, req *bgprocv1.NoticesRequest) (*bgprocv1.NoticesResponse, error) {
	session := sessionOrDefault(req.SessionId)
	var msgs []notify.Message
	if req.Drain {
		msgs = s.inbox.Drain(session)
	} else {
		msgs = s.inbox.List(session)
	}
	resp := &bgprocv1.NoticesResponse{Notices: make([]*bgprocv1.Notice, 0, len(msgs))}
	for _, m := range msgs {
		resp.Notices = append(resp.Notices, &bgprocv1.Notice{SessionId: m.SessionID, Text: m.Text, AtUnixNano: m.At.UnixNano()})
	}
	return resp, nil
}

func (s *service) History(ctx context.Context, req *bgprocv1.HistoryRequest) (*bgprocv1.HistoryResponse, error) {
	if s.history == nil {
		return nil, status.Error(codes.FailedPrecondition, "history is disabled (set history_path in the daemon config)")
	}
	events, err := s.history.List(ctx, history.Query{SessionID: req.SessionId, ProcessID: req.ProcessId, Limit: int(req.Limit)})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "history query failed: %v", err)
	}
	resp := &bgprocv1.HistoryResponse{Events: make([]*bgprocv1.Event, 0, len(events))}
	for _, ev := range events {
		resp.Events = append(resp.Events, &bgprocv1.Event{
			Kind:       string(ev.Kind),
			ProcessId:  ev.ProcessID,
			SessionId:  ev.SessionID,
			Name:       ev.Name,
			Command:    ev.Command,
			Pid:        int32(ev.PID),
			Detail:     ev.Detail,
			AtUnixNano: ev.At.UnixNano(),
		})
	}
	return resp, nil
}

func filterFromRequest(session, rawStatus string, tags []string) (registry.Filter, error) {
	st, err := registry.ParseStatus(strings.TrimSpace(rawStatus))
	if err != nil {
		return registry.Filter{}, status.Error(codes.InvalidArgument, err.Error())
	}
	return registry.Filter{SessionID: strings.TrimSpace(session), Status: st, Tags: tags}, nil
}

func sessionOrDefault(session string) string {
	if s := strings.TrimSpace(session); s != "" {
		return s
	}
	return DefaultSession
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, registry.ErrEmptyCommand):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, registry.ErrClosed):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func procToProto(p registry.Process) *bgprocv1.Process {
	return &bgprocv1.Process{
		Id:                  p.ID,
		Name:                p.Name,
		Command:             p.Command,
		Status:              string(p.Status),
		Output:              p.Output,
		OutputLines:         int32(p.OutputLines),
		StartedAtUnixNano:   unixNano(p.StartedAt),
		CompletedAtUnixNano: unixNano(p.CompletedAt),
		Error:               p.Error,
		SessionId:           p.SessionID,
		Tags:                p.Tags,
		Pid:                 int32(p.PID),
		Global:              p.Global,
	}
}

func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}
