package app

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"google.golang.org/grpc"

	"bgproc/api/bgprocv1"
)

func TestAppKillRequiresSelector(t *testing.T) {
	app := New(Options{})
	_, err := app.Kill(context.Background(), KillParams{
		Timeout:         time.Second,
		RequireSelector: true,
	})
	if err == nil || err.Error() != "provide at least one selector (--id/--tag/--status) or pass --all" {
		t.Fatalf("expected selector error, got %v", err)
	}
}

func TestAppKillRejectsBadStatus(t *testing.T) {
	app := New(Options{})
	_, err := app.Kill(context.Background(), KillParams{
		Filters:         ListFilters{Status: "zombie"},
		Timeout:         time.Second,
		RequireSelector: true,
	})
	if err == nil {
		t.Fatal("expected status validation error")
	}
}

func TestAppKillDaemonNotRunning(t *testing.T) {
	stubDaemon(t, false, nil)
	app := New(Options{})
	_, err := app.Kill(context.Background(), KillParams{
		ID:              "abc",
		Timeout:         time.Second,
		RequireSelector: true,
	})
	if err == nil || err.Error() != "daemon is not running" {
		t.Fatalf("expected daemon error, got %v", err)
	}
}

func TestAppKillDialError(t *testing.T) {
	stubDaemon(t, true, func(context.Context) (bgprocv1.BgProcClient, io.Closer, error) {
		return nil, nil, errors.New("dial failed")
	})
	app := New(Options{})
	_, err := app.Kill(context.Background(), KillParams{
		ID:              "abc",
		Timeout:         time.Second,
		RequireSelector: true,
	})
	if err == nil || err.Error() != "connect to daemon: dial failed" {
		t.Fatalf("expected dial error, got %v", err)
	}
}

func TestAppKillNoMatches(t *testing.T) {
	stubInvoke(t, func(ctx context.Context, method string, args interface{}, reply interface{}, opts ...grpc.CallOption) error {
		return nil
	})

	app := New(Options{})
	res, err := app.Kill(context.Background(), KillParams{
		Filters:         ListFilters{Tags: []string{"build"}},
		Timeout:         time.Second,
		RequireSelector: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Message != "No running processes match the provided selectors" {
		t.Fatalf("unexpected message: %q", res.Message)
	}
}

func TestAppKillByIDIgnoresFilters(t *testing.T) {
	stubInvoke(t, func(ctx context.Context, method string, args interface{}, reply interface{}, opts ...grpc.CallOption) error {
		req := args.(*bgprocv1.TerminateRequest)
		if req.Id != "p1" || req.SessionId != "" || len(req.Tags) != 0 {
			t.Fatalf("unexpected request %+v", req)
		}
		reply.(*bgprocv1.TerminateResponse).Ids = []string{"p1"}
		return nil
	})

	app := New(Options{SessionID: "S1"})
	res, err := app.Kill(context.Background(), KillParams{
		ID:              " p1 ",
		Filters:         ListFilters{Tags: []string{"x"}},
		Timeout:         time.Second,
		RequireSelector: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.IDs) != 1 || res.Message != "Terminated 1 process(es): p1" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestAppKillAllInSession(t *testing.T) {
	stubInvoke(t, func(ctx context.Context, method string, args interface{}, reply interface{}, opts ...grpc.CallOption) error {
		if method != bgprocv1.BgProc_Terminate_FullMethodName {
			t.Fatalf("unexpected method %s", method)
		}
		req := args.(*bgprocv1.TerminateRequest)
		if req.SessionId != "S1" || req.Status != "running" {
			t.Fatalf("unexpected request %+v", req)
		}
		reply.(*bgprocv1.TerminateResponse).Ids = []string{"a", "b", "c", "d", "e", "f"}
		return nil
	})

	app := New(Options{SessionID: "S1"})
	res, err := app.Kill(context.Background(), KillParams{
		Filters:         ListFilters{Status: "Running"},
		AllowAll:        true,
		Timeout:         time.Second,
		RequireSelector: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Message != "Terminated 6 process(es): a, b, c, d, e, ..." {
		t.Fatalf("unexpected message: %q", res.Message)
	}
}

func TestAppKillRPCError(t *testing.T) {
	stubInvoke(t, func(ctx context.Context, method string, args interface{}, reply interface{}, opts ...grpc.CallOption) error {
		return errors.New("boom")
	})
	app := New(Options{})
	_, err := app.Kill(context.Background(), KillParams{ID: "x", Timeout: time.Second})
	if err == nil || err.Error() != "daemon terminate RPC failed: boom" {
		t.Fatalf("expected wrapped RPC error, got %v", err)
	}
}
