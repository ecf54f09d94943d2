package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"bgproc/api/bgprocv1"
	"bgproc/internal/daemon"
)

// ErrNotFound is returned when the daemon does not know a process id.
var ErrNotFound = errors.New("process not found")

var (
	daemonIsRunning  = daemon.IsRunning
	dialDaemonClient = defaultDial
)

func defaultDial(ctx context.Context) (bgprocv1.BgProcClient, io.Closer, error) {
	client, conn, err := daemon.Dial(ctx)
	if err != nil {
		return nil, nil, err
	}
	return client, conn, nil
}

func resetDaemonDeps() {
	daemonIsRunning = daemon.IsRunning
	dialDaemonClient = defaultDial
	daemonPID = daemon.RunningPID
	daemonSocket = daemon.SocketPath
}

func (a *App) withClient(ctx context.Context, timeout time.Duration, fn func(context.Context, bgprocv1.BgProcClient) error) error {
	if timeout <= 0 {
		return errors.New("timeout must be greater than 0")
	}
	if !daemonIsRunning() {
		return errors.New("daemon is not running")
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, conn, err := dialDaemonClient(ctx)
	if err != nil {
		return fmt.Errorf("connect to daemon: %w", err)
	}
	if conn != nil {
		defer conn.Close()
	}

	return fn(ctx, client)
}

// rpcError wraps a failed RPC, surfacing NotFound as ErrNotFound and
// stripping the status prefix from daemon-side validation messages.
func rpcError(op string, err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("daemon %s RPC failed: %w", op, err)
	}
	switch st.Code() {
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.InvalidArgument, codes.FailedPrecondition:
		return errors.New(st.Message())
	default:
		return fmt.Errorf("daemon %s RPC failed: %w", op, err)
	}
}
