package app

import (
	"context"
	"errors"
	"io"
	"testing"

	"google.golang.org/grpc"

	"bgproc/api/bgprocv1"
)

type fakeConn struct {
	invoke func(ctx context.Context, method string, args interface{}, reply interface{}, opts ...grpc.CallOption) error
}

func (f *fakeConn) Invoke(ctx context.Context, method string, args interface{}, reply interface{}, opts ...grpc.CallOption) error {
	if f.invoke != nil {
		return f.invoke(ctx, method, args, reply, opts...)
	}
	return nil
}

func (f *fakeConn) NewStream(ctx context.Context, desc *grpc.StreamDesc, method string, opts ...grpc.CallOption) (grpc.ClientStream, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeConn) Close() error { return nil }

func stubDaemon(t *testing.T, running bool, dial func(context.Context) (bgprocv1.BgProcClient, io.Closer, error)) {
	t.Helper()
	resetDaemonDeps()
	daemonIsRunning = func() bool { return running }
	if dial == nil {
		dial = func(context.Context) (bgprocv1.BgProcClient, io.Closer, error) {
			return nil, nil, errors.New("dial not stubbed")
		}
	}
	dialDaemonClient = dial
	t.Cleanup(resetDaemonDeps)
}

// stubInvoke wires a fake connection whose calls are answered by invoke.
func stubInvoke(t *testing.T, invoke func(ctx context.Context, method string, args interface{}, reply interface{}, opts ...grpc.CallOption) error) {
	t.Helper()
	stubDaemon(t, true, func(context.Context) (bgprocv1.BgProcClient, io.Closer, error) {
		conn := &fakeConn{invoke: invoke}
		return bgprocv1.NewBgProcClient(conn), conn, nil
	})
}
