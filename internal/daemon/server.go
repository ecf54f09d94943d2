package daemon

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"sync"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"bgproc/api/bgprocv1"
	"bgproc/internal/config"
)

// Server owns the gRPC server, its UNIX listener and the process registry.
type Server struct {
	grpc   *grpc.Server
	health *health.Server
	svc    *service
	ln     net.Listener
	path   string

	shutdownTimeout time.Duration

	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// StartDaemon loads the config, binds the UNIX socket and starts serving.
func StartDaemon(cfgPath string) (*Server, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if err := EnsureRuntimeDir(); err != nil {
		return nil, fmt.Errorf("create runtime dir: %w", err)
	}
	path := SocketPath()

	// If stale socket file exists but daemon is not running, remove it
	if _, err := os.Stat(path); err == nil {
		if IsRunning() {
			return nil, fmt.Errorf("daemon already running on %s", path)
		}
		if err := os.Remove(path); err != nil {
			return nil, err
		}
	}

	svc, err := newService(cfg)
	if err != nil {
		return nil, err
	}

	ln, err := net.Listen("unix", path)
	if err != nil {
		_ = svc.shutdown(context.Background())
		return nil, err
	}
	if err := os.Chmod(path, 0o600); err != nil {
		ln.Close()
		_ = svc.shutdown(context.Background())
		return nil, err
	}

	s := newServer(svc, ln, cfg.ShutdownTimeout)
	s.path = path
	if err := WritePID(os.Getpid()); err != nil {
		s.Close()
		return nil, err
	}
	go s.serve()
	log.Printf("bgproc daemon listening on %s (shell %s, history %q)", path, cfg.Shell, cfg.HistoryPath)
	return s, nil
}

func newServer(svc *service, ln net.Listener, shutdownTimeout time.Duration) *Server {
	if shutdownTimeout <= 0 {
		shutdownTimeout = config.DefaultShutdownTimeout
	}
	gs := grpc.NewServer()
	bgprocv1.RegisterBgProcServer(gs, svc)

	hs := health.NewServer()
	hs.SetServingStatus(bgprocv1.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)

	return &Server{
		grpc:            gs,
		health:          hs,
		svc:             svc,
		ln:              ln,
		shutdownTimeout: shutdownTimeout,
		done:            make(chan struct{}),
	}
}

func (s *Server) serve() {
	defer close(s.done)
	if err := s.grpc.Serve(s.ln); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		log.Printf("grpc serve: %v", err)
	}
}

// Done is closed once the server stopped serving.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Close stops serving, terminates every tracked process and unlinks the
// socket and pid file. It is safe to call more than once.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.close()
	})
	return s.closeErr
}

func (s *Server) close() error {
	s.health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(s.shutdownTimeout):
		s.grpc.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	var errs []error
	if err := s.svc.shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown registry: %w", err))
	}
	if s.path != "" {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
		if err := RemovePID(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// StopRunningDaemon sends a termination signal to the currently running daemon if any.
func StopRunningDaemon(force bool) error {
	pid, err := RunningPID()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if IsRunning() {
				return fmt.Errorf("daemon is running but PID file %q is missing; stop it manually", PIDPath())
			}
			return nil
		}
		return fmt.Errorf("unable to read daemon PID: %w", err)
	}
	if pid == os.Getpid() {
		return errors.New("refusing to stop current process")
	}
	if !looksLikeDaemon(pid) {
		log.Printf("pid %d from %s is not a bgproc daemon; removing stale pid file", pid, PIDPath())
		return RemovePID()
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	if err := sendSignal(proc, syscall.SIGTERM); err != nil {
		return err
	}
	if waitForShutdown(3 * time.Second) {
		return nil
	}
	if !force {
		return fmt.Errorf("daemon process %d did not exit after SIGTERM", pid)
	}
	if err := sendSignal(proc, syscall.SIGKILL); err != nil {
		return err
	}
	if waitForShutdown(2 * time.Second) {
		return nil
	}
	return fmt.Errorf("daemon process %d did not exit after SIGKILL", pid)
}

func sendSignal(proc *os.Process, sig syscall.Signal) error {
	if err := proc.Signal(sig); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			_ = RemovePID()
			return nil
		}
		return err
	}
	return nil
}

func waitForShutdown(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if !IsRunning() {
			_ = RemovePID()
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(100 * time.Millisecond)
	}
}
