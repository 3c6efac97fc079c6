package grpc

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/LeJamon/goPresale/internal/core/ledger/service"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// ErrServerRunning is returned when a running server is started again.
var ErrServerRunning = errors.New("server is already running")

// Server represents the gRPC server for presale operations.
type Server struct {
	mu sync.RWMutex

	// grpcServer is the underlying gRPC server
	grpcServer *grpc.Server

	// config holds the server configuration
	config *ServerConfig

	log logrus.FieldLogger

	// listener is the network listener
	listener net.Listener

	// running indicates if the server is currently running
	running bool
}

// NewServer creates a gRPC server answering from svc.
func NewServer(cfg *ServerConfig, svc *service.Service, log logrus.FieldLogger) (*Server, error) {
	if cfg == nil {
		cfg = DefaultServerConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("component", "grpc")

	opts := []grpc.ServerOption{
		grpc.MaxRecvMsgSize(cfg.MaxRecvMsgSize),
		grpc.MaxSendMsgSize(cfg.MaxSendMsgSize),
		grpc.MaxConcurrentStreams(cfg.MaxConcurrentStreams),
		grpc.UnaryInterceptor(UnaryServerInterceptor(log)),
	}
	grpcServer := grpc.NewServer(opts...)
	grpcServer.RegisterService(&ServiceDesc, &presaleService{svc: svc})

	return &Server{
		grpcServer: grpcServer,
		config:     cfg,
		log:        log,
	}, nil
}

// Start listens on the configured address and serves until the server is
// stopped.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

// Serve accepts connections on listener. It blocks until the server is
// stopped and returns nil after a graceful stop.
func (s *Server) Serve(listener net.Listener) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		_ = listener.Close()
		return ErrServerRunning
	}
	s.listener = listener
	s.running = true
	s.mu.Unlock()

	s.log.WithField("address", listener.Addr().String()).Info("gRPC server listening")
	err := s.grpcServer.Serve(listener)
	if errors.Is(err, grpc.ErrServerStopped) {
		return nil
	}
	return err
}

// Stop gracefully stops the gRPC server.
// It stops accepting new connections and waits for existing connections to
// complete. A later Serve returns immediately.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.grpcServer.GracefulStop()
	s.running = false
}

// IsRunning returns true if the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Address returns the address the server is listening on.
// Returns empty string if the server is not running.
func (s *Server) Address() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// UnaryServerInterceptor logs every call with its status code.
func UnaryServerInterceptor(log logrus.FieldLogger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		entry := log.WithFields(logrus.Fields{
			"method":   info.FullMethod,
			"code":     status.Code(err).String(),
			"duration": time.Since(start),
		})
		if err != nil {
			entry.WithError(err).Debug("gRPC call failed")
		} else {
			entry.Debug("gRPC call")
		}
		return resp, err
	}
}
