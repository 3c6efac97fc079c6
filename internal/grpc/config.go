// Package grpc serves the presale service over gRPC using a JSON codec.
package grpc

import (
	"errors"
	"fmt"
	"net"

	"github.com/LeJamon/goPresale/internal/config"
)

const (
	defaultAddress     = "127.0.0.1:50051"
	defaultMsgSize     = 4 << 20
	defaultStreamLimit = 128
)

// ServerConfig holds the listener and transport limits of the gRPC server.
type ServerConfig struct {
	Address        string
	MaxRecvMsgSize int
	MaxSendMsgSize int

	// MaxConcurrentStreams bounds in-flight calls per connection.
	MaxConcurrentStreams uint32
}

// DefaultServerConfig listens on loopback with 4MB message limits.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:              defaultAddress,
		MaxRecvMsgSize:       defaultMsgSize,
		MaxSendMsgSize:       defaultMsgSize,
		MaxConcurrentStreams: defaultStreamLimit,
	}
}

// ServerConfigFrom converts the [grpc] section of the node config. Unset
// values keep their defaults.
func ServerConfigFrom(cfg config.GRPCConfig) *ServerConfig {
	out := DefaultServerConfig()
	if cfg.Address != "" {
		out.Address = cfg.Address
	}
	if cfg.MaxRecvMsgSize > 0 {
		out.MaxRecvMsgSize = cfg.MaxRecvMsgSize
	}
	if cfg.MaxSendMsgSize > 0 {
		out.MaxSendMsgSize = cfg.MaxSendMsgSize
	}
	return out
}

// Validate reports the first unusable setting.
func (c *ServerConfig) Validate() error {
	if c.Address == "" {
		return errors.New("grpc address is required")
	}
	host, port, err := net.SplitHostPort(c.Address)
	switch {
	case err != nil:
		return fmt.Errorf("grpc address %q: %w", c.Address, err)
	case host == "" || port == "":
		return fmt.Errorf("grpc address %q needs both host and port", c.Address)
	case c.MaxRecvMsgSize <= 0 || c.MaxSendMsgSize <= 0:
		return errors.New("grpc message size limits must be positive")
	case c.MaxConcurrentStreams == 0:
		return errors.New("grpc max_concurrent_streams must be positive")
	}
	return nil
}
