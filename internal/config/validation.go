package config

import (
	"fmt"
	"strings"

	"github.com/LeJamon/goPresale/internal/storage"
	"github.com/LeJamon/goPresale/internal/storage/compression"
)

var (
	validLogLevels  = []string{"trace", "debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json"}
)

// ValidateConfig performs validation on the complete configuration
func ValidateConfig(config *Config) error {
	if err := config.Server.Validate(); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}
	if err := config.GRPC.Validate(); err != nil {
		return fmt.Errorf("grpc config validation failed: %w", err)
	}
	if err := config.Storage.Validate(); err != nil {
		return fmt.Errorf("storage config validation failed: %w", err)
	}
	if err := config.Engine.Validate(); err != nil {
		return fmt.Errorf("engine config validation failed: %w", err)
	}
	if err := config.Log.Validate(); err != nil {
		return fmt.Errorf("log config validation failed: %w", err)
	}
	if err := config.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics config validation failed: %w", err)
	}

	// Cross-validation checks
	if config.GRPC.Enabled && config.GRPC.Address == config.Server.ListenAddress() {
		return fmt.Errorf("grpc address %s is already used by the rpc server", config.GRPC.Address)
	}
	return nil
}

// Validate validates the server section
func (s *ServerConfig) Validate() error {
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", s.Port)
	}
	if s.ReadTimeout < 0 || s.WriteTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if s.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive, got %d", s.MaxBodyBytes)
	}
	return nil
}

// Validate validates the grpc section
func (g *GRPCConfig) Validate() error {
	if !g.Enabled {
		return nil
	}
	if g.Address == "" {
		return fmt.Errorf("address is required when grpc is enabled")
	}
	if g.MaxRecvMsgSize < 0 || g.MaxSendMsgSize < 0 {
		return fmt.Errorf("message size limits must not be negative")
	}
	return nil
}

// Validate validates the storage section
func (s *StorageConfig) Validate() error {
	if !contains(storage.Backends, s.Backend) {
		return fmt.Errorf("invalid backend %q, must be one of: %s", s.Backend, strings.Join(storage.Backends, ", "))
	}
	switch s.Backend {
	case storage.BackendMemory:
	case storage.BackendPostgres:
		if s.DSN == "" {
			return fmt.Errorf("dsn is required for the postgres backend")
		}
	default:
		if s.Path == "" {
			return fmt.Errorf("path is required for the %s backend", s.Backend)
		}
	}
	if s.Compression != "" && s.Compression != "none" {
		if _, err := compression.Get(s.Compression); err != nil {
			return err
		}
	}
	if s.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative")
	}
	if s.SaleCache <= 0 {
		return fmt.Errorf("sale_cache must be positive, got %d", s.SaleCache)
	}
	return nil
}

// Validate validates the engine section
func (e *EngineConfig) Validate() error {
	if e.MaxSaleDuration <= 0 {
		return fmt.Errorf("max_sale_duration must be positive")
	}
	if e.MaxLockDuration < 0 || e.MaxVestDuration < 0 {
		return fmt.Errorf("lock and vest limits must not be negative")
	}
	return nil
}

// Validate validates the log section
func (l *LogConfig) Validate() error {
	if !contains(validLogLevels, l.Level) {
		return fmt.Errorf("invalid level %q, must be one of: %s", l.Level, strings.Join(validLogLevels, ", "))
	}
	if !contains(validLogFormats, l.Format) {
		return fmt.Errorf("invalid format %q, must be one of: %s", l.Format, strings.Join(validLogFormats, ", "))
	}
	return nil
}

// Validate validates the metrics section
func (m *MetricsConfig) Validate() error {
	if m.Enabled && !strings.HasPrefix(m.Path, "/") {
		return fmt.Errorf("path must start with /, got %q", m.Path)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
