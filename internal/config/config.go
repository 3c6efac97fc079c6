package config

import (
	"path/filepath"
	"time"

	"github.com/LeJamon/goPresale/internal/core/presale"
	"github.com/LeJamon/goPresale/internal/storage"
)

// Config represents the complete presaled configuration
type Config struct {
	// JSON-RPC HTTP server
	Server ServerConfig `toml:"server" mapstructure:"server"`

	// gRPC service
	GRPC GRPCConfig `toml:"grpc" mapstructure:"grpc"`

	// Ledger storage backend
	Storage StorageConfig `toml:"storage" mapstructure:"storage"`

	// Engine limits applied at sale initialization
	Engine EngineConfig `toml:"engine" mapstructure:"engine"`

	Log     LogConfig     `toml:"log" mapstructure:"log"`
	Metrics MetricsConfig `toml:"metrics" mapstructure:"metrics"`

	// Internal fields for configuration management
	configPath string `toml:"-" mapstructure:"-"`
}

// ServerConfig configures the JSON-RPC listener.
type ServerConfig struct {
	Bind         string        `toml:"bind" mapstructure:"bind"`
	Port         int           `toml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `toml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout" mapstructure:"write_timeout"`
	// MaxBodyBytes bounds a request body
	MaxBodyBytes int64 `toml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// GRPCConfig configures the gRPC listener.
type GRPCConfig struct {
	Enabled        bool   `toml:"enabled" mapstructure:"enabled"`
	Address        string `toml:"address" mapstructure:"address"`
	MaxRecvMsgSize int    `toml:"max_recv_msg_size" mapstructure:"max_recv_msg_size"`
	MaxSendMsgSize int    `toml:"max_send_msg_size" mapstructure:"max_send_msg_size"`
}

// StorageConfig selects and tunes the database backend.
type StorageConfig struct {
	// Backend is one of memory, pebble, bbolt, leveldb, sqlite, postgres
	Backend string `toml:"backend" mapstructure:"backend"`

	// Path is the data directory or file of embedded backends
	Path string `toml:"path" mapstructure:"path"`

	// DSN is the postgres connection string
	DSN string `toml:"dsn" mapstructure:"dsn"`

	// Compression is none or lz4
	Compression string `toml:"compression" mapstructure:"compression"`

	// CacheSize is the backend cache in bytes
	CacheSize int64 `toml:"cache_size" mapstructure:"cache_size"`

	// SaleCache is the number of decoded sales kept in memory
	SaleCache int `toml:"sale_cache" mapstructure:"sale_cache"`
}

// EngineConfig bounds the durations a sale may be initialized with.
type EngineConfig struct {
	MaxSaleDuration time.Duration `toml:"max_sale_duration" mapstructure:"max_sale_duration"`
	MaxLockDuration time.Duration `toml:"max_lock_duration" mapstructure:"max_lock_duration"`
	MaxVestDuration time.Duration `toml:"max_vest_duration" mapstructure:"max_vest_duration"`
}

// LogConfig configures logrus.
type LogConfig struct {
	Level  string `toml:"level" mapstructure:"level"`
	Format string `toml:"format" mapstructure:"format"`
	// File receives the log instead of stderr when set
	File string `toml:"file" mapstructure:"file"`
}

// MetricsConfig configures the prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled" mapstructure:"enabled"`
	Path    string `toml:"path" mapstructure:"path"`
}

// DefaultConfigPath is the config file looked up when none is given
const DefaultConfigPath = "presaled.toml"

// ConfigPathFromDir returns the config file path inside configDir
func ConfigPathFromDir(configDir string) string {
	return filepath.Join(configDir, DefaultConfigPath)
}

// GetConfigPath returns the path the configuration was loaded from
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// Options converts the storage section for storage.Open.
func (s StorageConfig) Options() storage.Options {
	return storage.Options{
		Backend:     s.Backend,
		Path:        s.Path,
		DSN:         s.DSN,
		Compression: s.Compression,
		CacheSize:   s.CacheSize,
	}
}

// Limits converts the engine section to whole seconds.
func (e EngineConfig) Limits() presale.Limits {
	return presale.Limits{
		MaxSaleDuration: uint64(e.MaxSaleDuration / time.Second),
		MaxLockDuration: uint64(e.MaxLockDuration / time.Second),
		MaxVestDuration: uint64(e.MaxVestDuration / time.Second),
	}
}

// ListenAddress returns the host:port of the JSON-RPC server
func (s ServerConfig) ListenAddress() string {
	return joinHostPort(s.Bind, s.Port)
}
