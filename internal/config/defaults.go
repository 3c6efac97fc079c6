package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the values used when neither the file nor the
// environment sets a key
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.bind", "127.0.0.1")
	v.SetDefault("server.port", 5005)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.max_body_bytes", 1<<20)

	// gRPC defaults
	v.SetDefault("grpc.enabled", false)
	v.SetDefault("grpc.address", "127.0.0.1:50051")
	v.SetDefault("grpc.max_recv_msg_size", 4<<20)
	v.SetDefault("grpc.max_send_msg_size", 4<<20)

	// Storage defaults
	v.SetDefault("storage.backend", "pebble")
	v.SetDefault("storage.path", "/var/lib/presaled/db")
	v.SetDefault("storage.dsn", "")
	v.SetDefault("storage.compression", "none")
	v.SetDefault("storage.cache_size", 64<<20)
	v.SetDefault("storage.sale_cache", 1024)

	// Engine defaults match presale.DefaultLimits
	v.SetDefault("engine.max_sale_duration", 30*24*time.Hour)
	v.SetDefault("engine.max_lock_duration", 10*365*24*time.Hour)
	v.SetDefault("engine.max_vest_duration", 10*365*24*time.Hour)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}
