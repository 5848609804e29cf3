package config

import (
	"fmt"
	"time"
)

// Default values for configuration fields.
const (
	DefaultListenAddress   = "0.0.0.0:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 0 * time.Second // streaming responses, no cap
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB

	DefaultBackendTimeout = 60 * time.Second

	DefaultChunkSize            = int64(1024 * 1024) // 1 MiB
	DefaultSessionSweepSchedule = "@every 10m"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsEnabled   = true
	DefaultMetricsNamespace = "fsb"
	DefaultMetricsSubsystem = "gateway"

	DefaultTransferLogPath      = "data/transfers.db"
	DefaultTransferLogBuffer    = 1000
	DefaultTransferLogRetention = 30
	DefaultTransferLogSchedule  = "0 3 * * *"
)

// ApplyDefaults fills in default values for any unset configuration fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}

	for i := range cfg.Backends {
		if cfg.Backends[i].Name == "" {
			cfg.Backends[i].Name = fmt.Sprintf("bot%d", i+1)
		}
		if cfg.Backends[i].Timeout == 0 {
			cfg.Backends[i].Timeout = DefaultBackendTimeout
		}
	}

	if cfg.Stream.ChunkSize == 0 {
		cfg.Stream.ChunkSize = DefaultChunkSize
	}
	if cfg.Stream.SessionSweepSchedule == "" {
		cfg.Stream.SessionSweepSchedule = DefaultSessionSweepSchedule
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}

	if cfg.TransferLog.Path == "" {
		cfg.TransferLog.Path = DefaultTransferLogPath
	}
	if cfg.TransferLog.Buffer == 0 {
		cfg.TransferLog.Buffer = DefaultTransferLogBuffer
	}
	// RetentionDays is not defaulted here: zero means "keep forever" and
	// must survive an explicit setting. LoadConfig seeds the default
	// before unmarshalling instead.
	if cfg.TransferLog.RetentionSchedule == "" {
		cfg.TransferLog.RetentionSchedule = DefaultTransferLogSchedule
	}
}
