package config

import "time"

// Config is the root configuration structure for the stream gateway.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, and CORS settings.
	Server ServerConfig `yaml:"server"`

	// Backends lists the upstream backend clients the gateway balances
	// across. At least one backend is required.
	Backends []BackendConfig `yaml:"backends"`

	// Stream contains byte-range streaming configuration.
	Stream StreamConfig `yaml:"stream"`

	// Status contains the identity fields reported by the status endpoint.
	Status StatusConfig `yaml:"status"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// TransferLog contains configuration for the sqlite transfer log.
	TransferLog TransferLogConfig `yaml:"transfer_log"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port". Default: "0.0.0.0:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of
	// the response. Streaming responses need generous values here.
	// Default: 0 (no timeout)
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header size.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// BackendConfig contains configuration for one upstream backend client.
type BackendConfig struct {
	// Name is a short label used in logs and the status endpoint.
	// Default: "bot<N+1>" for the backend at index N.
	Name string `yaml:"name"`

	// BaseURL is the upstream content source endpoint.
	BaseURL string `yaml:"base_url"`

	// Timeout bounds a single upstream request.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`

	// MaxIdleConns and MaxIdleConnsPerHost tune the backend's transport.
	MaxIdleConns        int           `yaml:"max_idle_conns"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host"`
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout"`
}

// StreamConfig contains byte-range streaming configuration.
type StreamConfig struct {
	// ChunkSize is the fixed chunk size delivered by the backend
	// transport. Requested ranges are served by fetching a contiguous run
	// of chunks of this size and trimming the edges.
	// Default: 1048576 (1 MiB)
	ChunkSize int64 `yaml:"chunk_size"`

	// SessionMaxIdle evicts cached backend sessions idle for longer than
	// this duration. Zero keeps sessions for the process lifetime.
	// Default: 0
	SessionMaxIdle time.Duration `yaml:"session_max_idle"`

	// SessionSweepSchedule is the cron schedule for the idle-session
	// sweep. Ignored when SessionMaxIdle is zero.
	// Default: "@every 10m"
	SessionSweepSchedule string `yaml:"session_sweep_schedule"`
}

// StatusConfig contains identity fields for the status endpoint.
type StatusConfig struct {
	// BotName is the bot identity reported as "telegram_bot", without the
	// leading "@".
	BotName string `yaml:"bot_name"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether the /metrics endpoint is served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace and Subsystem prefix every metric name.
	// Defaults: "fsb", "gateway"
	Namespace string `yaml:"namespace"`
	Subsystem string `yaml:"subsystem"`

	// RequestDurationBuckets are the histogram buckets for request
	// latency in seconds.
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`
}

// TransferLogConfig contains configuration for the sqlite transfer log.
type TransferLogConfig struct {
	// Enabled controls whether completed streams are recorded.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Path is the sqlite database file path.
	// Default: "data/transfers.db"
	Path string `yaml:"path"`

	// Buffer is the async recorder's channel capacity. Records are
	// dropped (and counted) when the buffer is full.
	// Default: 1000
	Buffer int `yaml:"buffer"`

	// RetentionDays prunes records older than this many days.
	// An explicit zero disables pruning and keeps records forever.
	// Default: 30
	RetentionDays int `yaml:"retention_days"`

	// RetentionSchedule is the cron schedule for the pruning job.
	// Default: "0 3 * * *"
	RetentionSchedule string `yaml:"retention_schedule"`
}
