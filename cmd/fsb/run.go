package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/Hanifalm/TG-FileStreamBot/pkg/backend"
	"github.com/Hanifalm/TG-FileStreamBot/pkg/config"
	"github.com/Hanifalm/TG-FileStreamBot/pkg/gateway/handlers"
	"github.com/Hanifalm/TG-FileStreamBot/pkg/pool"
	"github.com/Hanifalm/TG-FileStreamBot/pkg/server"
	"github.com/Hanifalm/TG-FileStreamBot/pkg/telemetry/logging"
	"github.com/Hanifalm/TG-FileStreamBot/pkg/telemetry/metrics"
	"github.com/Hanifalm/TG-FileStreamBot/pkg/translog"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the stream gateway",
	Long: `Start the stream gateway with the specified configuration.

The server listens on the configured address and serves byte-range
streams, the watch page, and the status endpoint, balancing every
request onto the least-loaded backend.

Examples:
  # Start with default config
  fsb run

  # Start with custom config
  fsb run --config /etc/fsb/config.yaml

  # Override listen address
  fsb run --listen 0.0.0.0:8080

  # Validate config without starting server
  fsb run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := config.GetConfig()

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	if _, err := logging.Setup(cfg.Telemetry.Logging, os.Stdout); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("TG-FileStreamBot v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Build the backend pool
	clients := make([]backend.Client, 0, len(cfg.Backends))
	for i, bc := range cfg.Backends {
		client, err := backend.NewHTTPClient(i, backend.ClientConfig{
			Name:                bc.Name,
			BaseURL:             bc.BaseURL,
			Timeout:             bc.Timeout,
			MaxIdleConns:        bc.MaxIdleConns,
			MaxIdleConnsPerHost: bc.MaxIdleConnsPerHost,
			IdleConnTimeout:     bc.IdleConnTimeout,
		})
		if err != nil {
			return fmt.Errorf("failed to create backend %q: %w", bc.Name, err)
		}
		clients = append(clients, client)
	}

	tracker, err := pool.NewLoadTracker(clients)
	if err != nil {
		return fmt.Errorf("failed to create load tracker: %w", err)
	}
	sessions := pool.NewSessionCache(len(clients))
	defer sessions.Close()

	fmt.Printf("✓ Backend pool initialized (%d backends)\n", tracker.Size())

	// Metrics
	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		collector = metrics.NewCollector(cfg.Telemetry.Metrics, registry)
		registry.MustRegister(metrics.NewPoolCollector(cfg.Telemetry.Metrics, tracker, sessions))
		slog.Info("metrics enabled")
	}

	// Transfer log
	var transfers *translog.Recorder
	if cfg.TransferLog.Enabled {
		storage, err := translog.OpenStorage(cfg.TransferLog.Path)
		if err != nil {
			return fmt.Errorf("failed to open transfer log: %w", err)
		}
		defer storage.Close()

		transfers = translog.NewRecorder(storage, cfg.TransferLog)
		defer transfers.Close()

		if cfg.TransferLog.RetentionDays > 0 && cfg.TransferLog.RetentionSchedule != "" {
			scheduler := translog.NewScheduler(storage, cfg.TransferLog)
			if err := scheduler.Start(ctx); err != nil {
				slog.Warn("failed to start transfer log retention", "error", err)
			}
		}

		fmt.Println("✓ Transfer log initialized")
	}

	// Idle session sweep
	if cfg.Stream.SessionMaxIdle > 0 {
		sweeper := cron.New()
		maxIdle := cfg.Stream.SessionMaxIdle
		_, err := sweeper.AddFunc(cfg.Stream.SessionSweepSchedule, func() {
			if n := sessions.SweepIdle(maxIdle); n > 0 {
				slog.Debug("swept idle backend sessions", "count", n)
			}
		})
		if err != nil {
			return fmt.Errorf("invalid session sweep schedule: %w", err)
		}
		sweeper.Start()
		defer sweeper.Stop()
	}

	// Hot reload: the config watcher applies log level changes live.
	watcher, err := config.NewWatcher(cfgFile, func(updated *config.Config) {
		if err := logging.SetLevel(updated.Telemetry.Logging.Level); err != nil {
			slog.Warn("ignoring invalid log level from reloaded config",
				"level", updated.Telemetry.Logging.Level)
		}
	})
	if err != nil {
		slog.Warn("config watcher unavailable", "error", err)
	} else {
		go watcher.Watch(ctx)
	}

	deps := &handlers.Deps{
		Tracker:   tracker,
		Sessions:  sessions,
		ChunkSize: cfg.Stream.ChunkSize,
		Metrics:   collector,
		Transfers: transfers,
	}
	status := handlers.NewStatusHandler(tracker, cfg.Status.BotName, Version)

	srv := server.NewServer(&cfg.Server, deps, status, collector)

	fmt.Println()
	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Status endpoint: http://%s/status\n", cfg.Server.ListenAddress)
	if collector != nil {
		fmt.Printf("✓ Metrics endpoint: http://%s/metrics\n", cfg.Server.ListenAddress)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	return srv.Start(ctx)
}
