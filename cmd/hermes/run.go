package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"relay-hq/hermes/pkg/config"
	"relay-hq/hermes/pkg/ratelimit"
	"relay-hq/hermes/pkg/server"
	"relay-hq/hermes/pkg/telemetry/metrics"
	"relay-hq/hermes/pkg/upstream"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
	watchConfig   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Hermes proxy server",
	Long: `Start the Hermes proxy server with the specified configuration.

The server listens on the configured address, forwards chat completion
requests to the upstream AI service with server-held credentials, and
enforces a per-client rate limit.

Examples:
  # Start with default config
  hermes run

  # Start with custom config
  hermes run --config /etc/hermes/config.yaml

  # Override listen address
  hermes run --listen 0.0.0.0:8080

  # Reload rate limits when the config file changes
  hermes run --watch-config

  # Validate config without starting server
  hermes run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
	runCmd.Flags().BoolVar(&runFlags.watchConfig, "watch-config", false, "reload rate limits on config file changes")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Proxy.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	setupLogging(&cfg.Telemetry.Logging)

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	if os.Getenv(cfg.Upstream.APIKeyEnv) == "" {
		slog.Warn("upstream credential not set, chat requests will fail",
			"env_var", cfg.Upstream.APIKeyEnv,
		)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Rate limiter with scheduled sweep of expired windows
	store := ratelimit.NewMemoryStore(cfg.RateLimit.MaxEntries)
	limiter := ratelimit.NewLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Window, store)

	sweeper := ratelimit.NewSweeper(limiter, cfg.RateLimit.SweepSchedule, slog.Default())
	if err := sweeper.Start(ctx); err != nil {
		return fmt.Errorf("failed to start sweep scheduler: %w", err)
	}
	defer sweeper.Stop()

	// Metrics
	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
		collector.TrackKeyCount(limiter.TrackedKeys)
	}

	// Upstream client
	client := upstream.NewClient(upstream.Config{
		BaseURL:             cfg.Upstream.BaseURL,
		APIKeyEnv:           cfg.Upstream.APIKeyEnv,
		Timeout:             cfg.Upstream.Timeout,
		DefaultModel:        cfg.Upstream.DefaultModel,
		DefaultMaxTokens:    cfg.Upstream.DefaultMaxTokens,
		DefaultTemperature:  cfg.Upstream.DefaultTemperature,
		MaxIdleConns:        cfg.Upstream.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.Upstream.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.Upstream.IdleConnTimeout,
	})

	// Hot reload of rate limits from the config file
	if runFlags.watchConfig {
		watcher, err := config.NewWatcher(cfgFile, slog.Default())
		if err != nil {
			return fmt.Errorf("failed to watch config file: %w", err)
		}
		go func() {
			_ = watcher.Watch(ctx, func(updated *config.Config) {
				limiter.SetLimits(updated.RateLimit.Limit, updated.RateLimit.Window)
				slog.Info("rate limits reloaded",
					"limit", updated.RateLimit.Limit,
					"window", updated.RateLimit.Window.String(),
				)
			})
		}()
	}

	fmt.Printf("✓ Rate limit: %d requests per %s\n", cfg.RateLimit.Limit, cfg.RateLimit.Window)
	fmt.Printf("✓ Upstream: %s (credential from %s)\n", cfg.Upstream.BaseURL, cfg.Upstream.APIKeyEnv)
	fmt.Printf("✓ Listening on %s\n", cfg.Proxy.ListenAddress)
	fmt.Println("\nPress Ctrl+C to stop")

	srv := server.NewServer(cfg, limiter, client, collector, Version)
	return srv.Start(ctx)
}

// setupLogging installs the process-wide slog default from config.
func setupLogging(cfg *config.LoggingConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
