package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/climadash/climadash/internal/cache"
	"github.com/climadash/climadash/internal/config"
	"github.com/climadash/climadash/internal/ingest"
	"github.com/climadash/climadash/internal/logging"
	"github.com/climadash/climadash/internal/metrics"
	"github.com/climadash/climadash/internal/queue"
	"github.com/climadash/climadash/internal/router"
	"github.com/climadash/climadash/internal/store"
	"github.com/climadash/climadash/internal/utils"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("Dashboard service starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	// Connect to the reading store
	logger.Info("Connecting to store", "type", cfg.Store.Type, "breaker", cfg.Store.Breaker.Enabled)
	connectCtx, connectCancel := context.WithTimeout(context.Background(), utils.StoreConnectTimeout)
	readingStore, err := store.Open(connectCtx, cfg.Store, m.BreakerStateChanged)
	connectCancel()
	if err != nil {
		logger.Fatal("Failed to connect to store", "error", err)
	}
	defer func() { _ = readingStore.Close() }()

	deps := router.Dependencies{
		Logger:  logger,
		Store:   readingStore,
		Latest:  cache.NewLatest(time.Now()),
		Metrics: m,
		Limiter: ingest.NewRateLimiter(cfg.Ingest.RateLimit, cfg.Ingest.RateBurst, 10*time.Minute),
	}

	// Connect to Queue (configurable backend); "none" writes readings synchronously
	var consumer *ingest.Consumer
	if cfg.QueueEnabled() {
		logger.Info("Connecting to Queue", "type", cfg.Queue.Type, "url", cfg.Queue.URL)
		queueClient, err := queue.NewQueue(cfg.Queue)
		if err != nil {
			logger.Fatal("Failed to connect to Queue", "error", err)
		}
		defer func() { _ = queueClient.Close() }()
		logger.Info("Queue connection established")

		consumer = ingest.NewConsumer(queueClient, readingStore, cfg.Queue.Subject, logger, m)
		if err := consumer.Start(); err != nil {
			logger.Fatal("Failed to start ingest consumer", "error", err)
		}
		deps.Publisher = queueClient
	} else {
		logger.Warn("Queue disabled - readings are written to the store synchronously")
	}

	// Initialize router
	app := router.New(deps, *cfg)

	stopCleanup := make(chan struct{})
	go deps.Limiter.Run(time.Minute, stopCleanup)

	// Start server in goroutine
	go func() {
		addr := cfg.GetServerAddress()
		logger.Info("Server listening", "address", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	close(stopCleanup)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), utils.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if consumer != nil {
		if err := consumer.Stop(); err != nil {
			logger.Warn("Failed to stop ingest consumer", "error", err)
		}
	}

	logger.Info("Server exited")
}
