package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"lanwatch/internal/api"
	"lanwatch/internal/config"
	"lanwatch/internal/logger"
	"lanwatch/internal/notify"
	"lanwatch/internal/registry"
	"lanwatch/internal/scanner"
	"lanwatch/internal/scheduler"
	"lanwatch/internal/version"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	// Show version if requested
	if *showVersion {
		info := version.GetInfo()
		fmt.Println(info.String())
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log = log.Named("lanwatch")

	defer func(log *zap.Logger) {
		_ = log.Sync()
	}(log)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the discovery engine
	reg := registry.New(log)
	notifier := notify.NewManager(&cfg.Notify, log)
	scan := scanner.New(&cfg.Scan, log)
	sched := scheduler.New(cfg.Scan.Interval, scan, reg, notifier, log)

	// Start the scan loop; the first cycle runs immediately
	go sched.Run(ctx)

	// Initialize router
	router := api.NewRouter(cfg, reg, sched, log)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in background
	go func() {
		log.Info("Starting server",
			zap.String("address", cfg.Server.Address),
			zap.Duration("scan_interval", cfg.Scan.Interval))
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for signal
	sig := <-sigChan
	log.Info("Received signal", zap.String("signal", sig.String()))

	// Graceful shutdown; in-flight probes are abandoned with the context
	log.Info("Starting graceful shutdown")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if err := notifier.Stop(); err != nil {
		log.Error("Notifier shutdown error", zap.Error(err))
	}

	log.Info("Shutdown complete")
}
