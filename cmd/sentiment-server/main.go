package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/llm-sentiment/internal/adapters/metrics"
	"github.com/mikey/llm-sentiment/internal/config"
	"github.com/mikey/llm-sentiment/internal/core"
	"github.com/mikey/llm-sentiment/internal/di"
	"github.com/mikey/llm-sentiment/internal/ports"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	cfg *config.Config,
	logger *zap.Logger,
	httpFrontend ports.Frontend,
	collector *metrics.Collector,
	transport core.RemoteTransport,
	journal ports.Journal,
) error {
	defer logger.Sync()

	metricsCfg, err := cfg.GetMetrics()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the metrics exporter
	var metricsServer *metrics.Server
	if metricsCfg.Enabled {
		metricsServer = metrics.NewServer(metricsCfg.ListenAddress, collector, logger)
		if err := metricsServer.Start(); err != nil {
			logger.Error("Failed to start metrics server", zap.Error(err))
			return err
		}
		sampler := metrics.NewProcessSampler(collector, metrics.ReadSelf, logger)
		go sampler.Run(ctx, metricsCfg.SampleInterval)
	}

	// Start the frontend
	if err := httpFrontend.Start(); err != nil {
		logger.Error("Failed to start frontend", zap.Error(err))
		return err
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")
	cancel()

	// Stop the frontend
	if err := httpFrontend.Stop(); err != nil {
		logger.Error("Failed to stop frontend", zap.Error(err))
	}

	if metricsServer != nil {
		if err := metricsServer.Stop(); err != nil {
			logger.Error("Failed to stop metrics server", zap.Error(err))
		}
	}

	// Close any resources that need closing
	if closer, ok := transport.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close remote transport", zap.Error(err))
		}
	}

	// Stop the journal if enabled
	if journal != nil {
		journal.Stop()
	}

	logger.Info("Shutdown complete")
	return nil
}
