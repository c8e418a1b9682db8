package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/solwatch/dexlogs/collector"
	"github.com/solwatch/dexlogs/config"
	"github.com/solwatch/dexlogs/registry"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	reg := registry.Default()
	if cfg.RegistryFile != "" {
		reg, err = registry.LoadFile(cfg.RegistryFile)
		if err != nil {
			logger.Fatal("Failed to load program registry",
				zap.String("path", cfg.RegistryFile),
				zap.Error(err),
			)
		}
	}

	sink, err := collector.NewFileSink(cfg.OutputFile)
	if err != nil {
		logger.Fatal("Failed to open output store", zap.Error(err))
	}
	defer sink.Close()

	metrics := collector.NewMetrics()

	col := collector.New(collector.Options{
		Endpoint:       cfg.WSEndpoint,
		Commitment:     cfg.Commitment,
		InitialBackoff: cfg.InitialBackoff,
		MaxBackoff:     cfg.MaxBackoff,
	}, reg, sink, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	monitorSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HealthPort),
		Handler: metrics.Handler(),
	}
	go func() {
		logger.Info("Starting monitoring server", zap.String("addr", monitorSrv.Addr))
		if err := monitorSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Monitoring server failed", zap.Error(err))
		}
	}()

	logger.Info("Starting DEX log collector",
		zap.String("endpoint", cfg.WSEndpoint),
		zap.String("commitment", cfg.Commitment),
		zap.String("output_file", cfg.OutputFile),
		zap.Int("registered_programs", reg.Len()),
	)

	if err := col.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Collector stopped", zap.Error(err))
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := monitorSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Monitoring server shutdown failed", zap.Error(err))
	}
}
