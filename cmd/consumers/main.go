package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"icearena/internal/config"
	"icearena/internal/consumers"
	"icearena/internal/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	defer logger.Sync()

	logger.Get().Info("Starting consumers service...")

	// Override NATS client ID for consumers
	cfg.NATS.ClientID = "icearena-consumers"

	// Create and start consumers
	consumerService, err := consumers.NewConsumerService(context.Background(), cfg)
	if err != nil {
		logger.Fatal("Failed to create consumer service", zap.Error(err))
	}

	// Start consuming messages
	if err := consumerService.Start(); err != nil {
		logger.Fatal("Failed to start consumers", zap.Error(err))
	}

	logger.Get().Info("Consumers service started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := consumerService.Shutdown(ctx); err != nil {
		logger.Get().Error("Error during shutdown", zap.Error(err))
	}

	logger.Get().Info("Consumers service stopped")
}
