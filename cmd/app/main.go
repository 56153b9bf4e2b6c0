package main

import (
	"DrowsyGuard/internal/config"
	"DrowsyGuard/pkg/log"
	"DrowsyGuard/pkg/redis"
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	logger := log.NewLogger()
	cfg := config.LoadConfig(logger)

	options := []config.ServerOption{
		config.WithFiber(config.NewFiber(logger, "DrowsyGuard")),
		config.WithLogger(logger),
		config.WithValidator(config.NewValidator()),
		config.WithUtils(),
		config.WithMiddleware(cfg.RateLimitPerSec, cfg.RateLimitBurst),
		config.WithCamera(cfg.CameraCommand, cfg.CameraReplayDir, cfg.FrameDir),
	}

	if cfg.DetectorBackend == config.DetectorGemini {
		options = append(options, config.WithGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModelName))
	}
	options = append(options, config.WithDetector(cfg.DetectorBackend, cfg.DetectionURL))

	if cfg.WhatsappEnabled {
		options = append(options, config.WithWhatsappClient(cfg.WhatsappStoreDSN))
	}
	options = append(options, config.WithAlertDispatcher(cfg.AlertOpener))

	if cfg.RedisEnabled() {
		options = append(options, config.WithRedisServer(
			redis.New(logger, cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB, cfg.StatusChannel),
		))
	}

	if cfg.S3Enabled() {
		options = append(options, config.WithS3Client(cfg.S3))
	}

	server, err := config.NewServer(options...)
	if err != nil {
		log.Fatal(log.Fields{"error": err.Error()}, "Failed to build server")
	}

	if err := server.RegisterHandler(); err != nil {
		log.Fatal(log.Fields{"error": err.Error()}, "Failed to register handlers")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(cfg.AppPort, "/api/v1"); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.WithField("port", cfg.AppPort).Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
}
