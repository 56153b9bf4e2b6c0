package main

import (
	detectionService "DrowsyGuard/internal/api/detection/service"
	"DrowsyGuard/internal/config"
	"DrowsyGuard/pkg/log"
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// detectstub answers /detect-video with scripted verdicts so the monitor can
// run without the real model.
func main() {
	logger := log.NewLogger()
	cfg := config.LoadConfig(logger)

	scorer, err := detectionService.NewScriptedScorer(cfg.StubScores)
	if err != nil {
		logger.Fatalf("Invalid STUB_SCORES: %v", err)
	}

	server, err := config.NewServer(
		config.WithFiber(config.NewFiber(logger, "DrowsyGuard detection stub")),
		config.WithLogger(logger),
		config.WithUtils(),
		config.WithMiddleware(0, 0),
	)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterDetectionStub(scorer)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(cfg.StubPort, ""); err != nil {
			logger.Fatalf("Error starting detection stub: %v", err)
		}
	}()

	logger.WithField("port", cfg.StubPort).Info("Detection stub started")

	<-sigChan

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
}
