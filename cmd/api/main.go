package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"abkit/internal"
	"abkit/internal/api"
	"abkit/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := api.NewServer(cfg, logger).Run(ctx); err != nil {
		logger.Error("server failed: %v", err)
		stop()
		log.Fatal(err)
	}
	logger.Info("server stopped")
}
