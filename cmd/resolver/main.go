package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/app"
	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/config"
	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "resolver start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	log.InfoObj("resolver starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	resolver, err := app.NewResolver(ctx, cfg, log)
	if err != nil {
		log.ErrorObj("failed to initialize resolver", "error", err)
		return err
	}

	if err := resolver.Run(ctx); err != nil {
		return fmt.Errorf("resolver run: %w", err)
	}

	return nil
}
