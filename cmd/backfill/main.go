// Command backfill runs a single batch pass against the configured store and
// prints the JSON summary, without starting the HTTP server.
package main

import (
	"context"
	"encoding/json"
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
		fmt.Fprintf(os.Stderr, "backfill failed: %v\n", err)
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	resolver, err := app.NewResolver(ctx, cfg, log)
	if err != nil {
		log.ErrorObj("failed to initialize resolver", "error", err)
		return err
	}
	defer resolver.Close()

	summary, err := resolver.RunBatch(ctx)
	if err != nil {
		return fmt.Errorf("run batch: %w", err)
	}

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
