// Command lendingdemo walks a borrow request and a library borrow/return cycle through
// the command handlers, with logging, tracing and metrics switched on by configuration.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AntonStoeckl/lending-domain-go/shell/config"
	"github.com/AntonStoeckl/lending-domain-go/shell/oteladapters"
)

func main() {
	configPath := flag.String("config", "", "optional YAML configuration file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("lendingdemo: %v", err)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	level, err := cfg.Observability.SlogLevel()
	if err != nil {
		return err
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(handler)

	obs, err := newObservability(cfg.Observability, logger)
	if err != nil {
		return err
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if shutdownErr := obs.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Error("observability shutdown failed", "error", shutdownErr.Error())
		}
	}()

	w, err := newWalkthrough(cfg, obs, logger)
	if err != nil {
		return err
	}

	if err = w.borrowRequestFlow(ctx); err != nil {
		return err
	}

	if err = w.libraryCycle(ctx); err != nil {
		return err
	}

	obs.ReportMetrics(ctx)

	return nil
}
