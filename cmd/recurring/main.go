package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fairshare/internal/config"
	"fairshare/internal/database"
	"fairshare/internal/logger"
	"fairshare/internal/services"
)

// The recurring worker materializes recurring expense templates on a
// fixed interval. Generation is idempotent, so overlapping deployments
// or an aggressive interval only produce skips, never duplicates.
func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	recurringService := services.NewRecurringService(dbManager.DB(), appConfig.CollaboratorTimeout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Infow("recurring worker configured", "interval", appConfig.RecurringInterval)

	// Run once on startup so a freshly deployed worker catches up
	// without waiting a full interval.
	runGeneration(ctx, recurringService)

	ticker := time.NewTicker(appConfig.RecurringInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runGeneration(ctx, recurringService)
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Infow("shutdown signal received", "signal", sig.String())
	cancel()

	return nil
}

func runGeneration(ctx context.Context, svc services.RecurringServicer) {
	now := time.Now().UTC()
	result, err := svc.GenerateForPeriod(ctx, int(now.Month()), now.Year())
	if err != nil {
		logger.Get().Errorw("recurring generation run failed", "error", err)
		return
	}
	logger.Get().Infow("recurring generation run finished",
		"generated", result.Generated,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
}
