// The worker runs the background maintenance jobs: the expired-ban sweep
// and the usage-log retention prune.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lingorelay/lingorelay/internal/infrastructure/config"
	"github.com/lingorelay/lingorelay/internal/infrastructure/database"
	"github.com/lingorelay/lingorelay/internal/infrastructure/repository"
	"github.com/lingorelay/lingorelay/internal/infrastructure/scheduler"
	"github.com/lingorelay/lingorelay/internal/shared/logger"
)

func main() {
	env := "development"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger()
	log.Infow("starting maintenance worker", "environment", env)

	if err := database.Init(&cfg.Database); err != nil {
		log.Fatalw("failed to initialize database", "error", err)
	}
	defer database.Close()

	moderationRepo := repository.NewModerationRepository(database.Get())
	usageRepo := repository.NewUsageLogRepository(database.Get())

	manager, err := scheduler.NewManager(log)
	if err != nil {
		log.Fatalw("failed to create scheduler", "error", err)
	}

	if err := manager.RegisterBanExpirySweep(scheduler.NewBanExpirySweepJob(moderationRepo)); err != nil {
		log.Fatalw("failed to register ban expiry sweep", "error", err)
	}
	if err := manager.RegisterUsageLogRetention(
		scheduler.NewUsageLogRetentionJob(usageRepo, cfg.Relay.UsageLogRetentionDays),
	); err != nil {
		log.Fatalw("failed to register usage log retention", "error", err)
	}

	manager.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Infow("shutting down worker")
	if err := manager.Stop(); err != nil {
		log.Errorw("failed to stop scheduler", "error", err)
	}
	log.Infow("worker stopped")
}
