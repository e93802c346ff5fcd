// Package server implements the serve command: config, database, redis,
// pipeline wiring and the HTTP listener with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	memberApp "github.com/lingorelay/lingorelay/internal/application/member"
	moderationApp "github.com/lingorelay/lingorelay/internal/application/moderation"
	relayApp "github.com/lingorelay/lingorelay/internal/application/relay"
	statsApp "github.com/lingorelay/lingorelay/internal/application/stats"
	tenantApp "github.com/lingorelay/lingorelay/internal/application/tenant"
	"github.com/lingorelay/lingorelay/internal/infrastructure/auth"
	"github.com/lingorelay/lingorelay/internal/infrastructure/cache"
	"github.com/lingorelay/lingorelay/internal/infrastructure/config"
	"github.com/lingorelay/lingorelay/internal/infrastructure/database"
	"github.com/lingorelay/lingorelay/internal/infrastructure/migration"
	"github.com/lingorelay/lingorelay/internal/infrastructure/platform"
	"github.com/lingorelay/lingorelay/internal/infrastructure/repository"
	"github.com/lingorelay/lingorelay/internal/infrastructure/scheduler"
	"github.com/lingorelay/lingorelay/internal/infrastructure/translation"
	httpRouter "github.com/lingorelay/lingorelay/internal/interfaces/http"
	"github.com/lingorelay/lingorelay/internal/interfaces/http/handlers/admin"
	"github.com/lingorelay/lingorelay/internal/interfaces/http/handlers/events"
	"github.com/lingorelay/lingorelay/internal/interfaces/http/middleware"
	"github.com/lingorelay/lingorelay/internal/shared/db"
	"github.com/lingorelay/lingorelay/internal/shared/logger"
)

var (
	env         string
	autoMigrate bool
)

func mapEnvToGinMode(env string) string {
	switch env {
	case "production":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

// channelNotifierAdapter narrows the platform client to the moderation
// log-channel notifier.
type channelNotifierAdapter struct {
	client *platform.Client
}

func (a *channelNotifierAdapter) SendChannelMessage(ctx context.Context, channelID, content string) error {
	_, err := a.client.SendChannelMessage(ctx, channelID, content)
	return err
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the relay HTTP server",
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run schema migration on startup")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = mapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()
	log.Infow("starting server", "environment", env)

	gin.DefaultWriter = io.Discard

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if autoMigrate {
		manager := migration.NewManager(env)
		if err := manager.Migrate(database.Get(), migration.AutoMigrateModels()...); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	// Repositories.
	tenantRepo := repository.NewTenantRepository(database.Get())
	memberRepo := repository.NewMembershipRepository(database.Get())
	globalUserRepo := repository.NewGlobalUserRepository(database.Get())
	moderationRepo := repository.NewModerationRepository(database.Get())
	usageRepo := repository.NewUsageLogRepository(database.Get())
	txManager := db.NewTransactionManager(database.Get())

	// Gateways.
	platformClient := platform.NewClient(cfg.Platform, log)
	webhookCache := cache.NewWebhookCache(
		cfg.Relay.WebhookCacheSize,
		time.Duration(cfg.Relay.WebhookTTLMinutes)*time.Minute,
		nil,
	)
	deliverer := platform.NewWebhookDeliverer(platformClient, webhookCache, log)
	translator := translation.NewGPTTranslator(cfg.Translation, log)
	notices := cache.NewNoticeDeduplicator(redisClient)

	// Application services.
	relayService := relayApp.NewService(
		tenantRepo, memberRepo, globalUserRepo, moderationRepo, usageRepo,
		txManager, translator, deliverer, platformClient, notices,
		cfg.Relay.WarningThreshold, log,
	)
	tenantService := tenantApp.NewService(tenantRepo, webhookCache, log)
	memberService := memberApp.NewService(memberRepo, tenantRepo, log)
	moderationService := moderationApp.NewService(moderationRepo, tenantRepo, txManager,
		&channelNotifierAdapter{client: platformClient}, log)
	statsService := statsApp.NewService(tenantRepo, memberRepo, usageRepo)

	// The in-process credential cache sweeps itself; the batch jobs run
	// in cmd/worker.
	sched, err := scheduler.NewManager(log)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	sweepInterval := time.Duration(cfg.Relay.WebhookSweepMinutes) * time.Minute
	if err := sched.RegisterWebhookCacheSweep(sweepInterval, webhookCache.Sweep); err != nil {
		return fmt.Errorf("failed to register cache sweep: %w", err)
	}
	sched.Start()
	defer func() {
		if err := sched.Stop(); err != nil {
			log.Errorw("failed to stop scheduler", "error", err)
		}
	}()

	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, 0)
	router := httpRouter.NewRouter(
		cfg.Server.Mode,
		events.NewHandler(relayService, cfg.Platform.EventSecret, log),
		admin.NewTenantHandler(tenantService, statsService, log),
		admin.NewMemberHandler(memberService, statsService, log),
		admin.NewModerationHandler(moderationService, log),
		middleware.NewAuthMiddleware(jwtService, log),
		log,
	)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.Engine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server listening", "address", cfg.Server.GetAddr(), "mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	log.Infow("server stopped")
	return nil
}
