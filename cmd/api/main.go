package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/maintenance-report-service/internal/api/http"
	"github.com/spec-kit/maintenance-report-service/internal/api/http/handlers"
	"github.com/spec-kit/maintenance-report-service/internal/auth"
	"github.com/spec-kit/maintenance-report-service/internal/authz"
	"github.com/spec-kit/maintenance-report-service/internal/config"
	"github.com/spec-kit/maintenance-report-service/internal/events"
	"github.com/spec-kit/maintenance-report-service/internal/observability"
	"github.com/spec-kit/maintenance-report-service/internal/persistence"
	"github.com/spec-kit/maintenance-report-service/internal/repository"
	"github.com/spec-kit/maintenance-report-service/internal/service"
	"github.com/spec-kit/maintenance-report-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	reportRepo := repository.NewReportRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)
	registry := authz.NewRegistry(cfg.Roles)

	sessionService := service.NewSessionService(service.SessionDependencies{
		UserRepo: userRepo,
		Registry: registry,
		Cache:    redis,
		CacheTTL: cfg.Auth.SessionCacheTTL(),
		Logger:   logger,
	})
	reportService := service.NewReportService(service.ReportDependencies{
		ReportRepo: reportRepo,
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
	})
	directoryService := service.NewDirectoryService(service.DirectoryDependencies{
		UserRepo:   userRepo,
		Cache:      redis,
		Dispatcher: dispatcher,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewAuthMiddleware(tokenManager, sessionService)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, cfg.App.RequestTimeout(), cfg.RateLimit)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Reports:        handlers.NewReportsHandler(reportService),
		AdminReports:   handlers.NewAdminReportsHandler(reportService),
		Users:          handlers.NewUsersHandler(directoryService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
