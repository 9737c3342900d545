package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/qdn-tickets/ticket-service/internal/api/http"
	"github.com/qdn-tickets/ticket-service/internal/api/http/handlers"
	"github.com/qdn-tickets/ticket-service/internal/auth"
	"github.com/qdn-tickets/ticket-service/internal/config"
	"github.com/qdn-tickets/ticket-service/internal/events"
	"github.com/qdn-tickets/ticket-service/internal/observability"
	"github.com/qdn-tickets/ticket-service/internal/persistence"
	"github.com/qdn-tickets/ticket-service/internal/repository"
	"github.com/qdn-tickets/ticket-service/internal/service"
	"github.com/qdn-tickets/ticket-service/internal/store"
	"github.com/qdn-tickets/ticket-service/internal/worker"
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

	backend, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open document store", zap.Error(err))
	}
	defer backend.Close()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger.Named("audit"), metrics))

	resolver := service.NewTicketResolver(service.TicketResolverDependencies{
		Store:      backend.Store,
		Dispatcher: dispatcher,
		Logger:     logger.Named("resolver"),
	})
	settingsService := service.NewSettingsService(repository.NewRedisSettingsRepository(redis.Client), dispatcher, logger)
	authService := service.NewAuthService(cfg.Auth)
	if cfg.Auth.OperatorPasswordHash == "" {
		logger.Warn("AUTH_OPERATOR_PASSWORD_HASH not set; operator login disabled")
	}

	checks := map[string]handlers.Pinger{"redis": redis}
	for name, pinger := range backend.Checks {
		checks[name] = pinger
	}

	app := httptransport.NewApp(cfg.App.Name, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, checks, metrics),
		Tickets:        handlers.NewTicketsHandler(resolver),
		Settings:       handlers.NewSettingsHandler(settingsService),
		Auth:           handlers.NewAuthHandler(authService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("source", backend.Source))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
