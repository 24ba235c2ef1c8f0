package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/videoshare/internal/api/http"
	"github.com/spec-kit/videoshare/internal/api/http/handlers"
	"github.com/spec-kit/videoshare/internal/auth"
	"github.com/spec-kit/videoshare/internal/config"
	"github.com/spec-kit/videoshare/internal/observability"
	"github.com/spec-kit/videoshare/internal/persistence"
	"github.com/spec-kit/videoshare/internal/repository"
	"github.com/spec-kit/videoshare/internal/service"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	accountRepo := repository.NewAccountRepository(pool)
	edgeRepo := repository.NewEdgeRepository(pool)
	videoRepo := repository.NewVideoRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	tweetRepo := repository.NewTweetRepository(pool)

	authService := service.NewAuthService(cfg.Auth, accountRepo)
	relationshipService := service.NewRelationshipService(service.RelationshipDependencies{
		EdgeRepo:    edgeRepo,
		AccountRepo: accountRepo,
		VideoRepo:   videoRepo,
		CommentRepo: commentRepo,
		TweetRepo:   tweetRepo,
	})

	guard := auth.NewMiddleware(authService.TokenManager(), accountRepo)
	throttle := auth.NewLoginThrottle(redis.Client, cfg.Auth.LoginAttemptLimit, cfg.Auth.LoginAttemptWindow(), logger)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:      handlers.NewAuthHandler(authService, throttle),
		Toggle:    handlers.NewToggleHandler(relationshipService),
		Channels:  handlers.NewChannelHandler(relationshipService),
		Dashboard: handlers.NewDashboardHandler(relationshipService),
		Guard:     guard,
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
