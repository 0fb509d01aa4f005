package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	httpmetrics "recommendationService/app/echo-server/metrics"
	"recommendationService/app/echo-server/router"
	"recommendationService/business/idgen"
	"recommendationService/business/recommendation"
	"recommendationService/internal/middleware"
	psqlRepo "recommendationService/internal/repository/postgres"
	redisRepo "recommendationService/internal/repository/redis"
	"recommendationService/internal/rest"
	"recommendationService/pkg/config"
	"recommendationService/pkg/database"
	redisdb "recommendationService/pkg/database/redis"
	"recommendationService/pkg/logger"
	"recommendationService/pkg/metrics"
	"recommendationService/pkg/migrate"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting recommendation service", "version", cfg.App.Version)

	// An unreachable store is fatal: the service never starts serving.
	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer func() {
		if err := database.ClosePostgres(db); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}()

	logger.Info("Database connected successfully")

	if err := migrate.Up(context.Background(), db, migrate.DialectPostgres); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	metrics.Init()
	httpmetrics.Init()

	// Init repo
	var repoOpts []psqlRepo.RecommendationRepositoryOption
	if cfg.Recommendation.LegacyUpdateMatch {
		logger.Warn("Legacy update matching enabled: mismatched product ids make updates a silent no-op")
		repoOpts = append(repoOpts, psqlRepo.WithLegacyUpdateMatch())
	}
	recommendationRepo := psqlRepo.NewRecommendationRepository(db, repoOpts...)

	allocator, closeAllocator, err := newAllocator(cfg, recommendationRepo)
	if err != nil {
		logger.Fatal("Failed to init id allocator", "error", err)
	}
	defer closeAllocator()

	// Init service
	payloadValidator := recommendation.NewPayloadValidator(validator.New())
	recommendationService := recommendation.NewRecommendationService(recommendationRepo, allocator, payloadValidator)

	// Init handler
	indexHandler := rest.NewIndexHandler(cfg.App.Name, cfg.App.Version, recommendationRepo)
	recommendationHandler := rest.NewRecommendationHandler(recommendationService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware; metrics sit outside Recover so panics are counted as 500s
	e.Use(httpmetrics.Middleware())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(middleware.RequestLogger())

	// Setup routes
	router.SetupIndexRoutes(e, indexHandler)
	router.SetupRecommendationRoutes(e, recommendationHandler, middleware.ClickRateLimiter(cfg.Recommendation.ClickRateLimit))

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}

// newAllocator seeds the configured id allocator from the store's max id.
func newAllocator(cfg *config.Config, repo *psqlRepo.RecommendationRepository) (recommendation.IDAllocator, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if cfg.Recommendation.IDAllocator != config.AllocatorRedis {
		seq, err := idgen.NewSequenceFromStore(ctx, repo)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using in-process id sequence", "last_id", seq.Current())
		return seq, func() {}, nil
	}

	client, err := redisdb.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := redisdb.CloseRedisClient(client); err != nil {
			logger.Error("Failed to close redis", "error", err)
		}
	}

	maxID, err := repo.MaxID(ctx)
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	seq := redisRepo.NewIDSequenceRepository(client, redisRepo.DefaultSequenceKey)
	current, err := seq.Seed(ctx, maxID)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	logger.Info("Using redis id sequence", "last_id", current)

	return seq, closeFn, nil
}
