package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/analyzer"
	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/handlers"
	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/internal/services"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	policy, err := cfg.Scoring.ScoringPolicy()
	if err != nil {
		return fmt.Errorf("scoring policy: %w", err)
	}
	engine, err := analyzer.New(policy)
	if err != nil {
		return err
	}
	zlog.Info("scoring engine ready",
		zap.String("policy", policy.Name),
		zap.String("taxonomy", policy.Taxonomy.Version),
	)

	db, err := config.InitDatabase(cfg, zlog)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	analysisRepo := repositories.NewAnalysisRepository(db)
	resumeRepo := repositories.NewResumeRepository(db)

	storageService, err := services.NewStorageService(ctx, cfg)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := storageService.EnsureReady(ctx); err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	cache := newCache(ctx, cfg.Redis, zlog)
	events := newPublisher(cfg.RabbitMQ, zlog)
	defer events.Close()

	extractor := services.NewTextExtractor()
	renderer := services.NewExportRenderer()
	analysisService := services.NewAnalysisService(analysisRepo, engine, extractor, cache, events, zlog)
	exportService := services.NewExportService(resumeRepo, renderer, storageService, events, zlog)

	worker := services.NewWorker(resumeRepo, exportService, cfg.Worker, zlog)
	worker.Start(ctx)

	builder := services.NewResumeBuilder(resumeRepo, engine, worker, cache, events, zlog)

	app := fiber.New(fiber.Config{
		AppName:      "Resume Analyzer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	handlers.Register(app, handlers.Routes{
		Analyze: handlers.NewAnalyzeHandler(analysisService, cfg.Storage.MaxFileSize, zlog),
		Results: handlers.NewResultHandler(analysisService, zlog),
		Resumes: handlers.NewResumeHandler(builder, exportService, renderer, handlers.APIPrefix, zlog),
		Catalog: handlers.NewCatalogHandler(engine),
		Auth:    handlers.AuthMiddleware(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
	})
	if cfg.Auth.JWTSecret == "" {
		zlog.Warn("AUTH_JWT_SECRET is empty, requests are not authenticated")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Info("shutting down server")
		worker.Stop()
		cancel()
		if err := app.Shutdown(); err != nil {
			zlog.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Server.Env))

	return app.Listen(addr)
}

func newCache(ctx context.Context, cfg config.RedisConfig, zlog *zap.Logger) services.ResultCache {
	if cfg.Addr == "" {
		return services.NewNoopCache()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		zlog.Warn("redis unavailable, result cache disabled", zap.String("addr", cfg.Addr), zap.Error(err))
		client.Close()
		return services.NewNoopCache()
	}

	zlog.Info("result cache enabled", zap.String("addr", cfg.Addr), zap.Duration("ttl", cfg.TTL))
	return services.NewRedisCache(client, cfg.TTL)
}

func newPublisher(cfg config.RabbitMQConfig, zlog *zap.Logger) services.EventPublisher {
	if cfg.URL == "" {
		return services.NewNoopPublisher()
	}

	publisher, err := services.NewAMQPPublisher(cfg.URL, cfg.Exchange)
	if err != nil {
		zlog.Warn("rabbitmq unavailable, events disabled", zap.Error(err))
		return services.NewNoopPublisher()
	}

	zlog.Info("event publishing enabled", zap.String("exchange", cfg.Exchange))
	return publisher
}
