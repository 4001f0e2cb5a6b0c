// @title Tennis Analyzer API
// @version 1.0
// @description Upload tennis images or videos and get a stroke analysis back.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:5000
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"tennis-analyzer/internal/adapter"
	"tennis-analyzer/internal/analyzer"
	"tennis-analyzer/internal/cache"
	"tennis-analyzer/internal/config"
	"tennis-analyzer/internal/domain"
	"tennis-analyzer/internal/filestore"
	"tennis-analyzer/internal/handler"
	"tennis-analyzer/internal/logger"
	"tennis-analyzer/internal/middleware"
	"tennis-analyzer/internal/repository"
	"tennis-analyzer/internal/service"
	"tennis-analyzer/internal/validation"

	_ "tennis-analyzer/cmd/api/docs"

	"github.com/gofiber/swagger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

const startupTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLogger := logger.Get()
	defer logger.Sync()
	if cfg.ConfigFile != "" {
		appLogger.Info("Configuration loaded", zap.String("file", cfg.ConfigFile))
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), startupTimeout)
	defer cancelStartup()

	// Storage engine is chosen once, here
	storage, err := repository.NewStorageFromConfig(startupCtx, cfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer storage.Close()

	cacheAdapter, cacheKind := newCache(startupCtx, cfg.Redis)
	analysisCache := service.NewAnalysisCacheService(cacheAdapter, cfg.Redis.TTL)

	files, err := filestore.NewLocalStore(cfg.Uploads.Dir)
	if err != nil {
		appLogger.Fatal("Failed to prepare upload directory", zap.String("dir", cfg.Uploads.Dir), zap.Error(err))
	}

	// Initialize services
	validator := validation.NewValidator(cfg.MaxUploadBytes())
	generator := analyzer.New(analyzer.WithDelay(cfg.Analyzer.SimulatedDelay))
	analysisService := service.NewAnalysisService(storage, files, generator, validator, analysisCache)
	userService := service.NewUserService(storage, validator)
	appLogger.Info("Services initialized",
		zap.String("storage", storage.Kind()),
		zap.String("cache", cacheKind),
		zap.String("uploads", files.Dir()))

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		// Base64 JSON bodies are about 4/3 of the file size.
		BodyLimit: int(cfg.MaxUploadBytes()*4/3) + 1024*1024,
	})

	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept," + middleware.HeaderRequestID,
		MaxAge:       300,
	}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	handler.RegisterRoutes(app.Group("/api"), handler.Handlers{
		Analysis: handler.NewAnalysisHandler(analysisService),
		User:     handler.NewUserHandler(userService),
		Health:   handler.NewHealthHandler(storage.Kind(), cacheKind, cacheAdapter),
	})

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}

// newCache connects to Redis when an address is configured. The service keeps
// running without a cache if Redis is unreachable.
func newCache(ctx context.Context, redisCfg config.RedisConfig) (domain.Cache, string) {
	appLogger := logger.Get()
	if redisCfg.Address == "" {
		appLogger.Info("Redis not configured, analysis cache disabled")
		return adapter.NewNoopCache(), "none"
	}

	redisClient, err := cache.NewRedisClient(ctx, redisCfg)
	if err != nil {
		appLogger.Warn("Redis unavailable, analysis cache disabled", zap.Error(err))
		return adapter.NewNoopCache(), "none"
	}
	appLogger.Info("Successfully connected to Redis", zap.String("address", redisCfg.Address))
	return adapter.NewRedisCacheAdapter(redisClient), "redis"
}
