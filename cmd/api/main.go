// Package main реализует точку входа HTTP API доски вакансий.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	apihttp "workwhiz/internal/api/adapters/http"
	"workwhiz/internal/api/adapters/cache"
	"workwhiz/internal/api/adapters/postgres"
	"workwhiz/internal/api/adapters/services"
	"workwhiz/internal/api/app"
	"workwhiz/internal/api/config"
	"workwhiz/internal/api/db"
	"workwhiz/internal/metrics"
	"workwhiz/internal/queue"
	"workwhiz/internal/transform"
	"workwhiz/internal/validation"
	"workwhiz/pkg/db/redis"
	"workwhiz/pkg/logger"
	"workwhiz/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "API_LOGGER_MODE"
	EnvLoggerLevel = "API_LOGGER_LEVEL"
	EnvConfigPath  = "API_CONFIG_PATH"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitDB               = "failed to initialize database"
	ErrInitRedis            = "failed to initialize redis"
	ErrInitSchemas          = "failed to build validation schemas"
	ErrStartHTTP            = "failed to start HTTP server"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "api service started"
	LogServiceShutdownDone = "api service shutdown complete"
	LogClosingDB           = "closing database connections"
	LogClosingRedis        = "closing redis connections"
	LogStoppingHTTP        = "stopping HTTP server"
	LogInitRepo            = "initializing repositories"
	LogInitServices        = "initializing services"
	LogInitUseCases        = "initializing use cases"
	LogInitHTTP            = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
	LogSchemasLoaded       = "validation schemas loaded"
)

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx, os.Getenv(EnvConfigPath))
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		registry, err := validation.NewRegistry()
		if err != nil {
			log.Error(ctx, ErrInitSchemas, zap.Error(err))
			exitCode = 1
			return
		}
		log.Info(ctx, LogSchemasLoaded, zap.Any("kinds", registry.Kinds()))

		database, err := db.New(ctx, &cfg.Postgres)
		if err != nil {
			log.Error(ctx, ErrInitDB, zap.Error(err))
			exitCode = 1
			return
		}

		redisClient, err := redis.NewClient(ctx, redis.FromSource(&cfg.Redis))
		if err != nil {
			log.Error(ctx, ErrInitRedis, zap.Error(err))
			database.Close(ctx)
			exitCode = 1
			return
		}

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(cfg.Logging.GetEnvironment())),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		m := metrics.New()

		log.Info(ctx, LogInitRepo)
		repoFactory := postgres.NewRepositoryFactory(database.Pool())

		log.Info(ctx, LogInitServices)
		serviceFactory := services.NewServiceFactory(
			cfg.Security.TokenSecret,
			cfg.Security.GetTokenTTL(),
			cfg.Security.BCryptCost,
		)
		emailQueue := queue.New(redisClient.RawClient(), queue.Options{
			Prefix:      cfg.Queue.Prefix,
			MaxAttempts: cfg.Queue.MaxAttempts,
			BaseBackoff: cfg.Queue.BaseBackoff,
		})

		log.Info(ctx, LogInitUseCases)
		pipeline := validation.NewPipeline(registry, validation.WithObserver(m))
		transformer := transform.New()
		accountUseCase := app.NewAccountUseCase(
			pipeline,
			transformer,
			repoFactory.UserRepository(),
			repoFactory.ProfileRepository(),
			repoFactory.Transactor(),
			serviceFactory.PasswordService(),
			serviceFactory.TokenService(),
			emailQueue,
			cfg.Security.AppURL,
		)
		var profileOpts []app.ProfileOption
		if cfg.Cache.Enabled() {
			profileCache := cache.NewRedisCache(redisClient.RawClient(), "", cfg.Cache.ProfileTTL)
			profileOpts = append(profileOpts, app.WithProfileCache(profileCache, cfg.Cache.ProfileTTL))
		}
		profileUseCase := app.NewProfileUseCase(repoFactory.ProfileRepository(), transformer, profileOpts...)
		validationUseCase := app.NewValidationUseCase(pipeline)

		log.Info(ctx, LogInitHTTP)
		server := apihttp.NewApp(fiber.Config{
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			BodyLimit:    cfg.HTTP.BodyLimit,
		})
		handler := apihttp.NewHandler(accountUseCase, profileUseCase, validationUseCase, map[string]apihttp.HealthCheck{
			"postgres": database.Ping,
			"redis":    redisClient.Ping,
		})
		apihttp.SetupRouter(server, handler, m)

		runCtx, stop := context.WithCancel(ctx)
		defer stop()

		var listenFailed atomic.Bool
		go func() {
			log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
			if err := server.Listen(cfg.HTTP.GetAddress(), fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
				log.Error(ctx, ErrStartHTTP, zap.Error(err))
				listenFailed.Store(true)
				stop()
			}
		}()

		shutdown.Wait(runCtx, cfg.Shutdown.GetTimeout(),
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingHTTP)
				return server.ShutdownWithContext(ctx)
			},
		)
		shutdown.Run(ctx, cfg.Shutdown.GetTimeout(),
			func(ctx context.Context) error {
				log.Info(ctx, LogClosingDB)
				database.Close(ctx)
				return nil
			},
			func(ctx context.Context) error {
				log.Info(ctx, LogClosingRedis)
				return redisClient.Close(ctx)
			},
		)

		if listenFailed.Load() {
			exitCode = 1
		}
		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
