// Package main реализует точку входа email-воркера.
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

	"workwhiz/internal/metrics"
	"workwhiz/internal/queue"
	workerhttp "workwhiz/internal/worker/adapters/http"
	"workwhiz/internal/worker/adapters/mailer"
	"workwhiz/internal/worker/adapters/templates"
	"workwhiz/internal/worker/app"
	"workwhiz/internal/worker/config"
	"workwhiz/pkg/db/redis"
	"workwhiz/pkg/logger"
	"workwhiz/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "WORKER_LOGGER_MODE"
	EnvLoggerLevel = "WORKER_LOGGER_LEVEL"
	EnvConfigPath  = "WORKER_CONFIG_PATH"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitRedis            = "failed to initialize redis"
	ErrInitTemplates        = "failed to load email templates"
	ErrInitSES              = "failed to initialize SES client"
	ErrStartMetrics         = "failed to start metrics server"
	ErrWorkerStopped        = "email worker stopped with error"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "worker service started"
	LogServiceShutdownDone = "worker service shutdown complete"
	LogStoppingWorker      = "stopping email worker"
	LogStoppingMetrics     = "stopping metrics server"
	LogClosingRedis        = "closing redis connections"
	LogStartingMetrics     = "starting metrics server"
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

		renderer, err := templates.New()
		if err != nil {
			log.Error(ctx, ErrInitTemplates, zap.Error(err))
			exitCode = 1
			return
		}

		sesClient, err := mailer.NewClient(ctx, &cfg.SES)
		if err != nil {
			log.Error(ctx, ErrInitSES, zap.Error(err))
			exitCode = 1
			return
		}

		redisClient, err := redis.NewClient(ctx, redis.FromSource(&cfg.Redis))
		if err != nil {
			log.Error(ctx, ErrInitRedis, zap.Error(err))
			exitCode = 1
			return
		}

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(cfg.Logging.GetEnvironment())),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		m := metrics.New()
		emailQueue := queue.New(redisClient.RawClient(), queue.Options{
			Prefix:      cfg.Queue.Prefix,
			MaxAttempts: cfg.Queue.MaxAttempts,
			BaseBackoff: cfg.Queue.BaseBackoff,
		})
		worker := app.NewEmailWorker(
			emailQueue,
			renderer,
			mailer.NewBreaker(mailer.NewSES(sesClient, cfg.Email.GetFrom(), cfg.SES.ConfigurationSet), cfg.SES.Breaker),
			m,
			app.Options{
				PollTimeout: cfg.Queue.PollTimeout,
				Concurrency: cfg.Processing.Concurrency,
				ErrorDelay:  cfg.Processing.ErrorDelay,
			},
		)

		runCtx, stop := context.WithCancel(ctx)
		defer stop()

		var failed atomic.Bool

		workerCtx, stopWorker := context.WithCancel(ctx)
		workerDone := make(chan struct{})
		go func() {
			defer close(workerDone)
			if err := worker.Run(workerCtx); err != nil {
				log.Error(ctx, ErrWorkerStopped, zap.Error(err))
				failed.Store(true)
				stop()
			}
		}()

		metricsServer := workerhttp.NewApp(m, redisClient.Ping, emailQueue.Failed)
		go func() {
			log.Info(ctx, LogStartingMetrics, zap.String("address", cfg.Metrics.GetAddress()))
			if err := metricsServer.Listen(cfg.Metrics.GetAddress(), fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
				log.Error(ctx, ErrStartMetrics, zap.Error(err))
				failed.Store(true)
				stop()
			}
		}()

		shutdown.Wait(runCtx, cfg.Shutdown.GetTimeout(),
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingWorker)
				stopWorker()
				select {
				case <-workerDone:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			},
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingMetrics)
				return metricsServer.ShutdownWithContext(ctx)
			},
		)
		shutdown.Run(ctx, cfg.Shutdown.GetTimeout(),
			func(ctx context.Context) error {
				log.Info(ctx, LogClosingRedis)
				return redisClient.Close(ctx)
			},
		)

		if failed.Load() {
			exitCode = 1
		}
		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
