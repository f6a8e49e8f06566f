// Package config содержит конфигурацию email-воркера.
package config

import (
	"context"

	"go.uber.org/zap"

	"workwhiz/pkg/config"
	"workwhiz/pkg/logger"
)

const serviceName = "worker"

// Config представляет полную конфигурацию воркера.
type Config struct {
	Redis      config.RedisConfig    `yaml:"redis"`
	Queue      config.QueueConfig    `yaml:"queue"`
	Processing ProcessingConfig      `yaml:"processing"`
	SES        SESConfig             `yaml:"ses"`
	Email      EmailConfig           `yaml:"email"`
	Metrics    MetricsConfig         `yaml:"metrics"`
	Logging    config.LoggingConfig  `yaml:"logging" env-prefix:"WORKER_"`
	Shutdown   config.ShutdownConfig `yaml:"shutdown" env-prefix:"WORKER_"`
}

// Load загружает конфигурацию воркера из файла path или из окружения, если path пустой.
func Load(ctx context.Context, path string) (*Config, error) {
	cfg, err := config.Load[Config](ctx, serviceName, path)
	if err != nil {
		return nil, err
	}

	logger.Log(ctx).Info(ctx, "worker configuration",
		zap.String("redis_address", cfg.Redis.GetAddress()),
		zap.String("queue_prefix", cfg.Queue.Prefix),
		zap.Int("max_attempts", cfg.Queue.MaxAttempts),
		zap.Int("concurrency", cfg.Processing.Concurrency),
		zap.String("ses_region", cfg.SES.Region),
		zap.Bool("ses_static_credentials", cfg.SES.HasStaticCredentials()),
		zap.String("metrics_address", cfg.Metrics.GetAddress()),
		zap.String("log_level", cfg.Logging.Level),
		zap.Duration("shutdown_timeout", cfg.Shutdown.GetTimeout()))

	return cfg, nil
}
