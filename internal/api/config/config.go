// Package config содержит конфигурацию HTTP API.
package config

import (
	"context"

	"go.uber.org/zap"

	"workwhiz/pkg/config"
	"workwhiz/pkg/logger"
)

const serviceName = "api"

// Config представляет полную конфигурацию API.
type Config struct {
	Postgres PostgresConfig        `yaml:"postgres"`
	HTTP     HTTPConfig            `yaml:"http"`
	Security SecurityConfig        `yaml:"security"`
	Cache    CacheConfig           `yaml:"cache"`
	Redis    config.RedisConfig    `yaml:"redis"`
	Queue    config.QueueConfig    `yaml:"queue"`
	Logging  config.LoggingConfig  `yaml:"logging" env-prefix:"API_"`
	Shutdown config.ShutdownConfig `yaml:"shutdown" env-prefix:"API_"`
}

// Load загружает конфигурацию API из файла path или из окружения, если path пустой.
func Load(ctx context.Context, path string) (*Config, error) {
	cfg, err := config.Load[Config](ctx, serviceName, path)
	if err != nil {
		return nil, err
	}

	logger.Log(ctx).Info(ctx, "api configuration",
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.String("http_address", cfg.HTTP.GetAddress()),
		zap.String("redis_address", cfg.Redis.GetAddress()),
		zap.Duration("profile_cache_ttl", cfg.Cache.ProfileTTL),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode),
		zap.Duration("shutdown_timeout", cfg.Shutdown.GetTimeout()))

	return cfg, nil
}
