package config

import (
	"fmt"
	"time"

	"workwhiz/pkg/logger"
)

// LoggingConfig содержит настройки логирования.
type LoggingConfig struct {
	Level string `yaml:"level" env:"LOGGER_LEVEL" env-default:"info"`
	Mode  string `yaml:"mode" env:"LOGGER_MODE" env-default:"development"`
}

// GetEnvironment переводит строку режима в logger.Environment.
func (l *LoggingConfig) GetEnvironment() logger.Environment {
	if l.Mode == string(logger.Production) {
		return logger.Production
	}
	return logger.Development
}

// ShutdownConfig содержит настройки graceful shutdown.
type ShutdownConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// GetTimeout возвращает таймаут остановки.
func (s *ShutdownConfig) GetTimeout() time.Duration {
	if s.Timeout <= 0 {
		return 5 * time.Second
	}
	return s.Timeout
}

// RedisConfig содержит настройки подключения к Redis и реализует redis.Source.
type RedisConfig struct {
	Host     string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     int           `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	PoolSize int           `yaml:"pool_size" env:"REDIS_POOL_SIZE" env-default:"10"`
	Timeout  time.Duration `yaml:"timeout" env:"REDIS_TIMEOUT" env-default:"5s"`
}

func (r *RedisConfig) GetAddress() string        { return fmt.Sprintf("%s:%d", r.Host, r.Port) }
func (r *RedisConfig) GetPassword() string       { return r.Password }
func (r *RedisConfig) GetDB() int                { return r.DB }
func (r *RedisConfig) GetPoolSize() int          { return r.PoolSize }
func (r *RedisConfig) GetTimeout() time.Duration { return r.Timeout }

// QueueConfig содержит настройки очереди писем.
type QueueConfig struct {
	Prefix      string        `yaml:"prefix" env:"QUEUE_PREFIX" env-default:"workwhiz:email"`
	MaxAttempts int           `yaml:"max_attempts" env:"QUEUE_MAX_ATTEMPTS" env-default:"3"`
	BaseBackoff time.Duration `yaml:"base_backoff" env:"QUEUE_BASE_BACKOFF" env-default:"1s"`
	PollTimeout time.Duration `yaml:"poll_timeout" env:"QUEUE_POLL_TIMEOUT" env-default:"5s"`
}
