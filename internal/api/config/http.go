package config

import (
	"fmt"
	"time"
)

// HTTPConfig конфигурация HTTP сервера.
type HTTPConfig struct {
	Host         string        `yaml:"host" env:"API_HTTP_HOST" env-default:"0.0.0.0"`
	Port         int           `yaml:"port" env:"API_HTTP_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"API_HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"API_HTTP_WRITE_TIMEOUT" env-default:"10s"`
	BodyLimit    int           `yaml:"body_limit" env:"API_HTTP_BODY_LIMIT" env-default:"1048576"`
}

// GetAddress возвращает адрес HTTP сервера.
func (h *HTTPConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// CacheConfig конфигурация кэша ответов API.
type CacheConfig struct {
	ProfileTTL time.Duration `yaml:"profile_ttl" env:"API_PROFILE_CACHE_TTL" env-default:"1m"`
}

// Enabled сообщает, включено ли кэширование профилей.
func (c *CacheConfig) Enabled() bool {
	return c.ProfileTTL > 0
}
