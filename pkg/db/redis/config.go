package redis

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Значения по умолчанию, синхронизированные с env-default в конфигурации процессов.
const (
	DefaultHost     = "localhost"
	DefaultPort     = 6379
	DefaultPoolSize = 10
	DefaultTimeout  = 5 * time.Second
)

// Config содержит настройки подключения к Redis.
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
	Timeout  time.Duration
}

// Source описывает секцию конфигурации процесса, из которой строится Config.
type Source interface {
	GetAddress() string
	GetPassword() string
	GetDB() int
	GetPoolSize() int
	GetTimeout() time.Duration
}

// DefaultConfig возвращает конфигурацию по умолчанию.
func DefaultConfig() *Config {
	return &Config{
		Host:     DefaultHost,
		Port:     DefaultPort,
		PoolSize: DefaultPoolSize,
		Timeout:  DefaultTimeout,
	}
}

// FromSource строит Config из конфигурации процесса.
func FromSource(src Source) *Config {
	cfg := DefaultConfig()
	host, port := splitAddress(src.GetAddress())
	if host != "" {
		cfg.Host = host
	}
	if port > 0 {
		cfg.Port = port
	}
	cfg.Password = src.GetPassword()
	cfg.DB = src.GetDB()
	if size := src.GetPoolSize(); size > 0 {
		cfg.PoolSize = size
	}
	if timeout := src.GetTimeout(); timeout > 0 {
		cfg.Timeout = timeout
	}
	return cfg
}

// Address возвращает адрес в формате host:port.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func splitAddress(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, 0
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return host, 0
	}
	return host, port
}
