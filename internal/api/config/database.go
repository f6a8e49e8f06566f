package config

import (
	"fmt"
	"net/url"
	"time"

	"workwhiz/pkg/db/postgres"
)

// PostgresConfig содержит настройки подключения к базе данных.
type PostgresConfig struct {
	Host            string        `yaml:"host" env:"API_POSTGRES_HOST" env-default:"localhost"`
	Port            int           `yaml:"port" env:"API_POSTGRES_PORT" env-default:"5432"`
	User            string        `yaml:"user" env:"API_POSTGRES_USER" env-default:"postgres"`
	Password        string        `yaml:"password" env:"API_POSTGRES_PASSWORD" env-default:"postgres"`
	Database        string        `yaml:"database" env:"API_POSTGRES_DB" env-default:"workwhiz"`
	MinConn         int           `yaml:"min_conn" env:"API_POSTGRES_MIN_CONN" env-default:"1"`
	MaxConn         int           `yaml:"max_conn" env:"API_POSTGRES_MAX_CONN" env-default:"10"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" env:"API_POSTGRES_MAX_CONN_LIFETIME" env-default:"1h"`
	Migrations      string        `yaml:"migrations" env:"API_POSTGRES_MIGRATIONS" env-default:"migrations/api"`
}

// GetDSN возвращает строку подключения к PostgreSQL.
func (p *PostgresConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		p.Host, p.Port, p.User, p.Password, p.Database)
}

// GetConnectionURL возвращает URL подключения для миграций.
func (p *PostgresConfig) GetConnectionURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     fmt.Sprintf("%s:%d", p.Host, p.Port),
		Path:     "/" + p.Database,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// GetPoolOptions возвращает параметры пула.
func (p *PostgresConfig) GetPoolOptions() postgres.PoolOptions {
	return postgres.PoolOptions{
		MinConns:        p.MinConn,
		MaxConns:        p.MaxConn,
		MaxConnLifetime: p.MaxConnLifetime,
	}
}
