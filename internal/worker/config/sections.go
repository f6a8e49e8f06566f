package config

import (
	"fmt"
	"net/mail"
	"time"
)

// SESConfig содержит настройки AWS SES.
// Без ключей используется стандартная цепочка учетных данных AWS.
type SESConfig struct {
	Region           string        `yaml:"region" env:"WORKER_SES_REGION" env-default:"us-east-1"`
	AccessKeyID      string        `yaml:"access_key_id" env:"WORKER_SES_ACCESS_KEY_ID"`
	SecretAccessKey  string        `yaml:"secret_access_key" env:"WORKER_SES_SECRET_ACCESS_KEY"`
	Endpoint         string        `yaml:"endpoint" env:"WORKER_SES_ENDPOINT"`
	ConfigurationSet string        `yaml:"configuration_set" env:"WORKER_SES_CONFIGURATION_SET"`
	Breaker          BreakerConfig `yaml:"breaker"`
}

// BreakerConfig содержит пороги автоматического выключателя перед SES.
type BreakerConfig struct {
	ErrorThreshold   int           `yaml:"error_threshold" env:"WORKER_SES_BREAKER_THRESHOLD" env-default:"5"`
	Timeout          time.Duration `yaml:"timeout" env:"WORKER_SES_BREAKER_TIMEOUT" env-default:"30s"`
	SuccessThreshold int           `yaml:"success_threshold" env:"WORKER_SES_BREAKER_SUCCESS" env-default:"2"`
}

// HasStaticCredentials сообщает, заданы ли ключи явно.
func (s *SESConfig) HasStaticCredentials() bool {
	return s.AccessKeyID != "" && s.SecretAccessKey != ""
}

// EmailConfig содержит адрес отправителя.
type EmailConfig struct {
	FromAddress string `yaml:"from_address" env:"WORKER_EMAIL_FROM_ADDRESS" env-default:"no-reply@workwhiz.io"`
	FromName    string `yaml:"from_name" env:"WORKER_EMAIL_FROM_NAME" env-default:"WorkWhiz"`
}

// GetFrom возвращает адрес отправителя в формате RFC 5322.
func (e *EmailConfig) GetFrom() string {
	if e.FromName == "" {
		return e.FromAddress
	}
	return (&mail.Address{Name: e.FromName, Address: e.FromAddress}).String()
}

// MetricsConfig содержит адрес HTTP сервера метрик воркера.
type MetricsConfig struct {
	Host string `yaml:"host" env:"WORKER_METRICS_HOST" env-default:"0.0.0.0"`
	Port int    `yaml:"port" env:"WORKER_METRICS_PORT" env-default:"9091"`
}

// GetAddress возвращает адрес в формате host:port.
func (m *MetricsConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", m.Host, m.Port)
}

// ProcessingConfig содержит параметры цикла обработки.
type ProcessingConfig struct {
	Concurrency int           `yaml:"concurrency" env:"WORKER_CONCURRENCY" env-default:"2"`
	ErrorDelay  time.Duration `yaml:"error_delay" env:"WORKER_ERROR_DELAY" env-default:"1s"`
}
