package services

import (
	"context"
	"time"
)

// Cache - строковое хранилище с временем жизни. Промах возвращает пустую строку без ошибки.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)

	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
}
