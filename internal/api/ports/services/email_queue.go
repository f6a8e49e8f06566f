package services

import (
	"context"

	"workwhiz/internal/queue"
)

// EmailQueue ставит письма в очередь воркера.
type EmailQueue interface {
	Enqueue(ctx context.Context, job queue.EmailJob) (string, error)
}
