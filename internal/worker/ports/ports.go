// Package ports описывает зависимости email-воркера.
package ports

import (
	"context"
	"errors"
	"time"

	"workwhiz/internal/queue"
)

// ErrUnknownTemplate возвращается рендерером для незарегистрированного шаблона.
var ErrUnknownTemplate = errors.New("unknown email template")

// JobQueue - потребительская сторона очереди писем.
type JobQueue interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*queue.EmailJob, error)
	Complete(ctx context.Context, job *queue.EmailJob) error
	Retry(ctx context.Context, job *queue.EmailJob, cause error) (bool, error)
	Fail(ctx context.Context, job *queue.EmailJob, cause error) error
	PromoteDue(ctx context.Context) (int, error)
	Recover(ctx context.Context) (int, error)
	Stats(ctx context.Context) (queue.Stats, error)
}

// Renderer строит HTML письма по шаблону.
type Renderer interface {
	Render(ctx context.Context, ref queue.TemplateRef) (string, error)
}

// Message - готовое к отправке письмо.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer доставляет письма и возвращает идентификатор сообщения у провайдера.
type Mailer interface {
	Send(ctx context.Context, msg Message) (string, error)
}
