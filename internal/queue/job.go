// Package queue реализует очередь email-задач поверх Redis.
package queue

import (
	"errors"
	"time"
)

// Template - имя email-шаблона.
type Template string

// Шаблоны писем.
const (
	TemplatePasswordReset  Template = "password_reset"
	TemplatePasswordSetup  Template = "password_setup"
	TemplatePasswordUpdate Template = "password_update"
)

// Ошибки очереди.
var (
	ErrEmpty      = errors.New("queue is empty")
	ErrInvalidJob = errors.New("invalid email job")
)

// TemplateData - переменные шаблона.
type TemplateData struct {
	URI      string `json:"uri,omitempty"`
	Username string `json:"username,omitempty"`
	Device   string `json:"device,omitempty"`
}

// TemplateRef ссылается на шаблон и его данные.
type TemplateRef struct {
	Name    Template     `json:"name"`
	Content TemplateData `json:"content"`
}

// EmailJob - задача на отправку письма.
type EmailJob struct {
	ID         string      `json:"id"`
	Email      string      `json:"email"`
	Subject    string      `json:"subject"`
	Template   TemplateRef `json:"template"`
	Attempts   int         `json:"attempts"`
	EnqueuedAt time.Time   `json:"enqueuedAt"`
	LastError  string      `json:"lastError,omitempty"`

	raw string
}

// Validate проверяет обязательные поля задачи.
func (j *EmailJob) Validate() error {
	switch {
	case j.Email == "":
		return errors.Join(ErrInvalidJob, errors.New("email is empty"))
	case j.Template.Name == "":
		return errors.Join(ErrInvalidJob, errors.New("template is empty"))
	}
	return nil
}

// Options - параметры повторов.
type Options struct {
	Prefix      string
	MaxAttempts int
	BaseBackoff time.Duration
}

// Значения по умолчанию: 3 попытки, экспоненциальная задержка от 1 секунды.
const (
	DefaultPrefix      = "workwhiz:email"
	DefaultMaxAttempts = 3
	DefaultBaseBackoff = time.Second
)

func (o Options) withDefaults() Options {
	if o.Prefix == "" {
		o.Prefix = DefaultPrefix
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.BaseBackoff <= 0 {
		o.BaseBackoff = DefaultBaseBackoff
	}
	return o
}

// Backoff возвращает задержку перед попыткой после attempts неудачных.
func (o Options) Backoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	return o.BaseBackoff * time.Duration(1<<(attempts-1))
}
