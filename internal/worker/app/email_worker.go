// Package app содержит цикл обработки email-задач.
package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"workwhiz/internal/metrics"
	"workwhiz/internal/queue"
	"workwhiz/internal/worker/ports"
	"workwhiz/pkg/logger"
)

// Константы для сообщений logger.
const (
	LogWorkerStarted   = "email worker started"
	LogWorkerStopped   = "email worker stopped"
	LogEmailSent       = "email successfully sent"
	LogUnknownTemplate = "unknown template name, sending without html body"
	LogInvalidJob      = "invalid email job discarded"
	LogSendFailed      = "failed to process email job"
	LogAckFailed       = "email sent but job acknowledgement failed"
	LogPollFailed      = "failed to poll email queue"
	LogStatsFailed     = "failed to read queue stats"
)

// Статусы email-задач в метриках.
const (
	StatusSent    = "sent"
	StatusRetried = "retried"
	StatusFailed  = "failed"
)

// Значения по умолчанию.
const (
	DefaultPollTimeout = 5 * time.Second
	DefaultErrorDelay  = time.Second
)

// Options - параметры воркера.
type Options struct {
	PollTimeout time.Duration
	Concurrency int
	ErrorDelay  time.Duration
}

// EmailWorker забирает задачи из очереди, рендерит и отправляет письма.
type EmailWorker struct {
	queue    ports.JobQueue
	renderer ports.Renderer
	mailer   ports.Mailer
	metrics  *metrics.Metrics
	opts     Options
}

// NewEmailWorker создает воркер.
func NewEmailWorker(q ports.JobQueue, renderer ports.Renderer, mailer ports.Mailer, m *metrics.Metrics, opts Options) *EmailWorker {
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = DefaultPollTimeout
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.ErrorDelay <= 0 {
		opts.ErrorDelay = DefaultErrorDelay
	}
	return &EmailWorker{
		queue:    q,
		renderer: renderer,
		mailer:   mailer,
		metrics:  m,
		opts:     opts,
	}
}

// Run возвращает в очередь задачи, брошенные прошлым запуском, и обрабатывает задачи до отмены ctx.
func (w *EmailWorker) Run(ctx context.Context) error {
	if _, err := w.queue.Recover(ctx); err != nil {
		return err
	}

	log := logger.Log(ctx)
	log.Info(ctx, LogWorkerStarted, zap.Int("concurrency", w.opts.Concurrency))

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < w.opts.Concurrency; i++ {
		g.Go(func() error {
			w.loop(gctx)
			return nil
		})
	}
	err := g.Wait()

	log.Info(ctx, LogWorkerStopped)
	return err
}

func (w *EmailWorker) loop(ctx context.Context) {
	for ctx.Err() == nil {
		if _, err := w.Poll(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Log(ctx).Error(ctx, LogPollFailed, zap.Error(err))

			select {
			case <-ctx.Done():
				return
			case <-time.After(w.opts.ErrorDelay):
			}
		}
	}
}

// Poll выполняет одну итерацию: переносит наступившие отложенные задачи, ждет задачу
// не дольше PollTimeout и обрабатывает ее. Возвращает true, если задача была получена.
func (w *EmailWorker) Poll(ctx context.Context) (bool, error) {
	if _, err := w.queue.PromoteDue(ctx); err != nil {
		return false, err
	}

	job, err := w.queue.Dequeue(ctx, w.opts.PollTimeout)
	if errors.Is(err, queue.ErrEmpty) {
		w.reportDepth(ctx)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	// Начатая задача доводится до конца даже при остановке процесса.
	_ = w.Process(context.WithoutCancel(ctx), job)
	w.reportDepth(ctx)
	return true, nil
}

// Process отправляет письмо задачи. Ошибка отправки ведет к повтору или переносу в failed.
func (w *EmailWorker) Process(ctx context.Context, job *queue.EmailJob) error {
	template := string(job.Template.Name)
	log := logger.Log(ctx).With(
		zap.String("job_id", job.ID),
		zap.String("template", template),
		zap.Int("attempt", job.Attempts+1))

	if err := job.Validate(); err != nil {
		log.Error(ctx, LogInvalidJob, zap.Error(err))
		if failErr := w.queue.Fail(ctx, job, err); failErr != nil {
			return errors.Join(err, failErr)
		}
		w.metrics.IncEmailJob(template, StatusFailed)
		return err
	}

	html, err := w.renderer.Render(ctx, job.Template)
	switch {
	case errors.Is(err, ports.ErrUnknownTemplate):
		log.Warn(ctx, LogUnknownTemplate)
		html = ""
	case err != nil:
		return w.retry(ctx, log, job, err)
	}

	msg := ports.Message{To: job.Email, Subject: job.Subject, HTML: html}
	if html == "" {
		msg.Text = job.Subject
	}

	messageID, err := w.mailer.Send(ctx, msg)
	if err != nil {
		return w.retry(ctx, log, job, err)
	}
	w.metrics.IncEmailJob(template, StatusSent)
	log.Info(ctx, LogEmailSent, zap.String("message_id", messageID))

	if err := w.queue.Complete(ctx, job); err != nil {
		log.Error(ctx, LogAckFailed, zap.Error(err))
		return err
	}
	return nil
}

func (w *EmailWorker) retry(ctx context.Context, log *logger.Logger, job *queue.EmailJob, cause error) error {
	template := string(job.Template.Name)
	log.Error(ctx, LogSendFailed, zap.Error(cause))

	retried, err := w.queue.Retry(ctx, job, cause)
	if err != nil {
		return errors.Join(cause, err)
	}
	if retried {
		w.metrics.IncEmailJob(template, StatusRetried)
	} else {
		w.metrics.IncEmailJob(template, StatusFailed)
	}
	return cause
}

func (w *EmailWorker) reportDepth(ctx context.Context) {
	stats, err := w.queue.Stats(ctx)
	if err != nil {
		logger.Log(ctx).Debug(ctx, LogStatsFailed, zap.Error(err))
		return
	}
	w.metrics.SetQueueDepth("pending", stats.Pending)
	w.metrics.SetQueueDepth("processing", stats.Processing)
	w.metrics.SetQueueDepth("delayed", stats.Delayed)
	w.metrics.SetQueueDepth("failed", stats.Failed)
}
