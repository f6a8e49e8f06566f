package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"workwhiz/pkg/logger"
)

// Константы для сообщений logger.
const (
	LogEnqueued  = "email job enqueued"
	LogRetry     = "email job scheduled for retry"
	LogFailed    = "email job moved to failed list"
	LogPromoted  = "delayed email jobs promoted"
	LogRecovered = "in-flight email jobs requeued"
)

// Константы для сообщений об ошибках.
const (
	ErrMarshalJob   = "failed to marshal email job"
	ErrUnmarshalJob = "failed to unmarshal email job"
	ErrPushJob      = "failed to push email job"
	ErrPopJob       = "failed to pop email job"
	ErrAckJob       = "failed to acknowledge email job"
	ErrScheduleJob  = "failed to schedule email job"
	ErrPromoteJobs  = "failed to promote delayed jobs"
	ErrQueueStats   = "failed to read queue stats"
)

// Stats - длины списков очереди.
type Stats struct {
	Pending    int64
	Processing int64
	Delayed    int64
	Failed     int64
}

// Queue хранит задачи в четырех ключах: pending и processing (списки), delayed (ZSET по времени),
// failed (список). Завершенные задачи удаляются.
type Queue struct {
	rdb  *redis.Client
	opts Options
	now  func() time.Time

	pending, processing, delayed, failed string
}

// New создает очередь.
func New(rdb *redis.Client, opts Options) *Queue {
	opts = opts.withDefaults()
	return &Queue{
		rdb:        rdb,
		opts:       opts,
		now:        time.Now,
		pending:    opts.Prefix + ":pending",
		processing: opts.Prefix + ":processing",
		delayed:    opts.Prefix + ":delayed",
		failed:     opts.Prefix + ":failed",
	}
}

// Options возвращает параметры очереди.
func (q *Queue) Options() Options { return q.opts }

// Enqueue кладет задачу в pending и возвращает ее идентификатор.
func (q *Queue) Enqueue(ctx context.Context, job EmailJob) (string, error) {
	if err := job.Validate(); err != nil {
		return "", err
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	job.Attempts = 0
	job.EnqueuedAt = q.now().UTC()

	payload, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrMarshalJob, err)
	}
	if err := q.rdb.LPush(ctx, q.pending, payload).Err(); err != nil {
		return "", fmt.Errorf("%s: %w", ErrPushJob, err)
	}

	logger.Log(ctx).Debug(ctx, LogEnqueued,
		zap.String("job_id", job.ID),
		zap.String("template", string(job.Template.Name)))
	return job.ID, nil
}

// Dequeue ждет задачу не дольше timeout и переносит ее в processing.
// При пустой очереди возвращает ErrEmpty.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*EmailJob, error) {
	payload, err := q.rdb.BRPopLPush(ctx, q.pending, q.processing, timeout).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrPopJob, err)
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		if dropErr := q.rdb.LRem(ctx, q.processing, 1, payload).Err(); dropErr != nil {
			err = errors.Join(err, dropErr)
		}
		return nil, fmt.Errorf("%s: %w", ErrUnmarshalJob, err)
	}
	job.raw = payload
	return &job, nil
}

// Complete подтверждает обработку и удаляет задачу.
func (q *Queue) Complete(ctx context.Context, job *EmailJob) error {
	if err := q.rdb.LRem(ctx, q.processing, 1, job.raw).Err(); err != nil {
		return fmt.Errorf("%s: %w", ErrAckJob, err)
	}
	return nil
}

// Retry учитывает неудачную попытку. Пока попытки не исчерпаны, задача откладывается
// с экспоненциальной задержкой, иначе переносится в failed. Возвращает true, если задача отложена.
func (q *Queue) Retry(ctx context.Context, job *EmailJob, cause error) (bool, error) {
	return q.reschedule(ctx, job, cause, true)
}

// Fail сразу переносит задачу в failed, не расходуя оставшиеся попытки.
func (q *Queue) Fail(ctx context.Context, job *EmailJob, cause error) error {
	_, err := q.reschedule(ctx, job, cause, false)
	return err
}

func (q *Queue) reschedule(ctx context.Context, job *EmailJob, cause error, allowRetry bool) (bool, error) {
	next := *job
	next.raw = ""
	next.Attempts++
	if cause != nil {
		next.LastError = cause.Error()
	}

	payload, err := json.Marshal(next)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMarshalJob, err)
	}

	log := logger.Log(ctx).With(zap.String("job_id", job.ID), zap.Int("attempts", next.Attempts))
	retry := allowRetry && next.Attempts < q.opts.MaxAttempts

	_, err = q.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, q.processing, 1, job.raw)
		if retry {
			due := q.now().Add(q.opts.Backoff(next.Attempts))
			pipe.ZAdd(ctx, q.delayed, redis.Z{Score: float64(due.UnixMilli()), Member: payload})
			return nil
		}
		pipe.LPush(ctx, q.failed, payload)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrScheduleJob, err)
	}

	if retry {
		log.Warn(ctx, LogRetry, zap.Duration("backoff", q.opts.Backoff(next.Attempts)))
	} else {
		log.Error(ctx, LogFailed, zap.String("last_error", next.LastError))
	}
	*job = next
	return retry, nil
}

// promoteScript переносит задачу из delayed в pending одной операцией,
// только если этот вызов ее и удалил.
var promoteScript = redis.NewScript(`
if redis.call("ZREM", KEYS[1], ARGV[1]) == 1 then
	redis.call("LPUSH", KEYS[2], ARGV[1])
	return 1
end
return 0
`)

// PromoteDue переносит наступившие отложенные задачи в pending.
func (q *Queue) PromoteDue(ctx context.Context) (int, error) {
	upper := strconv.FormatInt(q.now().UnixMilli(), 10)
	due, err := q.rdb.ZRangeByScore(ctx, q.delayed, &redis.ZRangeBy{Min: "-inf", Max: upper}).Result()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrPromoteJobs, err)
	}

	promoted := 0
	for _, payload := range due {
		moved, err := promoteScript.Run(ctx, q.rdb, []string{q.delayed, q.pending}, payload).Int()
		if err != nil {
			return promoted, fmt.Errorf("%s: %w", ErrPromoteJobs, err)
		}
		if moved == 0 {
			continue
		}
		promoted++
	}

	if promoted > 0 {
		logger.Log(ctx).Debug(ctx, LogPromoted, zap.Int("count", promoted))
	}
	return promoted, nil
}

// Recover возвращает в pending задачи, оставшиеся в processing после аварийной остановки.
func (q *Queue) Recover(ctx context.Context) (int, error) {
	moved := 0
	for {
		err := q.rdb.RPopLPush(ctx, q.processing, q.pending).Err()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			return moved, fmt.Errorf("%s: %w", ErrPopJob, err)
		}
		moved++
	}
	if moved > 0 {
		logger.Log(ctx).Warn(ctx, LogRecovered, zap.Int("count", moved))
	}
	return moved, nil
}

// Stats возвращает длины списков.
func (q *Queue) Stats(ctx context.Context) (Stats, error) {
	pipe := q.rdb.Pipeline()
	pending := pipe.LLen(ctx, q.pending)
	processing := pipe.LLen(ctx, q.processing)
	delayed := pipe.ZCard(ctx, q.delayed)
	failed := pipe.LLen(ctx, q.failed)
	if _, err := pipe.Exec(ctx); err != nil {
		return Stats{}, fmt.Errorf("%s: %w", ErrQueueStats, err)
	}
	return Stats{
		Pending:    pending.Val(),
		Processing: processing.Val(),
		Delayed:    delayed.Val(),
		Failed:     failed.Val(),
	}, nil
}

// Failed возвращает до limit последних задач из failed.
func (q *Queue) Failed(ctx context.Context, limit int64) ([]EmailJob, error) {
	items, err := q.rdb.LRange(ctx, q.failed, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrQueueStats, err)
	}
	jobs := make([]EmailJob, 0, len(items))
	for _, item := range items {
		var job EmailJob
		if err := json.Unmarshal([]byte(item), &job); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrUnmarshalJob, err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
