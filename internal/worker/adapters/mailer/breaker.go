package mailer

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"workwhiz/internal/worker/config"
	"workwhiz/internal/worker/ports"
	"workwhiz/pkg/logger"
)

// State - состояние выключателя.
type State int

// Состояния выключателя.
const (
	// StateClosed - письма уходят в SES.
	StateClosed State = iota
	// StateOpen - SES считается недоступным, письма отклоняются сразу.
	StateOpen
	// StateHalfOpen - пробные отправки после паузы.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Константы для сообщений logger.
const (
	LogBreakerStateChange = "mail breaker state changed"
	LogBreakerReject      = "mail breaker rejected send"
)

// ErrCircuitOpen возвращается, пока выключатель разомкнут.
var ErrCircuitOpen = errors.New("mail circuit breaker is open")

// Breaker защищает отправителя от серии отказов SES.
// Ошибки самого письма, например ErrEmptyMessage, не считаются отказом.
type Breaker struct {
	next ports.Mailer
	cfg  config.BreakerConfig
	now  func() time.Time

	mu        sync.Mutex
	state     State
	failures  int
	successes int
	changedAt time.Time
}

// BreakerOption настраивает Breaker.
type BreakerOption func(*Breaker)

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) BreakerOption {
	return func(b *Breaker) { b.now = now }
}

// NewBreaker оборачивает next выключателем с порогами cfg.
func NewBreaker(next ports.Mailer, cfg config.BreakerConfig, opts ...BreakerOption) *Breaker {
	if cfg.ErrorThreshold <= 0 {
		cfg.ErrorThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 1
	}

	b := &Breaker{next: next, cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	b.changedAt = b.now()
	return b
}

// Send передает письмо дальше, если выключатель замкнут или ждет пробы.
func (b *Breaker) Send(ctx context.Context, msg ports.Message) (string, error) {
	if !b.allow(ctx) {
		logger.Log(ctx).Warn(ctx, LogBreakerReject, zap.String("to", msg.To))
		return "", ErrCircuitOpen
	}

	id, err := b.next.Send(ctx, msg)
	b.record(ctx, err)
	return id, err
}

// State возвращает текущее состояние.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) allow(ctx context.Context) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != StateOpen {
		return true
	}
	if b.now().Sub(b.changedAt) < b.cfg.Timeout {
		return false
	}
	b.transition(ctx, StateHalfOpen)
	return true
}

func (b *Breaker) record(ctx context.Context, err error) {
	if errors.Is(err, ErrEmptyMessage) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.failures++
		if b.state == StateHalfOpen || b.failures >= b.cfg.ErrorThreshold {
			b.transition(ctx, StateOpen)
		}
		return
	}

	switch b.state {
	case StateClosed:
		b.failures = 0
	case StateHalfOpen:
		b.successes++
		if b.successes >= b.cfg.SuccessThreshold {
			b.transition(ctx, StateClosed)
		}
	}
}

// transition вызывается под b.mu.
func (b *Breaker) transition(ctx context.Context, to State) {
	if b.state == to {
		return
	}
	logger.Log(ctx).Info(ctx, LogBreakerStateChange,
		zap.Stringer("from", b.state),
		zap.Stringer("to", to),
		zap.Int("failures", b.failures))

	b.state = to
	b.changedAt = b.now()
	b.successes = 0
	if to != StateOpen {
		b.failures = 0
	}
}
