package mailer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workwhiz/internal/worker/adapters/mailer"
	"workwhiz/internal/worker/config"
	"workwhiz/internal/worker/ports"
)

type scriptedMailer struct {
	errs  []error
	calls int
}

func (s *scriptedMailer) Send(_ context.Context, _ ports.Message) (string, error) {
	s.calls++
	if len(s.errs) == 0 {
		return "msg", nil
	}
	err := s.errs[0]
	s.errs = s.errs[1:]
	return "", err
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestBreaker(t *testing.T) {
	ctx := testContext()
	msg := ports.Message{To: "jane@gmail.com", Subject: "s", Text: "t"}
	cfg := config.BreakerConfig{ErrorThreshold: 2, Timeout: 30 * time.Second, SuccessThreshold: 2}
	errSES := errors.New("throttled")

	newBreaker := func(next ports.Mailer) (*mailer.Breaker, *fakeClock) {
		clock := &fakeClock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
		return mailer.NewBreaker(next, cfg, mailer.WithClock(clock.now)), clock
	}

	t.Run("размыкается после порога ошибок", func(t *testing.T) {
		next := &scriptedMailer{errs: []error{errSES, errSES}}
		b, _ := newBreaker(next)

		_, err := b.Send(ctx, msg)
		assert.ErrorIs(t, err, errSES)
		assert.Equal(t, mailer.StateClosed, b.State())

		_, err = b.Send(ctx, msg)
		assert.ErrorIs(t, err, errSES)
		assert.Equal(t, mailer.StateOpen, b.State())

		_, err = b.Send(ctx, msg)
		assert.ErrorIs(t, err, mailer.ErrCircuitOpen)
		assert.Equal(t, 2, next.calls, "open breaker does not reach SES")
	})

	t.Run("успех сбрасывает счетчик", func(t *testing.T) {
		next := &scriptedMailer{errs: []error{errSES, nil, errSES}}
		b, _ := newBreaker(next)

		for range 3 {
			_, _ = b.Send(ctx, msg)
		}
		assert.Equal(t, mailer.StateClosed, b.State())
	})

	t.Run("восстановление через полуоткрытое состояние", func(t *testing.T) {
		next := &scriptedMailer{errs: []error{errSES, errSES}}
		b, clock := newBreaker(next)
		_, _ = b.Send(ctx, msg)
		_, _ = b.Send(ctx, msg)
		require.Equal(t, mailer.StateOpen, b.State())

		clock.advance(29 * time.Second)
		_, err := b.Send(ctx, msg)
		assert.ErrorIs(t, err, mailer.ErrCircuitOpen)

		clock.advance(time.Second)
		id, err := b.Send(ctx, msg)
		require.NoError(t, err)
		assert.Equal(t, "msg", id)
		assert.Equal(t, mailer.StateHalfOpen, b.State())

		_, err = b.Send(ctx, msg)
		require.NoError(t, err)
		assert.Equal(t, mailer.StateClosed, b.State())
	})

	t.Run("ошибка в полуоткрытом состоянии размыкает снова", func(t *testing.T) {
		next := &scriptedMailer{errs: []error{errSES, errSES, errSES}}
		b, clock := newBreaker(next)
		_, _ = b.Send(ctx, msg)
		_, _ = b.Send(ctx, msg)

		clock.advance(time.Minute)
		_, err := b.Send(ctx, msg)
		assert.ErrorIs(t, err, errSES)
		assert.Equal(t, mailer.StateOpen, b.State())

		_, err = b.Send(ctx, msg)
		assert.ErrorIs(t, err, mailer.ErrCircuitOpen)
	})

	t.Run("пустое письмо не считается отказом", func(t *testing.T) {
		next := &scriptedMailer{errs: []error{mailer.ErrEmptyMessage, mailer.ErrEmptyMessage, mailer.ErrEmptyMessage}}
		b, _ := newBreaker(next)
		for range 3 {
			_, err := b.Send(ctx, msg)
			assert.ErrorIs(t, err, mailer.ErrEmptyMessage)
		}
		assert.Equal(t, mailer.StateClosed, b.State())
	})
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", mailer.StateClosed.String())
	assert.Equal(t, "open", mailer.StateOpen.String())
	assert.Equal(t, "half_open", mailer.StateHalfOpen.String())
	assert.Equal(t, "unknown", mailer.State(9).String())
}
