package transform

import (
	"fmt"
	"time"

	"github.com/spf13/cast"
)

// Epoch - значение по умолчанию для отсутствующих меток времени.
var Epoch = time.Unix(0, 0).UTC()

func wrapInvalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidValue, err)
}

// Bool выполняет неявное приведение, например "true" или 1.
func Bool(v any) (any, error) {
	b, err := cast.ToBoolE(v)
	if err != nil {
		return nil, wrapInvalid(err)
	}
	return b, nil
}

// Int выполняет неявное приведение.
func Int(v any) (any, error) {
	i, err := cast.ToIntE(v)
	if err != nil {
		return nil, wrapInvalid(err)
	}
	return i, nil
}

// String выполняет неявное приведение.
func String(v any) (any, error) {
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, wrapInvalid(err)
	}
	return s, nil
}

// Strings создает новый []string, чтобы результат не ссылался на запись.
func Strings(v any) (any, error) {
	s, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil, wrapInvalid(err)
	}
	out := make([]string, len(s))
	copy(out, s)
	return out, nil
}

// Time приводит к time.Time в UTC. Нулевое время считается отсутствующим и становится Epoch.
func Time(v any) (any, error) {
	t, err := cast.ToTimeE(v)
	if err != nil {
		return nil, wrapInvalid(err)
	}
	if t.IsZero() {
		return Epoch, nil
	}
	return t.UTC(), nil
}

// NullableTime - Time, сохраняющий nil.
func NullableTime(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if t, ok := v.(*time.Time); ok {
		if t == nil {
			return nil, nil
		}
		return t.UTC(), nil
	}
	return Time(v)
}

func defaultFalse() any   { return false }
func defaultZero() any    { return 0 }
func defaultEpoch() any   { return Epoch }
func defaultStrings() any { return []string{} }
