// Package app содержит сценарии API: регистрацию, пароли, профили и пробную валидацию.
package app

import (
	"errors"
	"strings"
)

// ErrValidation - класс ошибок входных данных.
var ErrValidation = errors.New("validation failed")

// ValidationError несет сообщения нарушенных ограничений в порядке полей схемы.
type ValidationError struct {
	Messages []string
	Cause    error
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + strings.Join(e.Messages, "; ")
}

// Is относит ошибку к ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}
