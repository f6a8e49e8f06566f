package app

import (
	"context"

	"workwhiz/internal/api/ports/api"
	"workwhiz/internal/validation"
)

// ValidationUseCaseImpl реализует api.ValidationService.
type ValidationUseCaseImpl struct {
	pipeline *validation.Pipeline
}

// NewValidationUseCase создает сценарий пробной валидации.
func NewValidationUseCase(pipeline *validation.Pipeline) api.ValidationService {
	return &ValidationUseCaseImpl{pipeline: pipeline}
}

// Validate возвращает результат проверки без побочных эффектов.
func (v *ValidationUseCaseImpl) Validate(ctx context.Context, kind validation.Kind, raw any) (*validation.Result, error) {
	return v.pipeline.Validate(ctx, kind, raw)
}
