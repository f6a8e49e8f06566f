package api

import (
	"context"

	"workwhiz/internal/api/domain/entities"
	"workwhiz/internal/transform"
	"workwhiz/internal/validation"
)

// ProfileService отдает профили в виде DTO.
type ProfileService interface {
	GetProfile(ctx context.Context, role entities.Role, id string, mode transform.Mode) (transform.DTO, error)
}

// ValidationService проверяет вход без сохранения.
type ValidationService interface {
	Validate(ctx context.Context, kind validation.Kind, raw any) (*validation.Result, error)
}
