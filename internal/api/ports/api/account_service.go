package api

import (
	"context"

	"workwhiz/internal/api/domain/entities"
	"workwhiz/internal/api/domain/services"
	"workwhiz/internal/transform"
)

// AccountService - сценарии регистрации и управления паролем.
type AccountService interface {
	Register(ctx context.Context, role entities.Role, raw any) (transform.DTO, error)

	SetupPassword(ctx context.Context, req services.PasswordRequest) error

	RequestPasswordReset(ctx context.Context, raw any) error

	ResetPassword(ctx context.Context, req services.PasswordRequest) error
}
