package services

import (
	"context"

	"workwhiz/internal/api/domain/services"
)

// TokenService выпускает и проверяет одноразовые токены пароля.
type TokenService interface {
	Issue(ctx context.Context, claims services.TokenClaims) (string, error)
	Parse(ctx context.Context, token string, purpose services.TokenPurpose) (*services.TokenClaims, error)
}
