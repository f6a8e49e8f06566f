package repositories

import (
	"context"

	"workwhiz/internal/api/domain/entities"
)

// UserRepository определяет операции хранения пользователей.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)

	FindByID(ctx context.Context, id string) (*entities.User, error)

	FindByEmail(ctx context.Context, email string) (*entities.User, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// SetPassword сохраняет хеш и активирует пользователя.
	SetPassword(ctx context.Context, id, passwordHash string) error
}
