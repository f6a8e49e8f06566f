package repositories

import (
	"context"

	"workwhiz/internal/api/domain/entities"
)

// ProfileRepository определяет операции хранения профилей ролей.
type ProfileRepository interface {
	CreateAdmin(ctx context.Context, admin *entities.Admin) (*entities.Admin, error)
	CreateCandidate(ctx context.Context, candidate *entities.Candidate) (*entities.Candidate, error)
	CreateEmployer(ctx context.Context, employer *entities.Employer) (*entities.Employer, error)

	// FindByID загружает профиль роли вместе с пользователем.
	FindByID(ctx context.Context, role entities.Role, id string) (entities.Profile, error)
}

// Transactor выполняет fn в одной транзакции; репозитории берут транзакцию из ctx.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
