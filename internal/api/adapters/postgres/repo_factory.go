package postgres

import (
	"workwhiz/internal/api/ports/repositories"
)

// RepositoryFactory создает репозитории API над одним пулом.
type RepositoryFactory struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	tx          repositories.Transactor
}

// NewRepositoryFactory создает фабрику репозиториев.
func NewRepositoryFactory(pool PgxPoolInterface) *RepositoryFactory {
	return &RepositoryFactory{
		userRepo:    NewUserRepository(pool),
		profileRepo: NewProfileRepository(pool),
		tx:          NewTxManager(pool),
	}
}

// UserRepository возвращает репозиторий пользователей.
func (f *RepositoryFactory) UserRepository() repositories.UserRepository {
	return f.userRepo
}

// ProfileRepository возвращает репозиторий профилей.
func (f *RepositoryFactory) ProfileRepository() repositories.ProfileRepository {
	return f.profileRepo
}

// Transactor возвращает менеджер транзакций.
func (f *RepositoryFactory) Transactor() repositories.Transactor {
	return f.tx
}
