package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"workwhiz/internal/api/domain/entities"
	"workwhiz/internal/api/ports/repositories"
	"workwhiz/pkg/logger"
)

const userColumns = `id, avatar_url, email, phone, password_hash, role, is_verified, is_active, is_locked, created_at, updated_at`

// UserRepository реализует repositories.UserRepository.
type UserRepository struct {
	pool PgxPoolInterface
}

// NewUserRepository создает репозиторий пользователей.
func NewUserRepository(pool PgxPoolInterface) repositories.UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var (
		user entities.User
		role string
	)
	err := row.Scan(
		&user.ID,
		&user.AvatarURL,
		&user.Email,
		&user.Phone,
		&user.PasswordHash,
		&role,
		&user.IsVerified,
		&user.IsActive,
		&user.IsLocked,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Role = entities.Role(role)
	return &user, nil
}

// Create сохраняет нового пользователя.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Create"))

	query := `
        INSERT INTO users (email, phone, password_hash, role, is_verified, is_active, is_locked)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + userColumns

	created, err := scanUser(conn(ctx, r.pool).QueryRow(ctx, query,
		user.Email,
		user.Phone,
		user.PasswordHash,
		string(user.Role),
		user.IsVerified,
		user.IsActive,
		user.IsLocked,
	))
	if err != nil {
		if name, ok := constraintViolation(err); ok {
			log.Debug(ctx, "unique constraint violated", zap.String("constraint", name))
			if name == "users_phone_key" {
				return nil, entities.ErrPhoneAlreadyExists
			}
			return nil, entities.ErrEmailAlreadyExists
		}
		log.Error(ctx, "error creating user", zap.Error(err))
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return created, nil
}

// FindByID находит пользователя по ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	return r.findOne(ctx, "FindByID", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// FindByEmail находит пользователя по email без учета регистра.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, "FindByEmail", `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email)
}

func (r *UserRepository) findOne(ctx context.Context, method, query string, arg string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", method))

	user, err := scanUser(conn(ctx, r.pool).QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found")
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "error querying user", zap.Error(err))
		return nil, fmt.Errorf("error querying user: %w", err)
	}
	return user, nil
}

// ExistsByEmail проверяет, занят ли email.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "ExistsByEmail"))

	var exists bool
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, email,
	).Scan(&exists)
	if err != nil {
		log.Error(ctx, "error checking email", zap.Error(err))
		return false, fmt.Errorf("error checking email: %w", err)
	}
	return exists, nil
}

// SetPassword сохраняет хеш пароля и активирует пользователя.
func (r *UserRepository) SetPassword(ctx context.Context, id, passwordHash string) error {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "SetPassword"))

	tag, err := conn(ctx, r.pool).Exec(ctx, `
        UPDATE users
        SET password_hash = $2, is_active = TRUE, is_verified = TRUE, updated_at = NOW()
        WHERE id = $1
    `, id, passwordHash)
	if err != nil {
		log.Error(ctx, "error updating password", zap.Error(err))
		return fmt.Errorf("error updating password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrUserNotFound
	}
	return nil
}
