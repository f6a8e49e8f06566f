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

const joinedUserColumns = `u.id, u.avatar_url, u.email, u.phone, u.password_hash, u.role, u.is_verified, u.is_active, u.is_locked, u.created_at, u.updated_at`

// ProfileRepository реализует repositories.ProfileRepository.
type ProfileRepository struct {
	pool PgxPoolInterface
}

// NewProfileRepository создает репозиторий профилей.
func NewProfileRepository(pool PgxPoolInterface) repositories.ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) log(ctx context.Context, method string) *logger.Logger {
	return logger.Log(ctx).With(zap.String("repository", "profile"), zap.String("method", method))
}

func (r *ProfileRepository) createError(ctx context.Context, method string, err error) error {
	r.log(ctx, method).Error(ctx, "error creating profile", zap.Error(err))
	return fmt.Errorf("error creating profile: %w", err)
}

// CreateAdmin сохраняет профиль администратора.
func (r *ProfileRepository) CreateAdmin(ctx context.Context, admin *entities.Admin) (*entities.Admin, error) {
	created := *admin
	err := conn(ctx, r.pool).QueryRow(ctx, `
        INSERT INTO admins (user_id, first_name, last_name, permissions)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at
    `, admin.UserID, admin.FirstName, admin.LastName, admin.Permissions,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, r.createError(ctx, "CreateAdmin", err)
	}
	return &created, nil
}

// CreateCandidate сохраняет профиль соискателя.
func (r *ProfileRepository) CreateCandidate(ctx context.Context, candidate *entities.Candidate) (*entities.Candidate, error) {
	created := *candidate
	err := conn(ctx, r.pool).QueryRow(ctx, `
        INSERT INTO candidates (user_id, first_name, last_name, title, skills, is_employed)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at
    `, candidate.UserID, candidate.FirstName, candidate.LastName, candidate.Title, nonNil(candidate.Skills), candidate.IsEmployed,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, r.createError(ctx, "CreateCandidate", err)
	}
	return &created, nil
}

// CreateEmployer сохраняет профиль работодателя.
func (r *ProfileRepository) CreateEmployer(ctx context.Context, employer *entities.Employer) (*entities.Employer, error) {
	created := *employer
	err := conn(ctx, r.pool).QueryRow(ctx, `
        INSERT INTO employers (user_id, name, industry, website_url, location, description, size, founded_in, is_verified)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at, updated_at
    `, employer.UserID, employer.Name, employer.Industry, employer.WebsiteURL, employer.Location,
		employer.Description, employer.Size, employer.FoundedIn, employer.IsVerified,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, r.createError(ctx, "CreateEmployer", err)
	}
	return &created, nil
}

// FindByID загружает профиль роли вместе с пользователем.
func (r *ProfileRepository) FindByID(ctx context.Context, role entities.Role, id string) (entities.Profile, error) {
	var (
		profile entities.Profile
		err     error
	)
	switch role {
	case entities.RoleAdmin:
		profile, err = r.findAdmin(ctx, id)
	case entities.RoleCandidate:
		profile, err = r.findCandidate(ctx, id)
	case entities.RoleEmployer:
		profile, err = r.findEmployer(ctx, id)
	default:
		return nil, entities.ErrUnknownRole
	}

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.log(ctx, "FindByID").Debug(ctx, "profile not found", zap.String("role", string(role)), zap.String("id", id))
			return nil, entities.ErrProfileNotFound
		}
		r.log(ctx, "FindByID").Error(ctx, "error querying profile", zap.Error(err))
		return nil, fmt.Errorf("error querying profile: %w", err)
	}
	return profile, nil
}

type userScan struct {
	user entities.User
	role string
}

func (s *userScan) dest() []any {
	return []any{
		&s.user.ID, &s.user.AvatarURL, &s.user.Email, &s.user.Phone, &s.user.PasswordHash, &s.role,
		&s.user.IsVerified, &s.user.IsActive, &s.user.IsLocked, &s.user.CreatedAt, &s.user.UpdatedAt,
	}
}

func (s *userScan) result() *entities.User {
	s.user.Role = entities.Role(s.role)
	return &s.user
}

func (r *ProfileRepository) findAdmin(ctx context.Context, id string) (*entities.Admin, error) {
	var (
		a  entities.Admin
		us userScan
	)
	dest := append([]any{&a.ID, &a.UserID, &a.FirstName, &a.LastName, &a.Permissions, &a.CreatedAt, &a.UpdatedAt}, us.dest()...)
	err := conn(ctx, r.pool).QueryRow(ctx, `
        SELECT p.id, p.user_id, p.first_name, p.last_name, p.permissions, p.created_at, p.updated_at, `+joinedUserColumns+`
        FROM admins p JOIN users u ON u.id = p.user_id
        WHERE p.id = $1
    `, id).Scan(dest...)
	if err != nil {
		return nil, err
	}
	a.User = us.result()
	return &a, nil
}

func (r *ProfileRepository) findCandidate(ctx context.Context, id string) (*entities.Candidate, error) {
	var (
		c  entities.Candidate
		us userScan
	)
	dest := append([]any{&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.Title, &c.Skills, &c.IsEmployed, &c.CreatedAt, &c.UpdatedAt}, us.dest()...)
	err := conn(ctx, r.pool).QueryRow(ctx, `
        SELECT p.id, p.user_id, p.first_name, p.last_name, p.title, p.skills, p.is_employed, p.created_at, p.updated_at, `+joinedUserColumns+`
        FROM candidates p JOIN users u ON u.id = p.user_id
        WHERE p.id = $1
    `, id).Scan(dest...)
	if err != nil {
		return nil, err
	}
	c.User = us.result()
	return &c, nil
}

func (r *ProfileRepository) findEmployer(ctx context.Context, id string) (*entities.Employer, error) {
	var (
		e  entities.Employer
		us userScan
	)
	dest := append([]any{
		&e.ID, &e.UserID, &e.Name, &e.Industry, &e.WebsiteURL, &e.Location, &e.Description,
		&e.Size, &e.FoundedIn, &e.IsVerified, &e.CreatedAt, &e.UpdatedAt,
	}, us.dest()...)
	err := conn(ctx, r.pool).QueryRow(ctx, `
        SELECT p.id, p.user_id, p.name, p.industry, p.website_url, p.location, p.description,
               p.size, p.founded_in, p.is_verified, p.created_at, p.updated_at, `+joinedUserColumns+`
        FROM employers p JOIN users u ON u.id = p.user_id
        WHERE p.id = $1
    `, id).Scan(dest...)
	if err != nil {
		return nil, err
	}
	e.User = us.result()
	return &e, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

