package config

import (
	"strings"
	"time"

	"workwhiz/internal/api/domain/entities"
)

// SecurityConfig содержит настройки паролей и одноразовых токенов.
type SecurityConfig struct {
	BCryptCost   int           `yaml:"bcrypt_cost" env:"API_BCRYPT_COST" env-default:"10"`
	TokenSecret  string        `yaml:"token_secret" env:"API_TOKEN_SECRET" env-default:"change-me-in-production"`
	TokenTTL     time.Duration `yaml:"token_ttl" env:"API_TOKEN_TTL" env-default:"24h"`
	AdminURL     string        `yaml:"admin_url" env:"API_ADMIN_URL" env-default:"http://admin.localhost:3000"`
	CandidateURL string        `yaml:"candidate_url" env:"API_CANDIDATE_URL" env-default:"http://www.localhost:3000"`
	EmployerURL  string        `yaml:"employer_url" env:"API_EMPLOYER_URL" env-default:"http://employer.localhost:3000"`
}

// AppURL возвращает публичный адрес фронтенда роли без завершающего слеша.
func (s *SecurityConfig) AppURL(role entities.Role) string {
	var u string
	switch role {
	case entities.RoleAdmin:
		u = s.AdminURL
	case entities.RoleEmployer:
		u = s.EmployerURL
	default:
		u = s.CandidateURL
	}
	return strings.TrimRight(u, "/")
}

// GetTokenTTL возвращает время жизни токена пароля.
func (s *SecurityConfig) GetTokenTTL() time.Duration {
	if s.TokenTTL <= 0 {
		return 24 * time.Hour
	}
	return s.TokenTTL
}
