package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"workwhiz/internal/api/domain/services"
	svc "workwhiz/internal/api/ports/services"
	"workwhiz/pkg/logger"
)

const (
	//nolint:gosec
	errSigningToken = "error signing token"
	//nolint:gosec
	errEmptySecret = "empty token secret"
)

// ErrInvalidAlgorithm - токен подписан не HMAC.
var ErrInvalidAlgorithm = errors.New("invalid signing algorithm")

// Claims - формат токена пароля для библиотеки JWT.
type Claims struct {
	Email   string `json:"email"`
	Role    string `json:"role"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// ServiceJWT реализует TokenService на HS256.
type ServiceJWT struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWT создает сервис токенов установки и сброса пароля.
func NewJWT(secret string, ttl time.Duration) svc.TokenService {
	return &ServiceJWT{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue подписывает токен. Пустой ExpiresAt заменяется на now+ttl.
func (s *ServiceJWT) Issue(ctx context.Context, claims services.TokenClaims) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", "Issue"), zap.String("purpose", string(claims.Purpose)))

	if len(s.secret) == 0 {
		log.Error(ctx, errEmptySecret)
		return "", fmt.Errorf("%s: %w", errSigningToken, services.ErrInvalidToken)
	}

	now := s.now()
	expiresAt := claims.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = now.Add(s.ttl)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email:   claims.Email,
		Role:    claims.Role,
		Purpose: string(claims.Purpose),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		log.Error(ctx, errSigningToken, zap.Error(err))
		return "", fmt.Errorf("%s: %w", errSigningToken, err)
	}
	log.Debug(ctx, "token issued", zap.Time("expiresAt", expiresAt))
	return signed, nil
}

// Parse проверяет подпись, срок и назначение токена.
func (s *ServiceJWT) Parse(ctx context.Context, tokenString string, purpose services.TokenPurpose) (*services.TokenClaims, error) {
	log := logger.Log(ctx).With(zap.String("method", "Parse"), zap.String("purpose", string(purpose)))

	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAlgorithm, token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Debug(ctx, "token has expired")
			return nil, services.ErrExpiredToken
		}
		log.Debug(ctx, "invalid token", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", services.ErrInvalidToken, err)
	}

	if services.TokenPurpose(claims.Purpose) != purpose {
		log.Debug(ctx, "token purpose mismatch", zap.String("actual", claims.Purpose))
		return nil, services.ErrTokenPurpose
	}
	if claims.Subject == "" {
		return nil, services.ErrInvalidToken
	}

	return &services.TokenClaims{
		UserID:    claims.Subject,
		Email:     claims.Email,
		Role:      claims.Role,
		Purpose:   purpose,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
