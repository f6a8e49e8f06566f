// Package services содержит типы и ошибки сервисного уровня API.
package services

import (
	"errors"
	"time"
)

// TokenPurpose ограничивает применение одноразового токена.
type TokenPurpose string

// Назначения токенов.
const (
	PurposePasswordSetup TokenPurpose = "password_setup"
	PurposePasswordReset TokenPurpose = "password_reset"
)

// Ошибки токенов.
var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrExpiredToken    = errors.New("token has expired")
	ErrTokenPurpose    = errors.New("token issued for another purpose")
	ErrInvalidPassword = errors.New("invalid password")
)

// TokenClaims - содержимое токена установки или сброса пароля.
type TokenClaims struct {
	UserID    string
	Email     string
	Role      string
	Purpose   TokenPurpose
	ExpiresAt time.Time
}
