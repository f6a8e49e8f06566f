package entities

import (
	"time"

	"workwhiz/internal/transform"
)

// User - учетная запись любой роли.
type User struct {
	ID           string
	AvatarURL    *string
	Email        string
	Phone        string
	PasswordHash *string
	Role         Role
	IsVerified   bool
	IsActive     bool
	IsLocked     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword сообщает, задан ли пароль.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// Record экспортирует пользователя для transform.
func (u *User) Record() transform.Record {
	rec := transform.Record{
		"id":         u.ID,
		"email":      u.Email,
		"phone":      u.Phone,
		"role":       string(u.Role),
		"isVerified": u.IsVerified,
		"isActive":   u.IsActive,
		"isLocked":   u.IsLocked,
		"createdAt":  u.CreatedAt,
		"updatedAt":  u.UpdatedAt,
	}
	if u.AvatarURL != nil {
		rec["avatarUrl"] = *u.AvatarURL
	}
	if u.PasswordHash != nil {
		rec["password"] = *u.PasswordHash
	}
	return rec
}
