package services

import "errors"

// Ошибки сценариев учетной записи.
var (
	ErrPasswordMismatch   = errors.New("password confirmation does not match")
	ErrPasswordAlreadySet = errors.New("password already set")
)

// RegistrationRequest - типизированные данные регистрации после валидации.
type RegistrationRequest struct {
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Title     string `json:"title"`
	Company   string `json:"company"`
	Industry  string `json:"industry"`
}

// PasswordRequest - установка или сброс пароля по токену.
type PasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Device          string `json:"-"`
}
