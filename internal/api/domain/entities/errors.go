package entities

import "errors"

// Ошибки домена.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrPhoneAlreadyExists = errors.New("phone already registered")
	ErrUnknownRole        = errors.New("unknown role")
	ErrUserLocked         = errors.New("user is locked")
)
