package validation

import "strings"

// RuleIsStrongPassword - имя правила классов символов.
const RuleIsStrongPassword = "isStrongPassword"

// Ограничения длины пароля.
const (
	PasswordMinLength = 12
	PasswordMaxLength = 64
)

// Сообщения политики паролей.
const (
	MsgPasswordEmpty    = "Please enter a password"
	MsgPasswordTooShort = "Password should be at least 12 characters long"
	MsgPasswordTooLong  = "Password should not exceed 64 characters"
	MsgPasswordWeak     = "Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character"
)

// PasswordSpecialChars - допустимые спецсимволы.
const PasswordSpecialChars = `!@#$%^&*(),.?":{}|<>`

// IsStrongPasswordValue сообщает, что в пароле есть строчная и заглавная буквы,
// цифра и спецсимвол, и нет символов других классов.
func IsStrongPasswordValue(password string) bool {
	if password == "" {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSpecialChars, r):
			special = true
		default:
			return false
		}
	}
	return lower && upper && digit && special
}

// IsStrongPassword - правило классов символов.
func IsStrongPassword() Constraint {
	return Constraint{
		Name: RuleIsStrongPassword,
		Check: func(value any, _ Args) bool {
			s, ok := asString(value)
			return ok && IsStrongPasswordValue(s)
		},
		Message: StaticMessage(MsgPasswordWeak),
	}
}

// PasswordRules возвращает всю политику паролей. Каждое правило сообщает о себе отдельно.
func PasswordRules() []Constraint {
	return []Constraint{
		WithMessage(IsNotEmpty(), MsgPasswordEmpty),
		WithMessage(MinLength(PasswordMinLength), MsgPasswordTooShort),
		WithMessage(MaxLength(PasswordMaxLength), MsgPasswordTooLong),
		IsStrongPassword(),
	}
}
