package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Имена общих правил.
const (
	RuleIsString   = "isString"
	RuleIsNotEmpty = "isNotEmpty"
	RuleMinLength  = "minLength"
	RuleMaxLength  = "maxLength"
	RuleIsEmail    = "isEmail"
	RuleIsDefined  = "isDefined"
	RuleIsObject   = "isObject"
)

func asString(value any) (string, bool) {
	s, ok := value.(string)
	return s, ok
}

// IsString требует строку.
func IsString() Constraint {
	return Constraint{
		Name: RuleIsString,
		Check: func(value any, _ Args) bool {
			_, ok := asString(value)
			return ok
		},
		Message: func(_ any, args Args) string {
			return fmt.Sprintf("%s must be a string", args.Property)
		},
	}
}

// IsNotEmpty отклоняет nil и пустую строку.
func IsNotEmpty() Constraint {
	return Constraint{
		Name: RuleIsNotEmpty,
		Check: func(value any, _ Args) bool {
			if value == nil {
				return false
			}
			s, ok := asString(value)
			return !ok || s != ""
		},
		Message: func(_ any, args Args) string {
			return fmt.Sprintf("%s should not be empty", args.Property)
		},
	}
}

// MinLength требует строку не короче n символов.
func MinLength(n int) Constraint {
	return Constraint{
		Name: RuleMinLength,
		Check: func(value any, _ Args) bool {
			s, ok := asString(value)
			return ok && utf8.RuneCountInString(s) >= n
		},
		Message: func(_ any, args Args) string {
			return fmt.Sprintf("%s must be longer than or equal to %d characters", args.Property, n)
		},
	}
}

// MaxLength отклоняет строки длиннее n символов.
func MaxLength(n int) Constraint {
	return Constraint{
		Name: RuleMaxLength,
		Check: func(value any, _ Args) bool {
			s, ok := asString(value)
			return !ok || utf8.RuneCountInString(s) <= n
		},
		Message: func(_ any, args Args) string {
			return fmt.Sprintf("%s must be shorter than or equal to %d characters", args.Property, n)
		},
	}
}

// IsEmail проверяет только формат адреса.
func IsEmail() Constraint {
	return Constraint{
		Name: RuleIsEmail,
		Check: func(value any, _ Args) bool {
			s, ok := asString(value)
			return ok && validEmailShape(s)
		},
		Message: func(_ any, args Args) string {
			return fmt.Sprintf("%s must be an email", args.Property)
		},
	}
}

// ValidateInput сравнивает два ввода после обрезки пробелов по краям.
// Сравнение учитывает регистр.
func ValidateInput(input, expected string) bool {
	return strings.TrimSpace(input) == strings.TrimSpace(expected)
}
