package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// RuleIsAllowedEmail - имя правила допустимого email.
const RuleIsAllowedEmail = "isAllowedEmail"

// Сообщения правила допустимого email в порядке приоритета.
const (
	MsgEmailRequired      = "Email is required"
	MsgEmailInvalidFormat = "Invalid email format"
	MsgEmailBlocked       = "We do not accept emails from this provider"
	MsgEmailInvalid       = "Please enter a valid email address"
)

var (
	blockedDomains = []string{"protonmail.com", "pront.me", "tutanota.io"}
	invalidTLDs    = map[string]struct{}{"invalidtld": {}, "localhost": {}, "test": {}, "example": {}}
)

var emailValidator = validator.New(validator.WithRequiredStructEnabled())

func validEmailShape(email string) bool {
	if err := emailValidator.Var(email, "required,email"); err != nil {
		return false
	}
	_, domain, _ := strings.Cut(email, "@")
	return strings.Contains(domain, ".")
}

func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}

func isBlockedDomain(domain string) bool {
	for _, blocked := range blockedDomains {
		if domain == blocked || strings.HasSuffix(domain, "."+blocked) {
			return true
		}
	}
	return false
}

func hasInvalidTLD(domain string) bool {
	tld := domain
	if dot := strings.LastIndex(domain, "."); dot >= 0 {
		tld = domain[dot+1:]
	}
	_, bad := invalidTLDs[tld]
	return bad
}

// IsAllowedEmailAddress сообщает, что email корректен, не принадлежит заблокированному
// провайдеру или его поддомену и не использует запрещенный TLD.
func IsAllowedEmailAddress(email string) bool {
	if email == "" || !validEmailShape(email) {
		return false
	}
	domain := emailDomain(email)
	return domain != "" && !isBlockedDomain(domain) && !hasInvalidTLD(domain)
}

// AllowedEmailMessage выбирает сообщение для отклоненного адреса.
func AllowedEmailMessage(email string) string {
	if email == "" {
		return MsgEmailRequired
	}
	domain := emailDomain(email)
	if domain == "" {
		return MsgEmailInvalidFormat
	}
	if isBlockedDomain(domain) {
		return MsgEmailBlocked
	}
	return MsgEmailInvalid
}

// IsAllowedEmail - правило допустимого email. Формат, провайдер и TLD проверяются одним ограничением.
func IsAllowedEmail() Constraint {
	return Constraint{
		Name: RuleIsAllowedEmail,
		Check: func(value any, _ Args) bool {
			s, ok := asString(value)
			return ok && IsAllowedEmailAddress(s)
		},
		Message: func(value any, _ Args) string {
			if value == nil {
				return MsgEmailRequired
			}
			s, ok := asString(value)
			if !ok {
				return MsgEmailInvalid
			}
			return AllowedEmailMessage(s)
		},
	}
}
