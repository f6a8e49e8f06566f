package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// RuleIsValidPhoneNumber - имя правила телефона.
const RuleIsValidPhoneNumber = "isValidPhoneNumber"

// Коды стран с отдельным шаблоном номера.
const (
	CountryZA = "ZA"
	CountryUS = "US"
	CountryUK = "UK"
)

const defaultPhonePattern = "DEFAULT"

var phonePatterns = map[string]*regexp.Regexp{
	CountryZA:           regexp.MustCompile(`^(\+27|0)[6-8][0-9]{8}$`),
	CountryUS:           regexp.MustCompile(`^(\+1)?[2-9][0-9]{2}[2-9][0-9]{6}$`),
	CountryUK:           regexp.MustCompile(`^(\+44|0)7[0-9]{9}$`),
	defaultPhonePattern: regexp.MustCompile(`^\+?[1-9][0-9]{7,14}$`),
}

func phonePattern(country string) *regexp.Regexp {
	if re, ok := phonePatterns[strings.ToUpper(country)]; ok {
		return re
	}
	return phonePatterns[defaultPhonePattern]
}

// ValidatePhoneNumber проверяет phone по шаблону страны. Для неизвестных стран
// используется международный шаблон.
func ValidatePhoneNumber(phone, country string) bool {
	return phonePattern(country).MatchString(phone)
}

// IsPhoneNumber - правило телефона для country. Пустое message выбирает стандартное.
func IsPhoneNumber(country, message string) Constraint {
	country = strings.ToUpper(country)
	msg := func(_ any, args Args) string {
		if message != "" {
			return message
		}
		return fmt.Sprintf("%s must be a valid %s phone number", args.Property, country)
	}
	return Constraint{
		Name: RuleIsValidPhoneNumber,
		Check: func(value any, _ Args) bool {
			s, ok := asString(value)
			return ok && ValidatePhoneNumber(s, country)
		},
		Message: msg,
	}
}
