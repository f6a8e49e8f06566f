// Package transform превращает внутренние записи во внутренние или публичные DTO.
package transform

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Kind - сущность с описаниями преобразования.
type Kind string

// Виды сущностей.
const (
	KindUser           Kind = "user"
	KindAdmin          Kind = "admin"
	KindCandidate      Kind = "candidate"
	KindEmployer       Kind = "employer"
	KindAuthentication Kind = "authentication"
)

// Mode выбирает представление результата.
type Mode string

// Представления.
const (
	ModeInternal Mode = "internal"
	ModeResponse Mode = "response"
)

// Policy определяет, попадает ли поле в результат.
type Policy int

// Политики включения.
const (
	IncludeAlways Policy = iota
	IncludeIfPresent
	Never
)

// Record - частичная внутренняя запись по именам полей.
type Record map[string]any

// DTO - результат преобразования.
type DTO map[string]any

// Ошибки дефектов вызывающей стороны или описаний.
var (
	ErrMissingField = errors.New("required field is missing")
	ErrUnknownKind  = errors.New("unknown transform kind")
	ErrInvalidValue = errors.New("field value cannot be converted")
	ErrSpecConflict = errors.New("conflicting transform spec")
)

// Error описывает неудачное преобразование.
type Error struct {
	Kind  Kind
	Mode  Mode
	Field string
	Err   error
}

func (e *Error) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("transform %s/%s: %v", e.Kind, e.Mode, e.Err)
	}
	return fmt.Sprintf("transform %s/%s field %q: %v", e.Kind, e.Mode, e.Field, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// FieldSpec описывает одно поле результата.
type FieldSpec struct {
	Name   string
	Policy Policy
	// Default дает значение отсутствующего поля IncludeAlways. Без него поле обязательно.
	Default func() any
	// Convert нормализует присутствующее значение.
	Convert func(any) (any, error)
	// Nested преобразует значение через публичное описание другой сущности.
	Nested Kind
}

// Getter вычисляет поле только для вывода. ok=false пропускает поле.
type Getter func(out DTO) (value any, ok bool)

// Computed - вычисляемое поле результата.
type Computed struct {
	Name string
	Get  Getter
}

// Spec - описание преобразования одной сущности в одном представлении.
type Spec struct {
	Kind     Kind
	Mode     Mode
	Fields   []FieldSpec
	Computed []Computed
}

// sensitiveFields никогда не попадают в ответ, что бы ни было в описании.
// Ключи нормализованы: нижний регистр, без '_' и '-'.
var sensitiveFields = map[string]struct{}{
	"password":         {},
	"passwordhash":     {},
	"hashedpassword":   {},
	"mfasecret":        {},
	"mfarecoverycodes": {},
	"otpsecret":        {},
}

// IsSensitive сообщает, исключается ли name из любого ответа.
// Регистр и разделители '_' и '-' не учитываются: "Password" и "password_hash" совпадают.
func IsSensitive(name string) bool {
	_, ok := sensitiveFields[normalizeName(name)]
	return ok
}

func normalizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || r == '-' {
			return -1
		}
		return unicode.ToLower(r)
	}, name)
}

// Response строит публичное описание из внутреннего, оставляя только перечисленные поля.
func Response(internal *Spec, fields []string, computed ...Computed) *Spec {
	keep := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		keep[f] = struct{}{}
	}

	out := &Spec{Kind: internal.Kind, Mode: ModeResponse, Computed: computed}
	for _, f := range internal.Fields {
		if _, ok := keep[f.Name]; ok {
			out.Fields = append(out.Fields, f)
		}
	}
	return out
}
