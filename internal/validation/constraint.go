// Package validation реализует декларативный движок ограничений для проверки
// недоверенного ввода регистрации и аккаунта до сохранения.
package validation

import (
	"errors"
	"fmt"
)

// Ошибки конфигурации. Возвращаются при сборке схем и фатальны при старте.
var (
	ErrDuplicateConstraint = errors.New("constraint already registered in scope")
	ErrUnknownConstraint   = errors.New("constraint is not registered in scope")
	ErrUnknownSchema       = errors.New("unknown schema")
	ErrMalformedInput      = errors.New("input cannot be coerced into an object")
)

// Args - контекст проверки, передаваемый ограничению.
type Args struct {
	// Property - имя проверяемого поля.
	Property string
	// Object - весь проверяемый объект.
	Object map[string]any
}

// CheckFunc сообщает, удовлетворяет ли value правилу.
type CheckFunc func(value any, args Args) bool

// MessageFunc формирует сообщение об ошибке для value.
type MessageFunc func(value any, args Args) string

// Constraint - именованный предикат с сообщением об ошибке. Ограничения не хранят состояния.
type Constraint struct {
	Name    string
	Check   CheckFunc
	Message MessageFunc
}

// Violation - одно нарушенное ограничение одного поля.
type Violation struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Message    string `json:"message"`
}

// StaticMessage возвращает MessageFunc, всегда отдающую msg.
func StaticMessage(msg string) MessageFunc {
	return func(any, Args) string { return msg }
}

// WithMessage возвращает копию c с сообщением msg вместо стандартного.
func WithMessage(c Constraint, msg string) Constraint {
	c.Message = StaticMessage(msg)
	return c
}

// Scope хранит именованные ограничения одной схемы. Область с родителем
// ищет в нем неизвестные имена, а конфликт регистрации возможен только внутри самой области.
type Scope struct {
	name   string
	parent *Scope
	rules  map[string]Constraint
}

// NewScope создает пустую область.
func NewScope(name string, parent *Scope) *Scope {
	return &Scope{name: name, parent: parent, rules: make(map[string]Constraint)}
}

// Register добавляет переиспользуемое правило в область.
func (s *Scope) Register(name string, check CheckFunc, message MessageFunc) (Constraint, error) {
	if _, ok := s.rules[name]; ok {
		return Constraint{}, fmt.Errorf("%w: %q in %q", ErrDuplicateConstraint, name, s.name)
	}
	if check == nil || message == nil {
		return Constraint{}, fmt.Errorf("constraint %q in %q: check and message are required", name, s.name)
	}
	c := Constraint{Name: name, Check: check, Message: message}
	s.rules[name] = c
	return c, nil
}

// Lookup ищет правило по имени по цепочке областей.
func (s *Scope) Lookup(name string) (Constraint, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if c, ok := cur.rules[name]; ok {
			return c, true
		}
	}
	return Constraint{}, false
}

// Evaluate применяет к value все ограничения в порядке объявления и возвращает
// по нарушению на каждое проваленное. Ошибка не останавливает остальные ограничения.
func Evaluate(field string, value any, constraints []Constraint, args Args) []Violation {
	args.Property = field

	var violations []Violation
	for _, c := range constraints {
		if c.Check(value, args) {
			continue
		}
		violations = append(violations, Violation{
			Field:      field,
			Constraint: c.Name,
			Message:    c.Message(value, args),
		})
	}
	return violations
}

// Messages возвращает сообщения нарушений с сохранением порядка.
func Messages(violations []Violation) []string {
	if len(violations) == 0 {
		return nil
	}
	out := make([]string, len(violations))
	for i, v := range violations {
		out[i] = v.Message
	}
	return out
}
