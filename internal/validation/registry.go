package validation

import (
	"fmt"
	"slices"
)

// Kind - идентификатор зарегистрированной схемы.
type Kind string

// Зарегистрированные схемы.
const (
	KindBaseRegistration Kind = "base"
	KindAdmin            Kind = "admin"
	KindCandidate        Kind = "candidate"
	KindEmployer         Kind = "employer"
	KindPassword         Kind = "password"
	KindForgotPassword   Kind = "forgotPassword"
)

// RegistrationPhoneCountry - единственная страна телефона при регистрации.
const RegistrationPhoneCountry = CountryZA

// Registry хранит схемы процесса. После NewRegistry только для чтения.
type Registry struct {
	schemas map[Kind]*Schema
}

// NewRegistry собирает все схемы. Любая ошибка - дефект конфигурации.
func NewRegistry() (*Registry, error) {
	base, err := baseRegistrationSchema()
	if err != nil {
		return nil, err
	}

	r := &Registry{schemas: map[Kind]*Schema{KindBaseRegistration: base}}

	builders := map[Kind]func(*Schema) (*Schema, error){
		KindAdmin:     adminSchema,
		KindCandidate: candidateSchema,
		KindEmployer:  employerSchema,
	}
	for kind, build := range builders {
		s, err := build(base)
		if err != nil {
			return nil, err
		}
		r.schemas[kind] = s
	}

	if r.schemas[KindPassword], err = NewSchema(string(KindPassword)).
		Field("password", PasswordRules()...).
		Build(); err != nil {
		return nil, err
	}
	if r.schemas[KindForgotPassword], err = NewSchema(string(KindForgotPassword)).
		Field("email", IsEmail()).
		Build(); err != nil {
		return nil, err
	}
	return r, nil
}

// MustRegistry - NewRegistry для старта процесса.
func MustRegistry() *Registry {
	r, err := NewRegistry()
	if err != nil {
		panic(err)
	}
	return r
}

// Schema возвращает схему kind.
func (r *Registry) Schema(kind Kind) (*Schema, error) {
	s, ok := r.schemas[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, kind)
	}
	return s, nil
}

// Kinds возвращает отсортированный список схем.
func (r *Registry) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r.schemas))
	for k := range r.schemas {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

func baseRegistrationSchema() (*Schema, error) {
	email := IsAllowedEmail()
	phone := IsPhoneNumber(RegistrationPhoneCountry, "")

	b := NewSchema(string(KindBaseRegistration)).
		Define(email.Name, email.Check, email.Message).
		Define(phone.Name, phone.Check, phone.Message)
	b.Field("email", b.Rule(RuleIsAllowedEmail))
	b.Field("phone", b.Rule(RuleIsValidPhoneNumber))
	return b.Build()
}

func personName(b *Builder) *Builder {
	return b.
		Field("firstName", IsString(), MinLength(2)).
		Field("lastName", IsString(), MinLength(2))
}

func adminSchema(base *Schema) (*Schema, error) {
	return personName(NewSchema(string(KindAdmin)).Extend(base)).Build()
}

func candidateSchema(base *Schema) (*Schema, error) {
	return personName(NewSchema(string(KindCandidate)).Extend(base)).
		Field("title", IsString(), MinLength(3)).
		Build()
}

func employerSchema(base *Schema) (*Schema, error) {
	return NewSchema(string(KindEmployer)).Extend(base).
		Field("company", IsString(), MinLength(2)).
		Field("industry", IsString(), MinLength(2)).
		Build()
}
