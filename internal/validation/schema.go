package validation

import (
	"errors"
	"fmt"
)

// Field описывает ограничения одного поля схемы.
type Field struct {
	Name        string
	Constraints []Constraint
	// Optional пропускает ограничения, если значения нет.
	Optional bool
	// Nested проверяет вложенный объект по другой схеме.
	Nested *Schema
}

// Schema - упорядоченный неизменяемый набор полей.
type Schema struct {
	name   string
	fields []Field
	index  map[string]int
	scope  *Scope
}

// Name возвращает имя схемы.
func (s *Schema) Name() string { return s.name }

// Scope возвращает область ограничений схемы.
func (s *Schema) Scope() *Scope { return s.scope }

// Fields возвращает поля в порядке объявления.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// FieldNames возвращает имена полей в порядке объявления.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Field ищет поле по имени.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Builder собирает Schema. Ошибки накапливаются и возвращаются из Build.
type Builder struct {
	name   string
	fields []Field
	index  map[string]int
	scope  *Scope
	errs   []error
}

// NewSchema начинает схему name.
func NewSchema(name string) *Builder {
	return &Builder{
		name:  name,
		index: make(map[string]int),
		scope: NewScope(name, nil),
	}
}

// Extend наследует все поля base. Унаследованные имена ищутся в области base.
// Поле с тем же именем, объявленное позже, заменяет унаследованное на его месте.
func (b *Builder) Extend(base *Schema) *Builder {
	if base == nil {
		b.errs = append(b.errs, fmt.Errorf("schema %q: nil base", b.name))
		return b
	}
	b.scope = NewScope(b.name, base.scope)
	for _, f := range base.fields {
		b.put(f)
	}
	return b
}

// Define регистрирует именованное правило в области схемы.
func (b *Builder) Define(name string, check CheckFunc, message MessageFunc) *Builder {
	if _, err := b.scope.Register(name, check, message); err != nil {
		b.errs = append(b.errs, fmt.Errorf("schema %q: %w", b.name, err))
	}
	return b
}

// Rule ищет правило этой схемы или ее предков.
func (b *Builder) Rule(name string) Constraint {
	c, ok := b.scope.Lookup(name)
	if !ok {
		b.errs = append(b.errs, fmt.Errorf("schema %q: %w: %q", b.name, ErrUnknownConstraint, name))
		return Constraint{Name: name, Check: func(any, Args) bool { return false }, Message: StaticMessage(name)}
	}
	return c
}

// Field объявляет обязательное поле.
func (b *Builder) Field(name string, constraints ...Constraint) *Builder {
	return b.put(Field{Name: name, Constraints: constraints})
}

// Optional объявляет поле, ограничения которого применяются только к присутствующему значению.
func (b *Builder) Optional(name string, constraints ...Constraint) *Builder {
	return b.put(Field{Name: name, Constraints: constraints, Optional: true})
}

// Nested объявляет поле, проверяемое по schema.
func (b *Builder) Nested(name string, schema *Schema, optional bool, constraints ...Constraint) *Builder {
	if schema == nil {
		b.errs = append(b.errs, fmt.Errorf("schema %q: nested field %q without schema", b.name, name))
		return b
	}
	return b.put(Field{Name: name, Constraints: constraints, Optional: optional, Nested: schema})
}

func (b *Builder) put(f Field) *Builder {
	if f.Name == "" {
		b.errs = append(b.errs, fmt.Errorf("schema %q: empty field name", b.name))
		return b
	}
	if i, ok := b.index[f.Name]; ok {
		b.fields[i] = f
		return b
	}
	b.index[f.Name] = len(b.fields)
	b.fields = append(b.fields, f)
	return b
}

// Build возвращает неизменяемую схему.
func (b *Builder) Build() (*Schema, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	s := &Schema{
		name:   b.name,
		fields: make([]Field, len(b.fields)),
		index:  make(map[string]int, len(b.index)),
		scope:  b.scope,
	}
	copy(s.fields, b.fields)
	for k, v := range b.index {
		s.index[k] = v
	}
	return s, nil
}
