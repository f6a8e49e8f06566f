package transform

import "fmt"

type specKey struct {
	kind Kind
	mode Mode
}

// Recorder реализуют сущности, умеющие выгружать себя в Record.
type Recorder interface {
	Record() Record
}

// Transformer применяет зарегистрированные описания. После создания только для чтения.
type Transformer struct {
	specs map[specKey]*Spec
}

// New создает преобразователь с DefaultSpecs.
func New() *Transformer {
	t, err := NewWithSpecs(DefaultSpecs()...)
	if err != nil {
		panic(err)
	}
	return t
}

// NewWithSpecs проверяет и регистрирует описания.
func NewWithSpecs(specs ...*Spec) (*Transformer, error) {
	t := &Transformer{specs: make(map[specKey]*Spec, len(specs))}
	for _, s := range specs {
		key := specKey{kind: s.Kind, mode: s.Mode}
		if _, dup := t.specs[key]; dup {
			return nil, &Error{Kind: s.Kind, Mode: s.Mode, Err: ErrSpecConflict}
		}
		if err := checkSpec(s); err != nil {
			return nil, err
		}
		t.specs[key] = s
	}

	for _, s := range specs {
		for _, f := range s.Fields {
			if f.Nested == "" {
				continue
			}
			if _, ok := t.specs[specKey{kind: f.Nested, mode: ModeResponse}]; !ok {
				return nil, &Error{Kind: s.Kind, Mode: s.Mode, Field: f.Name, Err: fmt.Errorf("%w: nested %q", ErrUnknownKind, f.Nested)}
			}
		}
	}
	return t, nil
}

func checkSpec(s *Spec) error {
	names := make(map[string]struct{}, len(s.Fields)+len(s.Computed))
	for _, f := range s.Fields {
		if _, dup := names[f.Name]; dup {
			return &Error{Kind: s.Kind, Mode: s.Mode, Field: f.Name, Err: ErrSpecConflict}
		}
		names[f.Name] = struct{}{}
	}
	for _, c := range s.Computed {
		if _, dup := names[c.Name]; dup {
			return &Error{Kind: s.Kind, Mode: s.Mode, Field: c.Name, Err: ErrSpecConflict}
		}
		names[c.Name] = struct{}{}
	}
	return nil
}

// ToInternal строит внутренний DTO записи.
func (t *Transformer) ToInternal(kind Kind, record Record) (DTO, error) {
	return t.Transform(kind, record, ModeInternal)
}

// ToResponse строит публичный DTO записи.
func (t *Transformer) ToResponse(kind Kind, record Record) (DTO, error) {
	return t.Transform(kind, record, ModeResponse)
}

// Transform преобразует record по описанию kind в mode. Запись не изменяется.
func (t *Transformer) Transform(kind Kind, record Record, mode Mode) (DTO, error) {
	spec, ok := t.specs[specKey{kind: kind, mode: mode}]
	if !ok {
		return nil, &Error{Kind: kind, Mode: mode, Err: ErrUnknownKind}
	}

	out := make(DTO, len(spec.Fields)+len(spec.Computed))
	for _, f := range spec.Fields {
		if f.Policy == Never || (mode == ModeResponse && IsSensitive(f.Name)) {
			continue
		}

		value, present := record[f.Name]
		if !present || value == nil {
			if f.Policy == IncludeIfPresent {
				continue
			}
			if f.Default == nil {
				return nil, &Error{Kind: kind, Mode: mode, Field: f.Name, Err: ErrMissingField}
			}
			out[f.Name] = f.Default()
			continue
		}

		converted, err := t.convert(f, value)
		if err != nil {
			return nil, &Error{Kind: kind, Mode: mode, Field: f.Name, Err: err}
		}
		if mode == ModeResponse {
			converted = redact(converted)
		}
		out[f.Name] = converted
	}

	for _, c := range spec.Computed {
		if mode == ModeResponse && IsSensitive(c.Name) {
			continue
		}
		if v, ok := c.Get(out); ok {
			if mode == ModeResponse {
				v = redact(v)
			}
			out[c.Name] = v
		}
	}
	return out, nil
}

func (t *Transformer) convert(f FieldSpec, value any) (any, error) {
	if f.Nested != "" {
		nested, err := asRecord(value)
		if err != nil {
			return nil, err
		}
		return t.Transform(f.Nested, nested, ModeResponse)
	}
	if f.Convert == nil {
		return value, nil
	}
	return f.Convert(value)
}

// redact возвращает копию v без чувствительных ключей на любой глубине.
// Типы map и срезов сохраняются, прочие значения возвращаются как есть.
func redact(v any) any {
	switch val := v.(type) {
	case Record:
		return Record(redactMap(val))
	case DTO:
		return DTO(redactMap(val))
	case map[string]any:
		return redactMap(val)
	case Recorder:
		return DTO(redactMap(val.Record()))
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = redact(item)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(val))
		for i, item := range val {
			out[i] = redactMap(item)
		}
		return out
	case []DTO:
		out := make([]DTO, len(val))
		for i, item := range val {
			out[i] = redactMap(item)
		}
		return out
	}
	return v
}

func redactMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if IsSensitive(k) {
			continue
		}
		out[k] = redact(v)
	}
	return out
}

func asRecord(v any) (Record, error) {
	switch r := v.(type) {
	case Record:
		return r, nil
	case map[string]any:
		return r, nil
	case DTO:
		return Record(r), nil
	case Recorder:
		return r.Record(), nil
	}
	return nil, fmt.Errorf("%w: %T is not a record", ErrInvalidValue, v)
}
