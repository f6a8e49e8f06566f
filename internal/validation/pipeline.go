package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"workwhiz/pkg/logger"
)

// Константы для сообщений logger.
const (
	LogValidated = "input validated"
)

// Result - итог одной проверки. Заполнено ровно одно из Errors и ValidatedData.
type Result struct {
	IsValid       bool           `json:"isValid"`
	Errors        []string       `json:"errors,omitempty"`
	ValidatedData map[string]any `json:"validatedData,omitempty"`
	// Violations хранит имена ограничений для Errors.
	Violations []Violation `json:"-"`
}

// Decode копирует проверенные данные в out - указатель на структуру с json-тегами.
func (r *Result) Decode(out any) error {
	if !r.IsValid {
		return fmt.Errorf("decode: result is not valid")
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if err := dec.Decode(r.ValidatedData); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// Observer получает уведомление о каждой завершенной проверке.
type Observer interface {
	ObserveValidation(kind string, valid bool, elapsed time.Duration)
}

// Pipeline проверяет сырой ввод по зарегистрированным схемам.
type Pipeline struct {
	registry *Registry
	observer Observer
}

// Option настраивает Pipeline.
type Option func(*Pipeline)

// WithObserver подключает наблюдателя, обычно метрики.
func WithObserver(o Observer) Option {
	return func(p *Pipeline) { p.observer = o }
}

// NewPipeline создает конвейер поверх registry.
func NewPipeline(registry *Registry, opts ...Option) *Pipeline {
	p := &Pipeline{registry: registry}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Registry возвращает реестр схем.
func (p *Pipeline) Registry() *Registry { return p.registry }

// Validate приводит raw к схеме kind и применяет все ограничения.
// Нарушения возвращаются в Result, ошибка означает неизвестный
// kind или ввод, не являющийся объектом.
func (p *Pipeline) Validate(ctx context.Context, kind Kind, raw any) (*Result, error) {
	schema, err := p.registry.Schema(kind)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := ValidateSchema(ctx, schema, raw)
	if err != nil {
		return nil, err
	}

	if p.observer != nil {
		p.observer.ObserveValidation(string(kind), res.IsValid, time.Since(start))
	}
	logger.Log(ctx).Debug(ctx, LogValidated,
		zap.String("kind", string(kind)),
		zap.Bool("valid", res.IsValid),
		zap.Int("errors", len(res.Errors)))
	return res, nil
}

// ValidateSchema проверяет raw по schema. Поля проверяются параллельно, а
// нарушения собираются по индексу поля, поэтому порядок всегда совпадает с объявлением.
func ValidateSchema(ctx context.Context, schema *Schema, raw any) (*Result, error) {
	input, err := toObject(raw)
	if err != nil {
		return nil, err
	}
	candidate := shape(schema, input)

	fields := schema.fields
	perField := make([][]Violation, len(fields))

	g, _ := errgroup.WithContext(ctx)
	for i := range fields {
		g.Go(func() error {
			perField[i] = evaluateField(fields[i], candidate, "")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var violations []Violation
	for _, vs := range perField {
		violations = append(violations, vs...)
	}
	if len(violations) > 0 {
		return &Result{IsValid: false, Errors: Messages(violations), Violations: violations}, nil
	}
	return &Result{IsValid: true, ValidatedData: candidate}, nil
}

func evaluateField(f Field, object map[string]any, prefix string) []Violation {
	value, present := object[f.Name]
	if f.Optional && (!present || value == nil) {
		return nil
	}

	name := prefix + f.Name
	violations := Evaluate(name, value, f.Constraints, Args{Object: object})
	if f.Nested == nil {
		return violations
	}

	switch nested := value.(type) {
	case map[string]any:
		for _, nf := range f.Nested.fields {
			violations = append(violations, evaluateField(nf, nested, name+".")...)
		}
	case nil:
		violations = append(violations, Violation{
			Field: name, Constraint: RuleIsDefined,
			Message: fmt.Sprintf("%s should not be null or undefined", name),
		})
	default:
		violations = append(violations, Violation{
			Field: name, Constraint: RuleIsObject,
			Message: fmt.Sprintf("%s must be an object", name),
		})
	}
	return violations
}

// shape оставляет только поля схемы. Отсутствующие поля не добавляются.
func shape(schema *Schema, input map[string]any) map[string]any {
	out := make(map[string]any, len(schema.fields))
	for _, f := range schema.fields {
		v, ok := input[f.Name]
		if !ok {
			continue
		}
		if f.Nested != nil {
			if m, err := toObject(v); err == nil && v != nil {
				v = shape(f.Nested, m)
			}
		}
		out[f.Name] = v
	}
	return out
}

// toObject превращает map, JSON и структуры в простой объект.
func toObject(raw any) (map[string]any, error) {
	switch v := raw.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	case []byte:
		return decodeJSON(v)
	case json.RawMessage:
		return decodeJSON(v)
	case string:
		return decodeJSON([]byte(v))
	}

	rv := reflect.Indirect(reflect.ValueOf(raw))
	if rv.Kind() != reflect.Struct && rv.Kind() != reflect.Map {
		return nil, fmt.Errorf("%w: %T", ErrMalformedInput, raw)
	}

	out := map[string]any{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "json", Result: &out})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	return out, nil
}

func decodeJSON(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return map[string]any{}, nil
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}
