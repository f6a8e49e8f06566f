// Package templates рендерит письма воркера шаблонами Liquid.
package templates

import (
	"context"
	"embed"
	"fmt"
	"path"
	"strings"

	"github.com/osteele/liquid"
	"go.uber.org/zap"

	"workwhiz/internal/queue"
	"workwhiz/internal/worker/ports"
	"workwhiz/pkg/logger"
)

// Константы для сообщений об ошибках.
const (
	ErrReadTemplate   = "failed to read email template"
	ErrParseTemplate  = "failed to parse email template"
	ErrRenderTemplate = "failed to render email template"
)

//go:embed files/*.liquid
var files embed.FS

// Renderer хранит разобранные шаблоны. После New безопасен для конкурентного использования.
type Renderer struct {
	engine    *liquid.Engine
	templates map[queue.Template]*liquid.Template
}

// New разбирает встроенные шаблоны писем.
func New() (*Renderer, error) {
	r := &Renderer{
		engine:    liquid.NewEngine(),
		templates: make(map[queue.Template]*liquid.Template),
	}

	for _, name := range []queue.Template{
		queue.TemplatePasswordReset,
		queue.TemplatePasswordSetup,
		queue.TemplatePasswordUpdate,
	} {
		if err := r.Register(name, ""); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register добавляет или заменяет шаблон. Пустой source загружает встроенный файл name.liquid.
// Вызывается только до начала обработки задач.
func (r *Renderer) Register(name queue.Template, source string) error {
	if source == "" {
		raw, err := files.ReadFile(path.Join("files", string(name)+".liquid"))
		if err != nil {
			return fmt.Errorf("%s %q: %w", ErrReadTemplate, name, err)
		}
		source = string(raw)
	}

	tpl, serr := r.engine.ParseString(source)
	if serr != nil {
		return fmt.Errorf("%s %q: %w", ErrParseTemplate, name, serr)
	}
	r.templates[name] = tpl
	return nil
}

// Render рендерит шаблон ref.Name с его данными.
func (r *Renderer) Render(ctx context.Context, ref queue.TemplateRef) (string, error) {
	tpl, ok := r.templates[ref.Name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ports.ErrUnknownTemplate, ref.Name)
	}

	out, serr := tpl.RenderString(liquid.Bindings{
		"uri":      ref.Content.URI,
		"username": ref.Content.Username,
		"device":   ref.Content.Device,
	})
	if serr != nil {
		logger.Log(ctx).Error(ctx, ErrRenderTemplate, zap.String("template", string(ref.Name)), zap.Error(serr))
		return "", fmt.Errorf("%s %q: %w", ErrRenderTemplate, ref.Name, serr)
	}
	return strings.TrimSpace(out), nil
}
