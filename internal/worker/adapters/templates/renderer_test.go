package templates_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workwhiz/internal/queue"
	"workwhiz/internal/worker/adapters/templates"
	"workwhiz/internal/worker/ports"
	"workwhiz/pkg/logger"
)

func testContext() context.Context {
	return logger.NewContext(context.Background(), logger.NewNop())
}

func TestRender(t *testing.T) {
	ctx := testContext()
	r, err := templates.New()
	require.NoError(t, err)

	t.Run("password_setup", func(t *testing.T) {
		html, err := r.Render(ctx, queue.TemplateRef{
			Name:    queue.TemplatePasswordSetup,
			Content: queue.TemplateData{URI: "https://www.workwhiz.io/auth/setup-password?token=abc", Username: "Jane"},
		})
		require.NoError(t, err)
		assert.Contains(t, html, "Welcome to WorkWhiz, Jane!")
		assert.Contains(t, html, `href="https://www.workwhiz.io/auth/setup-password?token=abc"`)
	})

	t.Run("password_reset без имени", func(t *testing.T) {
		html, err := r.Render(ctx, queue.TemplateRef{
			Name:    queue.TemplatePasswordReset,
			Content: queue.TemplateData{URI: "https://admin.workwhiz.io/auth/reset-password?token=x"},
		})
		require.NoError(t, err)
		assert.Contains(t, html, "<h2>Hello,</h2>")
		assert.Contains(t, html, "reset-password?token=x")
	})

	t.Run("password_update экранирует устройство", func(t *testing.T) {
		html, err := r.Render(ctx, queue.TemplateRef{
			Name:    queue.TemplatePasswordUpdate,
			Content: queue.TemplateData{Username: "jane@acme.io", Device: "<script>x</script>"},
		})
		require.NoError(t, err)
		assert.Contains(t, html, "Hello jane@acme.io,")
		assert.Contains(t, html, "&lt;script&gt;x&lt;/script&gt;")
		assert.NotContains(t, html, "<script>")
	})

	t.Run("неизвестный шаблон", func(t *testing.T) {
		html, err := r.Render(ctx, queue.TemplateRef{Name: "welcome"})
		assert.ErrorIs(t, err, ports.ErrUnknownTemplate)
		assert.Empty(t, html)
	})
}

func TestRegister(t *testing.T) {
	ctx := testContext()
	r, err := templates.New()
	require.NoError(t, err)

	require.NoError(t, r.Register("welcome", "Hi {{ username }}"))
	html, err := r.Render(ctx, queue.TemplateRef{Name: "welcome", Content: queue.TemplateData{Username: "Jane"}})
	require.NoError(t, err)
	assert.Equal(t, "Hi Jane", html)

	assert.Error(t, r.Register("broken", "{% if username %}unclosed"))
	assert.Error(t, r.Register("missing", ""))
}
