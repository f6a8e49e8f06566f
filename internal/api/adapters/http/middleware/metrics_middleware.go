package middleware

import (
	"github.com/gofiber/fiber/v3"

	"workwhiz/internal/metrics"
)

// NewMetricsMiddleware считает запросы по шаблону маршрута, а не по фактическому пути.
func NewMetricsMiddleware(m *metrics.Metrics) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		err := ctx.Next()
		route := "unmatched"
		if r := ctx.Route(); r != nil && r.Path != "" && r.Path != "/" {
			route = r.Path
		}
		m.IncHTTPRequest(ctx.Method(), route, ctx.Response().StatusCode())
		return err
	}
}
