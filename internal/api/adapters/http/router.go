// Package http содержит HTTP сервер API на fiber.
package http

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"

	"workwhiz/internal/api/adapters/http/middleware"
	"workwhiz/internal/metrics"
)

// NewApp создает приложение fiber с обработчиком ошибок API.
func NewApp(cfg fiber.Config) *fiber.App {
	cfg.ErrorHandler = ErrorHandler
	if cfg.AppName == "" {
		cfg.AppName = "workwhiz-api"
	}
	return fiber.New(cfg)
}

// SetupRouter настраивает маршрутизацию API.
func SetupRouter(app *fiber.App, h *Handler, m *metrics.Metrics) {
	app.Use(middleware.NewMetricsMiddleware(m))
	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	app.Get("/healthz", h.Health)
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	apiV1 := app.Group("/api/v1")

	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/register", h.Register, middleware.NewRoleMiddleware())
	authRoutes.Post("/password/setup", h.SetupPassword)
	authRoutes.Post("/password/forgot", h.ForgotPassword)
	authRoutes.Post("/password/reset", h.ResetPassword)

	apiV1.Get("/profiles/:id", h.GetProfile, middleware.NewRoleMiddleware())
	apiV1.Post("/validate/:kind", h.Validate)

	app.Use(func(ctx fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, MsgRouteNotFound)
	})
}
