// Package http отдает метрики и состояние воркера.
package http

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"workwhiz/internal/metrics"
	"workwhiz/internal/queue"
	"workwhiz/pkg/logger"
)

// Лимиты выдачи /jobs/failed.
const (
	DefaultFailedLimit = 20
	MaxFailedLimit     = 100
)

// Ping проверяет доступность брокера очереди.
type Ping func(ctx context.Context) error

// FailedJobs возвращает последние задачи из списка failed.
type FailedJobs func(ctx context.Context, limit int64) ([]queue.EmailJob, error)

// NewApp создает приложение с маршрутами /metrics, /healthz и /jobs/failed.
func NewApp(m *metrics.Metrics, ping Ping, failed FailedJobs) *fiber.App {
	app := fiber.New(fiber.Config{AppName: "workwhiz-worker"})

	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	app.Get("/healthz", func(ctx fiber.Ctx) error {
		requestCtx := ctx.Context()
		if err := ping(requestCtx); err != nil {
			logger.Log(requestCtx).Warn(requestCtx, "health check failed", zap.String("check", "redis"), zap.Error(err))
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": fiber.Map{"redis": "down"}})
		}
		return ctx.JSON(fiber.Map{"status": fiber.Map{"redis": "up"}})
	})
	app.Get("/jobs/failed", func(ctx fiber.Ctx) error {
		limit := int64(DefaultFailedLimit)
		if raw := ctx.Query("limit"); raw != "" {
			n, err := cast.ToInt64E(raw)
			if err != nil || n <= 0 {
				return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be a positive integer"})
			}
			limit = min(n, MaxFailedLimit)
		}

		requestCtx := ctx.Context()
		jobs, err := failed(requestCtx, limit)
		if err != nil {
			logger.Log(requestCtx).Error(requestCtx, "failed to list failed jobs", zap.Error(err))
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
		}
		return ctx.JSON(fiber.Map{"jobs": jobs, "count": len(jobs)})
	})
	return app
}
