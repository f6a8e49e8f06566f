// Package middleware содержит промежуточное ПО HTTP API.
package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"workwhiz/pkg/logger"
)

// NewLoggerMiddleware логирует запросы. Ошибку цепочки он передает ErrorHandler приложения,
// чтобы в журнал и метрики попал итоговый статус.
func NewLoggerMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := ctx.Context()
		start := time.Now()

		log := logger.Log(requestCtx).With(
			zap.String("path", ctx.Path()),
			zap.String("method", ctx.Method()),
			zap.String("ip", ctx.IP()),
		)
		log.Debug(requestCtx, "request started")

		chainErr := ctx.Next()
		if chainErr != nil {
			if err := ctx.App().ErrorHandler(ctx, chainErr); err != nil {
				_ = ctx.SendStatus(fiber.StatusInternalServerError)
			}
		}

		fields := []zap.Field{
			zap.Int("status", ctx.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		}
		if chainErr != nil {
			log.Warn(requestCtx, "request failed", append(fields, zap.Error(chainErr))...)
			return nil
		}
		log.Info(requestCtx, "request completed", fields...)
		return nil
	}
}
