package middleware

import (
	"github.com/gofiber/fiber/v3"

	"workwhiz/pkg/logger"
)

const maxRequestIDLength = 128

// NewRequestIDMiddleware берет X-Request-ID из запроса или генерирует новый
// и кладет его в контекст запроса и в ответ.
func NewRequestIDMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		id := ctx.Get(logger.HeaderRequestID)
		if id == "" || len(id) > maxRequestIDLength {
			id = logger.GenerateRequestID()
		}
		ctx.Set(logger.HeaderRequestID, id)
		ctx.SetContext(logger.NewRequestIDContext(ctx.Context(), id))
		return ctx.Next()
	}
}
