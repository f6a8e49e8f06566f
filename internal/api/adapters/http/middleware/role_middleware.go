package middleware

import (
	"github.com/gofiber/fiber/v3"

	"workwhiz/internal/api/domain/entities"
)

type roleKey struct{}

// NewRoleMiddleware определяет роль по хосту запроса. Хост без роли получает 404.
func NewRoleMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		role, ok := entities.RoleFromHost(ctx.Hostname())
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown application host")
		}
		ctx.Locals(roleKey{}, role)
		return ctx.Next()
	}
}

// RoleFrom возвращает роль, найденную NewRoleMiddleware.
func RoleFrom(ctx fiber.Ctx) (entities.Role, bool) {
	role, ok := ctx.Locals(roleKey{}).(entities.Role)
	return role, ok && role.Valid()
}
