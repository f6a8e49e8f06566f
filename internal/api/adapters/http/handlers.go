package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"workwhiz/internal/api/adapters/http/middleware"
	"workwhiz/internal/api/domain/entities"
	"workwhiz/internal/api/domain/services"
	"workwhiz/internal/api/ports/api"
	"workwhiz/internal/transform"
	"workwhiz/internal/validation"
	"workwhiz/pkg/logger"
)

// HealthCheck проверяет одну зависимость процесса.
type HealthCheck func(ctx context.Context) error

// Handler содержит HTTP обработчики API.
type Handler struct {
	accounts    api.AccountService
	profiles    api.ProfileService
	validations api.ValidationService
	checks      map[string]HealthCheck
}

// NewHandler создает обработчики API.
func NewHandler(accounts api.AccountService, profiles api.ProfileService, validations api.ValidationService, checks map[string]HealthCheck) *Handler {
	return &Handler{
		accounts:    accounts,
		profiles:    profiles,
		validations: validations,
		checks:      checks,
	}
}

func roleOf(ctx fiber.Ctx) (entities.Role, error) {
	role, ok := middleware.RoleFrom(ctx)
	if !ok {
		return "", entities.ErrUnknownRole
	}
	return role, nil
}

// Register регистрирует пользователя роли, определенной по хосту.
func (h *Handler) Register(ctx fiber.Ctx) error {
	role, err := roleOf(ctx)
	if err != nil {
		return err
	}

	dto, err := h.accounts.Register(ctx.Context(), role, ctx.Body())
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(dto)
}

func (h *Handler) passwordRequest(ctx fiber.Ctx) (services.PasswordRequest, error) {
	var req services.PasswordRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		return req, errors.Join(validation.ErrMalformedInput, err)
	}
	req.Device = ctx.Get(fiber.HeaderUserAgent)
	return req, nil
}

// SetupPassword задает первый пароль по токену из письма.
func (h *Handler) SetupPassword(ctx fiber.Ctx) error {
	req, err := h.passwordRequest(ctx)
	if err != nil {
		return err
	}
	if err := h.accounts.SetupPassword(ctx.Context(), req); err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"message": MsgPasswordUpdated})
}

// ForgotPassword ставит письмо сброса пароля.
func (h *Handler) ForgotPassword(ctx fiber.Ctx) error {
	if err := h.accounts.RequestPasswordReset(ctx.Context(), ctx.Body()); err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": MsgResetRequested})
}

// ResetPassword заменяет пароль по токену сброса.
func (h *Handler) ResetPassword(ctx fiber.Ctx) error {
	req, err := h.passwordRequest(ctx)
	if err != nil {
		return err
	}
	if err := h.accounts.ResetPassword(ctx.Context(), req); err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"message": MsgPasswordUpdated})
}

// GetProfile отдает публичное представление профиля.
func (h *Handler) GetProfile(ctx fiber.Ctx) error {
	role, err := roleOf(ctx)
	if err != nil {
		return err
	}

	dto, err := h.profiles.GetProfile(ctx.Context(), role, ctx.Params("id"), transform.ModeResponse)
	if err != nil {
		return err
	}
	return ctx.JSON(dto)
}

// Validate выполняет пробную валидацию. Невалидный вход - это 200 с isValid=false.
func (h *Handler) Validate(ctx fiber.Ctx) error {
	res, err := h.validations.Validate(ctx.Context(), validation.Kind(ctx.Params("kind")), ctx.Body())
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

// Health проверяет зависимости процесса.
func (h *Handler) Health(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	status := fiber.StatusOK
	report := make(fiber.Map, len(h.checks))

	for name, check := range h.checks {
		if err := check(requestCtx); err != nil {
			logger.Log(requestCtx).Warn(requestCtx, "health check failed", zap.String("check", name), zap.Error(err))
			report[name] = "down"
			status = fiber.StatusServiceUnavailable
			continue
		}
		report[name] = "up"
	}
	return ctx.Status(status).JSON(fiber.Map{"status": report})
}
