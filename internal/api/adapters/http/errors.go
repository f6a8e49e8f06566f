package http

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"workwhiz/internal/api/app"
	"workwhiz/internal/api/domain/entities"
	"workwhiz/internal/api/domain/services"
	"workwhiz/internal/validation"
	"workwhiz/pkg/logger"
)

// Тексты ответов об ошибках.
const (
	MsgInternalError   = "Internal Server Error"
	MsgMalformedBody   = "request body must be a JSON object"
	MsgUnknownRole     = "unknown role"
	MsgUnknownKind     = "unknown validation kind"
	MsgAccountExists   = "an account with this email already exists"
	MsgPhoneExists     = "an account with this phone number already exists"
	MsgInvalidToken    = "invalid or expired token"
	MsgPasswordSet     = "password already set"
	MsgAccountLocked   = "account is locked"
	MsgNotFound        = "not found"
	MsgRouteNotFound   = "route not found"
	MsgResetRequested  = "if the email is registered, a reset link has been sent"
	MsgPasswordUpdated = "password updated"
)

type errorResponse struct {
	Error  string   `json:"error,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// statusFor переводит ошибку сценария в HTTP статус и тело ответа.
func statusFor(err error) (int, errorResponse) {
	var verr *app.ValidationError
	var ferr *fiber.Error

	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, errorResponse{Errors: verr.Messages}
	case errors.Is(err, validation.ErrMalformedInput):
		return fiber.StatusBadRequest, errorResponse{Error: MsgMalformedBody}
	case errors.Is(err, validation.ErrUnknownSchema):
		return fiber.StatusNotFound, errorResponse{Error: MsgUnknownKind}
	case errors.Is(err, entities.ErrUnknownRole):
		return fiber.StatusNotFound, errorResponse{Error: MsgUnknownRole}
	case errors.Is(err, entities.ErrEmailAlreadyExists):
		return fiber.StatusConflict, errorResponse{Error: MsgAccountExists}
	case errors.Is(err, entities.ErrPhoneAlreadyExists):
		return fiber.StatusConflict, errorResponse{Error: MsgPhoneExists}
	case errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrExpiredToken),
		errors.Is(err, services.ErrTokenPurpose):
		return fiber.StatusUnauthorized, errorResponse{Error: MsgInvalidToken}
	case errors.Is(err, services.ErrPasswordAlreadySet):
		return fiber.StatusConflict, errorResponse{Error: MsgPasswordSet}
	case errors.Is(err, entities.ErrUserLocked):
		return fiber.StatusForbidden, errorResponse{Error: MsgAccountLocked}
	case errors.Is(err, entities.ErrUserNotFound), errors.Is(err, entities.ErrProfileNotFound):
		return fiber.StatusNotFound, errorResponse{Error: MsgNotFound}
	case errors.As(err, &ferr):
		return ferr.Code, errorResponse{Error: ferr.Message}
	}
	return fiber.StatusInternalServerError, errorResponse{Error: MsgInternalError}
}

// ErrorHandler - обработчик ошибок fiber для API.
func ErrorHandler(ctx fiber.Ctx, err error) error {
	status, body := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		requestCtx := ctx.Context()
		logger.Log(requestCtx).Error(requestCtx, "unhandled error", zap.Error(err), zap.String("path", ctx.Path()))
	}
	return ctx.Status(status).JSON(body)
}
