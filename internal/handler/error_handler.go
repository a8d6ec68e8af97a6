package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/natours/natours-backend/internal/apperror"
	"github.com/natours/natours-backend/internal/middleware"
	"github.com/natours/natours-backend/internal/models"
	"github.com/natours/natours-backend/pkg/utils"
)

const msgInternal = "Something went very wrong!"

// ErrorHandler renders every error returned by a handler as the JSON error
// envelope. Only app errors reach the client verbatim.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, message := describe(err)

		if status >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("request_id", middleware.GetRequestID(c)),
				zap.Error(err))
		}

		return c.Status(status).JSON(models.ErrorResponse(message))
	}
}

func describe(err error) (int, string) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		if appErr.Status >= fiber.StatusInternalServerError && !errors.Is(err, apperror.ErrEmailDelivery) {
			return appErr.Status, msgInternal
		}
		return appErr.Status, appErr.Message
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return fiber.StatusBadRequest, utils.Describe(err)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}

	return fiber.StatusInternalServerError, msgInternal
}

// NotFound answers routes nothing else matched.
func NotFound(c *fiber.Ctx) error {
	return apperror.New(apperror.ErrNotFound, "Can't find "+c.OriginalURL()+" on this server!")
}
