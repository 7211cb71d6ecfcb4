package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"persona-chat-be/internal/apperror"
)

// ErrorEnvelope is the failure shape every endpoint shares.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ErrorResponse writes the shared failure envelope with the status derived
// from the error's classification.
func ErrorResponse(ctx *fiber.Ctx, err error) error {
	message := "internal server error"

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ctx.Status(fiberErr.Code).JSON(ErrorEnvelope{Success: false, Error: fiberErr.Message})
	}

	return ctx.Status(apperror.StatusCode(err)).JSON(ErrorEnvelope{Success: false, Error: message})
}

// ErrorHandler is installed as the fiber app's ErrorHandler so controllers
// can simply return classified errors.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	return ErrorResponse(ctx, err)
}
