package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"persona-chat-be/internal/apperror"
)

var validate = validator.New()

// ValidateRequest parses the request body into T and runs struct validation.
func ValidateRequest[T any](ctx *fiber.Ctx) (*T, error) {
	req := new(T)
	if err := ctx.BodyParser(req); err != nil {
		return nil, apperror.Validation("malformed request body")
	}

	if err := validate.Struct(req); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			fields := make([]string, 0, len(invalid))
			for _, fe := range invalid {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return nil, apperror.Validation("invalid fields: " + strings.Join(fields, ", "))
		}
		return nil, apperror.Validation("invalid request")
	}

	return req, nil
}
