package serverutils

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"persona-chat-be/internal/apperror"
)

// JwtMiddleware authenticates the request from a Bearer token and exposes the
// caller's identity via ctx.Locals("user_id") and ctx.Locals("user_email").
func JwtMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return apperror.AuthenticationRequired("missing token")
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		return apperror.AuthenticationRequired("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return apperror.AuthenticationRequired("invalid claims")
	}

	ctx.Locals("user_id", claims["user_id"])
	ctx.Locals("user_email", claims["user_email"])
	return ctx.Next()
}
