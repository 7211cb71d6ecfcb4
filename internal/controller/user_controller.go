package controller

import (
	"persona-chat-be/internal/dto"
	"persona-chat-be/internal/pkg/serverutils"
	"persona-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	CreateUser(ctx *fiber.Ctx) error
	GetMe(ctx *fiber.Ctx) error
}

type userController struct {
	service service.IUserService
}

func NewUserController(service service.IUserService) IUserController {
	return &userController{service: service}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/users")
	h.Post("/create", c.CreateUser)
	h.Get("/me", serverutils.JwtMiddleware, c.GetMe)
}

func (c *userController) CreateUser(ctx *fiber.Ctx) error {
	req, err := serverutils.ValidateRequest[dto.CreateUserRequest](ctx)
	if err != nil {
		return err
	}

	res, err := c.service.CreateUser(ctx.Context(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"success": true, "result": res})
}

func (c *userController) GetMe(ctx *fiber.Ctx) error {
	uid, _ := ctx.Locals("user_id").(string)

	res, err := c.service.GetUserByUID(ctx.Context(), uid)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"success": true, "user": res})
}
