package controller

import (
	"persona-chat-be/internal/dto"
	"persona-chat-be/internal/pkg/serverutils"
	"persona-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IProfileController interface {
	RegisterRoutes(r fiber.Router)
	CreateProfile(ctx *fiber.Ctx) error
	CheckProfile(ctx *fiber.Ctx) error
	GetProfiles(ctx *fiber.Ctx) error
}

type profileController struct {
	service service.IProfileService
}

func NewProfileController(service service.IProfileService) IProfileController {
	return &profileController{service: service}
}

func (c *profileController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/profiles")
	h.Post("/create", c.CreateProfile)
	h.Get("/check/:uid", c.CheckProfile)
	h.Get("/:uid", c.GetProfiles)
}

func (c *profileController) CreateProfile(ctx *fiber.Ctx) error {
	req, err := serverutils.ValidateRequest[dto.CreateProfileRequest](ctx)
	if err != nil {
		return err
	}

	res, err := c.service.CreateProfile(ctx.Context(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"success": true, "result": res})
}

func (c *profileController) CheckProfile(ctx *fiber.Ctx) error {
	exists, err := c.service.CheckProfileExists(ctx.Context(), ctx.Params("uid"))
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"exists": exists})
}

func (c *profileController) GetProfiles(ctx *fiber.Ctx) error {
	profiles, err := c.service.ListProfiles(ctx.Context(), ctx.Params("uid"))
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"success": true, "profiles": profiles})
}
