package controller

import (
	"net/url"

	"persona-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// pathParam unescapes a captured path segment; display names and emails
// arrive percent-encoded.
func pathParam(ctx *fiber.Ctx, key string) string {
	raw := ctx.Params(key)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

type IPersonaController interface {
	RegisterRoutes(r fiber.Router)
	GetCatalog(ctx *fiber.Ctx) error
	GetPersonas(ctx *fiber.Ctx) error
	DeletePersona(ctx *fiber.Ctx) error
}

type personaController struct {
	service service.IPersonaService
}

func NewPersonaController(service service.IPersonaService) IPersonaController {
	return &personaController{service: service}
}

func (c *personaController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/personas")
	h.Get("/catalog", c.GetCatalog)
	h.Get("/:uid/:email", c.GetPersonas)
	h.Delete("/:identifier", c.DeletePersona)
}

func (c *personaController) GetCatalog(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"success": true, "personas": c.service.Catalog()})
}

func (c *personaController) GetPersonas(ctx *fiber.Ctx) error {
	personas, err := c.service.ListPersonas(ctx.Context(), pathParam(ctx, "uid"), pathParam(ctx, "email"))
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"success": true, "personas": personas})
}

func (c *personaController) DeletePersona(ctx *fiber.Ctx) error {
	deletedId, err := c.service.DeletePersona(ctx.Context(), pathParam(ctx, "identifier"))
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"success": true, "deletedId": deletedId})
}
