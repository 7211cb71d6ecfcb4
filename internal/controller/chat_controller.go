package controller

import (
	"persona-chat-be/internal/dto"
	"persona-chat-be/internal/pkg/serverutils"
	"persona-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	StoreMessage(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	GetChats(ctx *fiber.Ctx) error
	GetConversations(ctx *fiber.Ctx) error
	NewConversation(ctx *fiber.Ctx) error
}

type chatController struct {
	storeService   service.IChatStoreService
	sessionService service.IChatSessionService
}

func NewChatController(storeService service.IChatStoreService, sessionService service.IChatSessionService) IChatController {
	return &chatController{
		storeService:   storeService,
		sessionService: sessionService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chats")
	h.Post("/store", c.StoreMessage)
	h.Post("/send", serverutils.JwtMiddleware, c.SendMessage)
	h.Get("/conversations", serverutils.JwtMiddleware, c.GetConversations)
	h.Post("/conversations/new", serverutils.JwtMiddleware, c.NewConversation)
	h.Get("/:uid", c.GetChats)
}

func (c *chatController) StoreMessage(ctx *fiber.Ctx) error {
	req, err := serverutils.ValidateRequest[dto.StoreChatMessageRequest](ctx)
	if err != nil {
		return err
	}

	res, err := c.storeService.AppendChatMessage(ctx.Context(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"success": true, "result": res})
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	uid, _ := ctx.Locals("user_id").(string)
	email, _ := ctx.Locals("user_email").(string)

	req, err := serverutils.ValidateRequest[dto.SendMessageRequest](ctx)
	if err != nil {
		return err
	}

	res, err := c.sessionService.SendMessage(ctx.Context(), uid, email, req)
	if err != nil {
		return err
	}
	if res == nil {
		// Whitespace-only content is accepted and ignored.
		return ctx.JSON(fiber.Map{"success": true})
	}
	return ctx.JSON(fiber.Map{"success": true, "result": res})
}

func (c *chatController) GetChats(ctx *fiber.Ctx) error {
	chats, err := c.storeService.GetChatsByUID(ctx.Context(), ctx.Params("uid"))
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"success": true, "chats": chats})
}

func (c *chatController) GetConversations(ctx *fiber.Ctx) error {
	uid, _ := ctx.Locals("user_id").(string)

	conversations, err := c.sessionService.ListConversations(ctx.Context(), uid)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"success": true, "conversations": conversations})
}

func (c *chatController) NewConversation(ctx *fiber.Ctx) error {
	uid, _ := ctx.Locals("user_id").(string)

	req, err := serverutils.ValidateRequest[dto.PersonaPayload](ctx)
	if err != nil {
		return err
	}

	index, err := c.sessionService.NewConversation(ctx.Context(), uid, req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"success": true, "conversation_index": index})
}
