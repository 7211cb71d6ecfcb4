package handler

import (
	"os"

	"persona-chat-be/internal/pkg/logger"
	"persona-chat-be/internal/pkg/serverutils"
	"persona-chat-be/internal/service"
	internalWS "persona-chat-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// StreamHandler owns the websocket endpoint clients use for chat stream
// frames and notifications, plus the notification REST surface.
type StreamHandler struct {
	service *service.NotificationService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewStreamHandler(service *service.NotificationService, hub *internalWS.Hub, log logger.ILogger) *StreamHandler {
	return &StreamHandler{
		service: service,
		hub:     hub,
		logger:  log,
	}
}

func (h *StreamHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/stream", h.ServeWs)

	n := r.Group("/notifications")
	n.Use(serverutils.JwtMiddleware)
	n.Get("/", h.GetNotifications)
	n.Get("/unread", h.GetUnreadCount)
	n.Post("/read/:id", h.MarkAsRead)
	n.Post("/read-all", h.MarkAllAsRead)
}

// ServeWs upgrades the connection after validating the token. Browsers can't
// set headers on websocket handshakes, so the token may ride a query param.
func (h *StreamHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "missing token"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("StreamHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "invalid token claims"})
	}
	uid, ok := claims["user_id"].(string)
	if !ok || uid == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "token missing user_id"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("StreamHandler", "Starting stream session", map[string]interface{}{"uid": uid})
			internalWS.ServeWs(h.hub, conn, uid)
			h.logger.Info("StreamHandler", "Stream session ended", map[string]interface{}{"uid": uid})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *StreamHandler) GetNotifications(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	notifications, total, err := h.service.GetNotifications(c.UserContext(), uid, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    notifications,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

func (h *StreamHandler) GetUnreadCount(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)

	count, err := h.service.GetUnreadCount(c.UserContext(), uid)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "count": count})
}

func (h *StreamHandler) MarkAsRead(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid notification id"})
	}

	if err := h.service.MarkAsRead(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *StreamHandler) MarkAllAsRead(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)

	if err := h.service.MarkAllAsRead(c.UserContext(), uid); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
