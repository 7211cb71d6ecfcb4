package service

import (
	"context"
	"fmt"

	"persona-chat-be/internal/model"
	"persona-chat-be/internal/pkg/logger"
	"persona-chat-be/internal/repository/contract"
	"persona-chat-be/internal/websocket"
	"persona-chat-be/pkg/events"
	pktNats "persona-chat-be/pkg/nats"

	"github.com/google/uuid"
)

// NotificationService turns audit events into stored notifications and live
// websocket pushes.
type NotificationService struct {
	repo       contract.NotificationRepository
	subscriber *pktNats.Subscriber
	delivery   StreamDelivery
	logger     logger.ILogger
}

func NewNotificationService(repo contract.NotificationRepository, sub *pktNats.Subscriber, delivery StreamDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		repo:       repo,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	if s.subscriber == nil {
		s.logger.Warn("NotificationService", "No subscriber configured, notifications disabled", nil)
		return
	}
	err := s.subscriber.Subscribe("audit.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to audit.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()
	uid, _ := payload["uid"].(string)

	var title, body string
	switch eventType(event) {
	case events.TypeUserCreated:
		title = "Welcome to Persona Chat"
		body = "Your account was created. Build a persona and start a conversation."
	case events.TypePersonaCreated:
		name, _ := payload["persona_name"].(string)
		title = "Persona created"
		body = fmt.Sprintf("Your persona %q is ready to chat.", name)
	case events.TypePersonaDeleted:
		title = "Persona deleted"
		body = "A persona was removed along with its listing."
	default:
		// Unknown audit events are acked without a notification.
		return nil
	}

	if uid == "" {
		s.logger.Warn("NotificationService", "Event without target uid", map[string]interface{}{"type": event.EventType()})
		return nil
	}

	notification := model.Notification{
		Id:      uuid.New(),
		UserUID: uid,
		Type:    eventType(event),
		Title:   title,
		Body:    body,
	}
	if err := s.repo.Create(ctx, &notification); err != nil {
		return err
	}

	if s.delivery != nil {
		s.delivery.Send(uid, websocket.Frame{Type: "notification", Data: notification})
	}
	return nil
}

// eventType strips the subject prefix NATS delivery leaves on the type.
func eventType(event events.Event) string {
	t := event.EventType()
	if len(t) > 6 && t[:6] == "audit." {
		return t[6:]
	}
	return t
}

// GetNotifications returns one page of the user's notifications plus total.
func (s *NotificationService) GetNotifications(ctx context.Context, uid string, limit, offset int) ([]model.Notification, int64, error) {
	return s.repo.ListByUID(ctx, uid, limit, offset)
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, uid string) (int64, error) {
	return s.repo.UnreadCount(ctx, uid)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, uid string) error {
	return s.repo.MarkAllAsRead(ctx, uid)
}
