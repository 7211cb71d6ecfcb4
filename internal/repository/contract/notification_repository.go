package contract

import (
	"context"

	"persona-chat-be/internal/model"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	ListByUID(ctx context.Context, uid string, limit, offset int) ([]model.Notification, int64, error)
	UnreadCount(ctx context.Context, uid string) (int64, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, uid string) error
}
