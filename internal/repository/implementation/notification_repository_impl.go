package implementation

import (
	"context"

	"persona-chat-be/internal/model"
	"persona-chat-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) contract.NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, notification *model.Notification) error {
	if notification.Id == uuid.Nil {
		notification.Id = uuid.New()
	}
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *NotificationRepositoryImpl) ListByUID(ctx context.Context, uid string, limit, offset int) ([]model.Notification, int64, error) {
	var notifications []model.Notification
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Notification{}).Where("user_uid = ?", uid)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *NotificationRepositoryImpl) UnreadCount(ctx context.Context, uid string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_uid = ? AND is_read = false", uid).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(ctx context.Context, uid string) error {
	return r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_uid = ? AND is_read = false", uid).
		Update("is_read", true).Error
}
