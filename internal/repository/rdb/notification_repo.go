package rdb

import (
	"context"
	"errors"

	"NexusFlow/internal/model"
	"NexusFlow/internal/pkg"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.DB.WithContext(ctx).Create(n).Error
}

// ListByUser 最新的在前
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]model.Notification, error) {
	var list []model.Notification
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// MarkRead 只能标记自己的通知，别人的通知按不存在处理
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	var n model.Notification
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&n).Error; err != nil {
			return err
		}
		return tx.Model(&model.Notification{}).Where("id = ?", id).Update("is_read", true).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkg.ErrNotificationNotFound
	}
	return err
}
