package rdb

import (
	"context"
	"encoding/json"
	"time"

	"NexusFlow/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OutboxRepository struct {
	DB *gorm.DB
}

// appendOutbox 插入 outbox 事件，调用方保证在业务事务内
func appendOutbox(tx *gorm.DB, eventType, aggregateID, actorID string, fields map[string]any) error {
	body := map[string]any{
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
		"aggregate":  aggregateID,
		"actor":      actorID,
	}
	for k, v := range fields {
		body[k] = v
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return tx.Create(&model.OutboxEvent{
		EventType:   eventType,
		AggregateID: aggregateID,
		ActorID:     actorID,
		Payload:     datatypes.JSON(payload),
		Status:      model.OutboxPending,
	}).Error
}

// List outbox查询
func (r *OutboxRepository) List(ctx context.Context, batchSize int) ([]model.OutboxEvent, error) {
	var list []model.OutboxEvent
	if err := r.DB.WithContext(ctx).
		Where("status = ?", model.OutboxPending).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// RetryUpdate outbox记录消息失败重试
func (r *OutboxRepository) RetryUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.OutboxEvent{}).Where("id = ?", id).
		Updates(map[string]any{"status": model.OutboxFailed, "retry": gorm.Expr("retry + 1")}).Error
}

// SuccessUpdate outbox成功记录消息更新
func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.OutboxEvent{}).Where("id = ?", id).
		Update("status", model.OutboxSent).Error
}

// Requeue 失败的事件重新置为待发送，超过 maxRetry 的不再处理
func (r *OutboxRepository) Requeue(ctx context.Context, maxRetry int) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&model.OutboxEvent{}).
		Where("status = ? AND retry < ?", model.OutboxFailed, maxRetry).
		Update("status", model.OutboxPending)
	return res.RowsAffected, res.Error
}
