package service

import (
	"context"
	"strconv"
	"time"

	"NexusFlow/internal/model"
	"NexusFlow/internal/pkg"
	"NexusFlow/internal/repository/rdb"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const outboxMaxRetry = 5

type Sender func(ctx context.Context, ob *model.OutboxEvent) error

// OutboxRelayer outbox表相关服务
type OutboxRelayer struct {
	repo      *rdb.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
	log       *zap.Logger
}

func NewOutboxRelayer(db *gorm.DB, sender Sender, batchSize int, interval time.Duration, log *zap.Logger) *OutboxRelayer {
	if batchSize <= 0 {
		batchSize = 200
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &OutboxRelayer{
		repo:      &rdb.OutboxRepository{DB: db},
		batchSize: batchSize,
		interval:  interval,
		sender:    sender,
		log:       log.Named("outbox"),
	}
}

// Run outbox启动器
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.DrainOnce(ctx)
		}
	}
}

// DrainOnce 从数据库读取待投递事件交给 sender，返回成功条数
func (r *OutboxRelayer) DrainOnce(ctx context.Context) int {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		r.log.Error("outbox query failed", zap.Error(err))
		return 0
	}
	sent := 0
	for i := range rows {
		ob := rows[i]
		if err := r.sender(ctx, &ob); err != nil {
			r.log.Warn("outbox send failed", zap.Uint64("id", ob.ID), zap.String("type", ob.EventType), zap.Error(err))
			pkg.OutboxDelivered.WithLabelValues("failed").Inc()
			if err := r.repo.RetryUpdate(ctx, ob.ID); err != nil {
				r.log.Error("outbox retry update failed", zap.Uint64("id", ob.ID), zap.Error(err))
			}
			continue
		}
		pkg.OutboxDelivered.WithLabelValues("sent").Inc()
		if err := r.repo.SuccessUpdate(ctx, ob.ID); err != nil {
			r.log.Error("outbox success update failed", zap.Uint64("id", ob.ID), zap.Error(err))
			continue
		}
		sent++
	}

	// 失败的事件在下一轮重新投递，超过重试上限的留在 failed 状态
	if n, err := r.repo.Requeue(ctx, outboxMaxRetry); err != nil {
		r.log.Error("outbox requeue failed", zap.Error(err))
	} else if n > 0 {
		r.log.Debug("outbox requeued", zap.Int64("count", n))
	}
	return sent
}

// KafkaSender 以聚合 id 作为消息 key，同一社区/帖子/活动的事件保持顺序
func KafkaSender(p *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.OutboxEvent) error {
		return p.Send(ctx, ob.AggregateID, ob.Payload, map[string]string{
			"event_type": ob.EventType,
			"outbox_id":  strconv.FormatUint(ob.ID, 10),
			"actor_id":   ob.ActorID,
		})
	}
}

// LogSender 未配置 Kafka 时只打印
func LogSender(log *zap.Logger) Sender {
	return func(ctx context.Context, ob *model.OutboxEvent) error {
		log.Info("outbox event",
			zap.String("type", ob.EventType),
			zap.String("aggregate", ob.AggregateID),
			zap.String("actor", ob.ActorID),
			zap.ByteString("payload", ob.Payload))
		return nil
	}
}
