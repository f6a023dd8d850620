package service

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SessionPurger 能清理过期会话的存储；redis 靠过期时间自动清理，不需要
type SessionPurger interface {
	Purge(ctx context.Context) (int64, error)
}

// SessionJanitor 定时删除数据库里过期的会话
type SessionJanitor struct {
	store SessionPurger
	log   *zap.Logger
}

func NewSessionJanitor(store SessionPurger, log *zap.Logger) *SessionJanitor {
	return &SessionJanitor{store: store, log: log.Named("sessions")}
}

func (j *SessionJanitor) RunOnce(ctx context.Context) (int64, error) {
	n, err := j.store.Purge(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		j.log.Info("expired sessions purged", zap.Int64("rows", n))
	}
	return n, nil
}

func (j *SessionJanitor) Schedule(ctx context.Context, c *cron.Cron, schedule string) error {
	_, err := c.AddFunc(schedule, func() {
		if _, err := j.RunOnce(ctx); err != nil {
			j.log.Error("purge sessions failed", zap.Error(err))
		}
	})
	return err
}
