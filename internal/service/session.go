package service

import (
	"context"
	"time"
)

// SessionStore 保存每个用户当前有效的 access token，redis 或数据库实现
type SessionStore interface {
	Save(ctx context.Context, userID, token string, ttl time.Duration) error
	Get(ctx context.Context, userID string) (string, error)
	Extend(ctx context.Context, userID string, ttl time.Duration) error
	Delete(ctx context.Context, userID string) error
}
