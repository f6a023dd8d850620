package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"NexusFlow/internal/pkg"

	"github.com/redis/go-redis/v9"
)

const SessionKeyPrefix = "session:user"

// SessionRepository 一个用户同一时间只保留一个 access token
type SessionRepository struct {
	RDB *redis.Client
}

func sessionKey(userID string) string {
	return fmt.Sprintf("%s:%s", SessionKeyPrefix, userID)
}

func (r *SessionRepository) Save(ctx context.Context, userID, token string, ttl time.Duration) error {
	if err := r.RDB.Set(ctx, sessionKey(userID), token, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", pkg.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, userID string) (string, error) {
	token, err := r.RDB.Get(ctx, sessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", pkg.ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", pkg.ErrStoreUnavailable, err)
	}
	return token, nil
}

// Extend 滑动过期
func (r *SessionRepository) Extend(ctx context.Context, userID string, ttl time.Duration) error {
	if err := r.RDB.Expire(ctx, sessionKey(userID), ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", pkg.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, userID string) error {
	if err := r.RDB.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", pkg.ErrStoreUnavailable, err)
	}
	return nil
}
