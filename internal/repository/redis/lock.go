package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	LockKeyPrefix  = "lock:"
	DefaultLockTTL = 30 * time.Second
)

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`)

// DistLock 多实例部署时保证定时任务只有一个实例在跑
type DistLock struct {
	RDB *redis.Client
	TTL time.Duration
}

func (l *DistLock) ttl() time.Duration {
	if l.TTL <= 0 {
		return DefaultLockTTL
	}
	return l.TTL
}

// Acquire 请求加分布式锁，ttl<=0 时使用 DistLock.TTL
func (l *DistLock) Acquire(ctx context.Context, name, token string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = l.ttl()
	}
	return l.RDB.SetNX(ctx, LockKeyPrefix+name, token, ttl).Result()
}

// Release 用lua保证只释放自己持有的锁
func (l *DistLock) Release(ctx context.Context, name, token string) error {
	return releaseScript.Run(ctx, l.RDB, []string{LockKeyPrefix + name}, token).Err()
}
