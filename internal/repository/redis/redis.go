package redis

import (
	"context"
	"fmt"
	"time"

	"NexusFlow/internal/config"

	"github.com/redis/go-redis/v9"
)

// NewClient 初始化 Redis 客户端并做一次 Ping 健康检查
func NewClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,     // 例如 "127.0.0.1:6379"
		Password:     cfg.Password, // 无密码则留空
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}
