package redis

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/redis/go-redis/v9"

	"reelhub.com/pkg/cache"
	"reelhub.com/pkg/constants"
)

var (
	redisClient *redis.Client

	// CommentCache 评论首页缓存, 未配置 redis 时为 nil
	CommentCache *cache.CommentCacheManager
	// ToggleLocker 同一用户对同一目标的切换操作互斥, 未配置 redis 时为 nil
	ToggleLocker Locker
)

// Load 连接 redis 并初始化评论缓存与分布式锁
func Load(ctx context.Context, addr, password string, db int) error {
	if addr == "" {
		hlog.Warn("redis addr not configured, comment cache and toggle locks disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		hlog.Errorf("redis ping failed: %v", err)
		_ = client.Close()
		return err
	}

	redisClient = client
	CommentCache = cache.NewCommentCacheManager(client, constants.CommentCacheExpire)
	ToggleLocker = NewRedsyncLocker(client, constants.ToggleLockExpiry)
	hlog.Infof("redis connected: %s", addr)
	return nil
}

func Close() error {
	if redisClient == nil {
		return nil
	}
	return redisClient.Close()
}
