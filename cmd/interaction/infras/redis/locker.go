package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"

	"reelhub.com/cmd/model"
)

// Locker serializes work on a key across api instances.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

type RedsyncLocker struct {
	rs     *redsync.Redsync
	expiry time.Duration
}

func NewRedsyncLocker(client *redis.Client, expiry time.Duration) *RedsyncLocker {
	return &RedsyncLocker{
		rs:     redsync.New(goredis.NewPool(client)),
		expiry: expiry,
	}
}

func (l *RedsyncLocker) Lock(ctx context.Context, key string) (func(), error) {
	m := l.rs.NewMutex(key,
		redsync.WithExpiry(l.expiry),
		redsync.WithTries(32),
		redsync.WithRetryDelay(50*time.Millisecond),
	)
	if err := m.LockContext(ctx); err != nil {
		return nil, err
	}
	return func() {
		if _, err := m.UnlockContext(context.Background()); err != nil {
			hlog.Warnf("unlock %s failed: %v", key, err)
		}
	}, nil
}

func LikeLockKey(userId int64, target model.LikeTarget) string {
	return fmt.Sprintf("lock:like:%d:%s", userId, target)
}

func FollowLockKey(followerId, followingId int64) string {
	return fmt.Sprintf("lock:follow:%d:%d", followerId, followingId)
}

// WithLock runs fn under locker when one is configured, otherwise runs it directly.
func WithLock(ctx context.Context, locker Locker, key string, fn func() error) error {
	if locker == nil {
		return fn()
	}
	unlock, err := locker.Lock(ctx, key)
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", key, err)
	}
	defer unlock()
	return fn()
}
