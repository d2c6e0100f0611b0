package matchmaking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisLocker is the distributed PairLocker for multi-instance deployments.
// One key per unordered pair, SET NX with a TTL so a crashed holder cannot
// wedge the pair forever.
type RedisLocker struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisLocker{rdb: rdb, ttl: ttl}
}

// 释放脚本：只有持有者自己的 token 才能删除锁
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`

func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func() error) error {
	token := uuid.NewString()
	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return err
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
		}
	}
	defer func() {
		_ = l.rdb.Eval(context.WithoutCancel(ctx), releaseScript, []string{key}, token).Err()
	}()
	return fn()
}
