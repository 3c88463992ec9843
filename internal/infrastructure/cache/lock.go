package cache

import (
	"context"
	"errors"
	"time"

	"toolshare-backend/pkg/id"

	"github.com/redis/go-redis/v9"
)

var ErrLockTTL = errors.New("lock ttl must be positive")

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another replica is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a single-instance SET NX PX lock.
type RedisLocker struct {
	rdb    redis.UniversalClient
	prefix string
}

func NewRedisLocker(rdb redis.UniversalClient) *RedisLocker {
	return &RedisLocker{rdb: rdb, prefix: "lock:"}
}

func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error) {
	if ttl <= 0 {
		return nil, false, ErrLockTTL
	}
	k := l.prefix + key
	token := id.NewID32()
	ok, err := l.rdb.SetNX(ctx, k, token, ttl).Result()
	if err != nil || !ok {
		return nil, false, err
	}
	unlock := func(ctx context.Context) error {
		return releaseScript.Run(ctx, l.rdb, []string{k}, token).Err()
	}
	return unlock, true, nil
}
